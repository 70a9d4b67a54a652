package wordle

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxGuesses is the number of rows on a Wordle board.
	MaxGuesses = 6
	// Failed is the guess count recorded for an X/6 result.
	Failed = MaxGuesses + 1
)

// Result is one player's outcome for a single Wordle game.
// A zero Guesses value marks an empty result (nothing recorded).
type Result struct {
	Game     int       `json:"game"`
	Guesses  int       `json:"guesses"`
	Board    []string  `json:"board"`
	Date     time.Time `json:"date"`
	HardMode bool      `json:"hardMode,omitempty"`
}

// EmptyResult is returned by stores for games that were never recorded.
func EmptyResult(game int) *Result {
	return &Result{Game: game, Board: []string{}}
}

func (r *Result) IsEmpty() bool {
	return r == nil || r.Guesses == 0
}

func (r *Result) Won() bool {
	return r.Guesses >= 1 && r.Guesses <= MaxGuesses
}

// Score renders the guess count the way Wordle shares it: "4/6", "X/6", "3/6*".
func (r *Result) Score() string {
	s := "X"
	if r.Won() {
		s = strconv.Itoa(r.Guesses)
	}
	s += "/" + strconv.Itoa(MaxGuesses)
	if r.HardMode {
		s += "*"
	}
	return s
}

func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	c := *r
	c.Board = append([]string{}, r.Board...)
	return &c
}

var headerRe = regexp.MustCompile(`Wordle\s+(\d{1,3}(?:,\d{3})+|\d+)\s+([1-6Xx])/6(\*?)[ \t]*\r?\n[ \t]*\r?\n`)

// Parse extracts a result from shared Wordle text. It returns nil when the
// text has no "Wordle <game> <g>/6" header followed by a blank line and at
// least one board row. The returned result carries no date.
func Parse(text string) *Result {
	loc := headerRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil
	}

	game, err := strconv.Atoi(strings.ReplaceAll(text[loc[2]:loc[3]], ",", ""))
	if err != nil {
		return nil
	}

	guesses := Failed
	if g := text[loc[4]:loc[5]]; g != "X" && g != "x" {
		guesses, _ = strconv.Atoi(g)
	}

	var board []string
	for _, line := range strings.Split(text[loc[1]:], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		board = append(board, line)
	}
	if len(board) == 0 {
		return nil
	}

	return &Result{
		Game:     game,
		Guesses:  guesses,
		Board:    board,
		HardMode: loc[7] > loc[6],
	}
}

// ParseCompact accepts the single-line form slash-command options force on
// users ("Wordle 123 4/6 🟩⬛⬛🟨⬛ 🟩🟩🟩🟩🟩") and parses it like Parse.
func ParseCompact(text string) *Result {
	if r := Parse(text); r != nil {
		return r
	}

	fields := strings.Fields(text)
	for i := 0; i+3 < len(fields); i++ {
		if fields[i] != "Wordle" {
			continue
		}
		canonical := strings.Join(fields[i:i+3], " ") + "\n\n" + strings.Join(fields[i+3:], "\n")
		return Parse(canonical)
	}
	return nil
}

var (
	squareToCode = strings.NewReplacer(
		"🟩", "G",
		"🟨", "Y",
		"⬛", "B",
		"⬜", "W",
		"🟧", "O",
		"🟦", "U",
	)
	codeToSquare = strings.NewReplacer(
		"G", "🟩",
		"Y", "🟨",
		"B", "⬛",
		"W", "⬜",
		"O", "🟧",
		"U", "🟦",
	)
	squares = []string{"🟩", "🟨", "⬛", "⬜", "🟧", "🟦"}
)

// EncodeBoard maps every row made only of coloured squares to one letter per
// square. Other rows are kept as they are.
func EncodeBoard(board []string) []string {
	out := make([]string, len(board))
	for i, row := range board {
		if isSquareRow(row) {
			out[i] = squareToCode.Replace(row)
		} else {
			out[i] = row
		}
	}
	return out
}

// DecodeBoard reverses EncodeBoard.
func DecodeBoard(board []string) []string {
	out := make([]string, len(board))
	for i, row := range board {
		if isCodeRow(row) {
			out[i] = codeToSquare.Replace(row)
		} else {
			out[i] = row
		}
	}
	return out
}

func isSquareRow(row string) bool {
	if row == "" {
		return false
	}
	rest := row
	for rest != "" {
		matched := false
		for _, sq := range squares {
			if strings.HasPrefix(rest, sq) {
				rest = rest[len(sq):]
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func isCodeRow(row string) bool {
	if row == "" {
		return false
	}
	return strings.Trim(row, "GYBWOU") == ""
}
