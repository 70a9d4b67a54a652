package wordle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Result
	}{
		{
			name:  "hard mode with two rows",
			input: "Wordle 123 4/6*\n\nrow1\nrow2",
			want:  &Result{Game: 123, Guesses: 4, Board: []string{"row1", "row2"}, HardMode: true},
		},
		{
			name:  "emoji board",
			input: "Wordle 1,234 3/6\n\n⬛🟨⬛⬛⬛\n⬛🟩🟩⬛🟨\n🟩🟩🟩🟩🟩",
			want:  &Result{Game: 1234, Guesses: 3, Board: []string{"⬛🟨⬛⬛⬛", "⬛🟩🟩⬛🟨", "🟩🟩🟩🟩🟩"}},
		},
		{
			name:  "failure",
			input: "Wordle 900 X/6\n\n⬛⬛⬛⬛⬛",
			want:  &Result{Game: 900, Guesses: Failed, Board: []string{"⬛⬛⬛⬛⬛"}},
		},
		{
			name:  "surrounding chatter",
			input: "morning all\nWordle 42 1/6\r\n\r\n🟩🟩🟩🟩🟩\n\nlucky guess",
			want:  &Result{Game: 42, Guesses: 1, Board: []string{"🟩🟩🟩🟩🟩"}},
		},
		{
			name:  "no header",
			input: "I played wordle today, 4 guesses",
		},
		{
			name:  "header without blank line",
			input: "Wordle 123 4/6\nrow1",
		},
		{
			name:  "header without board",
			input: "Wordle 123 4/6\n\n",
		},
		{
			name:  "seven guesses is not a score",
			input: "Wordle 123 7/6\n\nrow1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCompact(t *testing.T) {
	got := ParseCompact("Wordle 321 2/6 ⬛🟩🟨⬛⬛ 🟩🟩🟩🟩🟩")
	require.NotNil(t, got)
	assert.Equal(t, 321, got.Game)
	assert.Equal(t, 2, got.Guesses)
	assert.Equal(t, []string{"⬛🟩🟨⬛⬛", "🟩🟩🟩🟩🟩"}, got.Board)

	multi := ParseCompact("Wordle 5 X/6*\n\n⬛⬛⬛⬛⬛")
	require.NotNil(t, multi)
	assert.Equal(t, Failed, multi.Guesses)
	assert.True(t, multi.HardMode)

	assert.Nil(t, ParseCompact("Wordle 321 2/6"))
	assert.Nil(t, ParseCompact("not a result"))
}

func TestEncodeDecodeBoard(t *testing.T) {
	board := []string{"⬛🟨⬛⬜⬛", "🟧🟦🟩🟩🟩", "row1"}

	encoded := EncodeBoard(board)
	assert.Equal(t, []string{"BYBWB", "OUGGG", "row1"}, encoded)
	assert.Equal(t, board, DecodeBoard(encoded))
}

func TestResultScore(t *testing.T) {
	assert.Equal(t, "4/6", (&Result{Guesses: 4}).Score())
	assert.Equal(t, "X/6*", (&Result{Guesses: Failed, HardMode: true}).Score())
	assert.True(t, EmptyResult(10).IsEmpty())
	assert.False(t, (&Result{Guesses: Failed}).Won())
}
