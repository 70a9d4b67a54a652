package wordle

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatStatsDistributionOrder(t *testing.T) {
	s := NewStats()
	for i, g := range []int{6, 3, 3, 1, Failed, 4} {
		s = Update(s, result(i+1, g, day0.AddDate(0, 0, i)))
	}

	out := FormatStats("alice", s)

	last := -1
	for g := 1; g <= MaxGuesses; g++ {
		idx := strings.Index(out, fmt.Sprintf("\n%d | ", g))
		assert.Greater(t, idx, last, "line for %d guesses out of order", g)
		last = idx
	}
	assert.Contains(t, out, "Wordle stats for alice")
	assert.Contains(t, out, "Played: 6")
	assert.Contains(t, out, "First played: 2026-10-01")
	assert.Contains(t, out, "\n3 | "+strings.Repeat("█", barWidth)+" 2")
}

func TestFormatStatsUnsetDates(t *testing.T) {
	out := FormatStats("bob", NewStats())

	assert.Contains(t, out, "First played: N/A")
	assert.Contains(t, out, "Last played: N/A")
	assert.Contains(t, out, "\n6 |  0")
}

func TestFormatResult(t *testing.T) {
	r := &Result{Game: 77, Guesses: 4, HardMode: true, Board: []string{"BYBBB", "GGGGG"}, Date: day0}

	out := FormatResult("carol", r)
	assert.Equal(t, "Wordle 77 4/6* by carol\nPlayed 2026-10-01\n⬛🟨⬛⬛⬛\n🟩🟩🟩🟩🟩", out)

	assert.Equal(t, "No result recorded for carol on Wordle 78.", FormatResult("carol", EmptyResult(78)))
}

func TestFormatWeekly(t *testing.T) {
	assert.Equal(t, "No Wordle results for dan in the last 7 days.", FormatWeekly("dan", nil))

	out := FormatWeekly("dan", []*Result{
		result(12, 2, day0.AddDate(0, 0, 1)),
		result(11, Failed, day0),
	})
	assert.True(t, strings.HasPrefix(out, "Wordle results for dan this week (2):"))
	assert.Less(t, strings.Index(out, "Wordle 12 2/6"), strings.Index(out, "Wordle 11 X/6"))
}
