package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func userIDs(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.UserID)
	}
	return out
}

func TestRankByWords(t *testing.T) {
	doc := NewDocument()
	doc.UserWordCounts["A"] = 10
	doc.UserWordCounts["B"] = 30
	doc.UserWordCounts["C"] = 5

	ranking := RankByWords(doc)

	assert.Equal(t, []string{"B", "A", "C"}, userIDs(ranking.Entries))
	rank, entry, ok := ranking.Standing("A")
	assert.True(t, ok)
	assert.Equal(t, 2, rank)
	assert.Equal(t, int64(10), entry.Words)
}

func TestRankByActivity_TieBreakByUserID(t *testing.T) {
	doc := NewDocument()
	doc.ActiveTime["zed"] = 4
	doc.ActiveTime["amy"] = 4
	doc.ActiveTime["bob"] = 9
	doc.UserWordCounts["bob"] = 7

	ranking := RankByActivity(doc)

	assert.Equal(t, []string{"bob", "amy", "zed"}, userIDs(ranking.Entries))
	assert.Equal(t, int64(7), ranking.Entries[0].Words)
}

func TestRanking_StandingUnranked(t *testing.T) {
	ranking := RankByActivity(NewDocument())

	rank, entry, ok := ranking.Standing("ghost")

	assert.False(t, ok)
	assert.Zero(t, rank)
	assert.Equal(t, "ghost", entry.UserID)
}

func TestRanking_Top(t *testing.T) {
	ranking := Ranking{Entries: []Entry{{UserID: "a"}, {UserID: "b"}, {UserID: "c"}}}

	assert.Len(t, ranking.Top(2), 2)
	assert.Len(t, ranking.Top(10), 3)
	assert.Empty(t, ranking.Top(-1))
}

func TestSplitMinutes(t *testing.T) {
	tests := []struct {
		minutes float64
		hours   int
		mins    int
	}{
		{minutes: 0, hours: 0, mins: 0},
		{minutes: 59.4, hours: 0, mins: 59},
		{minutes: 59.6, hours: 1, mins: 0},
		{minutes: 119.5, hours: 2, mins: 0},
		{minutes: 125, hours: 2, mins: 5},
		{minutes: -3, hours: 0, mins: 0},
	}

	for _, tt := range tests {
		h, m := SplitMinutes(tt.minutes)
		assert.Equal(t, tt.hours, h, "hours for %v", tt.minutes)
		assert.Equal(t, tt.mins, m, "minutes for %v", tt.minutes)
	}
}
