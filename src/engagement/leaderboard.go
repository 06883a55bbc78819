package engagement

import (
	"math"
	"sort"
)

// Entry is one user's totals.
type Entry struct {
	UserID        string  `json:"userId"`
	ActiveMinutes float64 `json:"activeMinutes"`
	Words         int64   `json:"words"`
}

// Ranking is an ordered list of entries, best first.
type Ranking struct {
	Entries []Entry
}

// RankByActivity orders users present in the active-time map by minutes
// descending, ties by user ID ascending.
func RankByActivity(doc Document) Ranking {
	entries := make([]Entry, 0, len(doc.ActiveTime))
	for id, minutes := range doc.ActiveTime {
		entries = append(entries, Entry{UserID: id, ActiveMinutes: minutes, Words: doc.UserWordCounts[id]})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ActiveMinutes != entries[j].ActiveMinutes {
			return entries[i].ActiveMinutes > entries[j].ActiveMinutes
		}
		return entries[i].UserID < entries[j].UserID
	})
	return Ranking{Entries: entries}
}

// RankByWords orders users present in the word-count map by words
// descending, ties by user ID ascending.
func RankByWords(doc Document) Ranking {
	entries := make([]Entry, 0, len(doc.UserWordCounts))
	for id, words := range doc.UserWordCounts {
		entries = append(entries, Entry{UserID: id, ActiveMinutes: doc.ActiveTime[id], Words: words})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Words != entries[j].Words {
			return entries[i].Words > entries[j].Words
		}
		return entries[i].UserID < entries[j].UserID
	})
	return Ranking{Entries: entries}
}

// Top returns at most n leading entries.
func (r Ranking) Top(n int) []Entry {
	if n < 0 {
		n = 0
	}
	if n > len(r.Entries) {
		n = len(r.Entries)
	}
	return r.Entries[:n]
}

// Standing returns the 1-based rank of userID. ok is false when unranked.
func (r Ranking) Standing(userID string) (rank int, entry Entry, ok bool) {
	for i, e := range r.Entries {
		if e.UserID == userID {
			return i + 1, e, true
		}
	}
	return 0, Entry{UserID: userID}, false
}

// SplitMinutes converts a minute total to whole hours and remaining minutes.
// The total is rounded first so the minute part is always below 60.
func SplitMinutes(minutes float64) (hours, mins int) {
	if minutes < 0 || math.IsNaN(minutes) {
		return 0, 0
	}
	total := int(math.Round(minutes))
	return total / 60, total % 60
}
