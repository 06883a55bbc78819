package engagement

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSessionGap is the longest silence still counted as continuous presence.
const DefaultSessionGap = 5 * time.Minute

// Delta is what a single observed message added to a user's totals.
type Delta struct {
	Minutes float64
	Words   int64
}

// Tracker owns the cumulative maps and the transient last-seen map.
type Tracker struct {
	mu       sync.Mutex
	store    *Store
	log      *zap.Logger
	gap      time.Duration
	doc      Document
	lastSeen map[string]time.Time
}

// NewTracker loads the persisted document and returns a ready tracker.
// A gap <= 0 selects DefaultSessionGap.
func NewTracker(store *Store, gap time.Duration, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	if gap <= 0 {
		gap = DefaultSessionGap
	}
	return &Tracker{
		store:    store,
		log:      log,
		gap:      gap,
		doc:      store.Load(),
		lastSeen: make(map[string]time.Time),
	}
}

// Observe accounts one message by userID sent at `at` and persists the result.
func (t *Tracker) Observe(userID, content string, at time.Time) Delta {
	t.mu.Lock()
	defer t.mu.Unlock()

	var delta Delta

	last, seen := t.lastSeen[userID]
	switch {
	case !seen:
		t.lastSeen[userID] = at
	case at.Before(last):
		// out of order; keep the newer anchor
	default:
		if gap := at.Sub(last); gap <= t.gap {
			delta.Minutes = gap.Minutes()
			t.doc.ActiveTime[userID] += delta.Minutes
		}
		t.lastSeen[userID] = at
	}

	delta.Words = CountWords(content)
	t.doc.UserWordCounts[userID] += delta.Words

	if err := t.store.Save(t.doc); err != nil {
		t.log.Error("engagement: save failed", zap.String("path", t.store.Path()), zap.Error(err))
	}

	return delta
}

// Snapshot returns a copy of the cumulative maps.
func (t *Tracker) Snapshot() Document {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.doc.Clone()
}

// CountWords counts whitespace separated tokens. Blank text counts zero.
func CountWords(content string) int64 {
	return int64(len(strings.Fields(content)))
}
