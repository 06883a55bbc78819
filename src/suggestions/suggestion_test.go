package suggestions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionResolve(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSuggestion("g1", "u1", "alice", "", "more emojis", now)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, StatusPending, s.Status)
	assert.True(t, s.CanResolve())

	require.NoError(t, s.Resolve(StatusApproved, "mod", now.Add(time.Minute)))
	assert.Equal(t, StatusApproved, s.Status)
	assert.Equal(t, "mod", s.ResolvedBy)
	require.NotNil(t, s.ResolvedAt)
	assert.Equal(t, now.Add(time.Minute), *s.ResolvedAt)

	assert.ErrorIs(t, s.Resolve(StatusRejected, "mod2", now), ErrAlreadyResolved)
	assert.Equal(t, StatusApproved, s.Status)
	assert.Equal(t, "mod", s.ResolvedBy)
}

func TestSuggestionResolveRejectsPending(t *testing.T) {
	s := NewSuggestion("g1", "u1", "alice", "", "x", time.Now())
	assert.ErrorIs(t, s.Resolve(StatusPending, "mod", time.Now()), ErrInvalidTransition)
	assert.ErrorIs(t, s.Resolve("archived", "mod", time.Now()), ErrInvalidTransition)
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, Status("nope").Valid())
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestCustomIDRoundTrip(t *testing.T) {
	id := CustomID(ActionReject, "abc-123")
	assert.Equal(t, "suggestion_reject:abc-123", id)

	action, sid, ok := ParseCustomID(id)
	require.True(t, ok)
	assert.Equal(t, ActionReject, action)
	assert.Equal(t, "abc-123", sid)
	assert.Equal(t, StatusRejected, action.Status())
}

func TestParseCustomIDForeign(t *testing.T) {
	for _, id := range []string{"", "suggestion_approve", "suggestion_approve:", "other:abc", "vote:yes"} {
		_, _, ok := ParseCustomID(id)
		assert.False(t, ok, id)
	}
}
