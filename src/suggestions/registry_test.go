package suggestions

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryRegistryLifecycle(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := NewSuggestion("g1", "u1", "alice", "", "dark mode", now)
	require.NoError(t, reg.Create(ctx, s))
	require.NoError(t, reg.AttachMessage(ctx, s.ID, "c1", "m1"))

	got, err := reg.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "m1", got.MessageID)
	assert.Equal(t, "c1", got.ChannelID)

	resolved, err := reg.Transition(ctx, s.ID, StatusRejected, "mod", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resolved.Status)

	_, err = reg.Transition(ctx, s.ID, StatusApproved, "mod", now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	got, err = reg.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)

	require.NoError(t, reg.Delete(ctx, s.ID))
	_, err = reg.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, reg.Delete(ctx, s.ID), ErrNotFound)
	assert.ErrorIs(t, reg.AttachMessage(ctx, s.ID, "c", "m"), ErrNotFound)
	_, err = reg.Transition(ctx, s.ID, StatusApproved, "mod", now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRegistryList(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		s := NewSuggestion("g1", "u1", "alice", "", "idea", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, reg.Create(ctx, s))
		ids = append(ids, s.ID)
	}
	_, err := reg.Transition(ctx, ids[1], StatusApproved, "mod", base)
	require.NoError(t, err)

	all, err := reg.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	pending, err := reg.List(ctx, StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, ids[2], pending[0].ID)

	approved, err := reg.List(ctx, StatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, ids[1], approved[0].ID)
}

func TestMemoryRegistryConcurrentTransition(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	s := NewSuggestion("g1", "u1", "alice", "", "idea", time.Now())
	require.NoError(t, reg.Create(ctx, s))

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		losses  int
		winners []Status
	)
	for i := 0; i < workers; i++ {
		to := StatusApproved
		if i%2 == 1 {
			to = StatusRejected
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := reg.Transition(ctx, s.ID, to, "mod", time.Now())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
				winners = append(winners, got.Status)
				return
			}
			assert.ErrorIs(t, err, ErrAlreadyResolved)
			losses++
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, losses)
	final, err := reg.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, winners[0], final.Status)
}

func TestFileRegistrySurvivesReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "suggestions.json")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := NewFileRegistry(path, zap.NewNop())
	s := NewSuggestion("g1", "u1", "alice", "", "dark mode", now)
	require.NoError(t, first.Create(ctx, s))
	require.NoError(t, first.AttachMessage(ctx, s.ID, "c1", "m1"))

	second := NewFileRegistry(path, zap.NewNop())
	got, err := second.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, "m1", got.MessageID)

	resolved, err := second.Transition(ctx, s.ID, StatusApproved, "mod", now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, resolved.Status)

	third := NewFileRegistry(path, zap.NewNop())
	_, err = third.Transition(ctx, s.ID, StatusRejected, "mod", now.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	require.NoError(t, third.Delete(ctx, s.ID))
	_, err = NewFileRegistry(path, zap.NewNop()).Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileRegistryUnreadableFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestions.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	list, err := NewFileRegistry(path, zap.NewNop()).List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileRegistryCreateFailsWhenUnwritable(t *testing.T) {
	ctx := context.Background()
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	reg := NewFileRegistry(filepath.Join(blocker, "suggestions.json"), zap.NewNop())
	s := NewSuggestion("g1", "u1", "alice", "", "idea", time.Now())
	require.Error(t, reg.Create(ctx, s))

	_, err := reg.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
