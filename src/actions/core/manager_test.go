package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubModule struct {
	name     string
	startErr error
	journal  *[]string
}

func (s *stubModule) Name() string { return s.name }

func (s *stubModule) Start(context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	*s.journal = append(*s.journal, "start "+s.name)
	return nil
}

func (s *stubModule) Stop(context.Context) {
	*s.journal = append(*s.journal, "stop "+s.name)
}

func TestManagerStartStopOrder(t *testing.T) {
	var journal []string
	mgr := NewManager(zap.NewNop(),
		&stubModule{name: "a", journal: &journal},
		&stubModule{name: "b", journal: &journal},
	)
	require.NoError(t, mgr.Add(&stubModule{name: "c", journal: &journal}))
	assert.Equal(t, []string{"a", "b", "c"}, mgr.Modules())

	require.NoError(t, mgr.Start(context.Background()))
	assert.Error(t, mgr.Start(context.Background()))
	assert.Error(t, mgr.Add(&stubModule{name: "late", journal: &journal}))

	mgr.Stop(context.Background())
	mgr.Stop(context.Background())
	assert.Equal(t, []string{"start a", "start b", "start c", "stop c", "stop b", "stop a"}, journal)
}

func TestManagerRollsBackOnFailure(t *testing.T) {
	var journal []string
	boom := errors.New("boom")
	mgr := NewManager(nil,
		&stubModule{name: "a", journal: &journal},
		nil,
		&stubModule{name: "b", journal: &journal},
		&stubModule{name: "c", startErr: boom, journal: &journal},
	)

	err := mgr.Start(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "module c failed")
	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, journal)
}
