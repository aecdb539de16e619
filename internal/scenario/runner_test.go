package scenario

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clocktower/grimoire-go/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func runFile(t *testing.T, name string) (*Result, error) {
	t.Helper()
	sc, err := LoadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return NewRunner(game.Options{}).Run(context.Background(), sc)
}

func TestRun_Scenarios(t *testing.T) {
	tests := []struct {
		file  string
		steps int
	}{
		{"poisoner.yaml", 12},
		{"virgin.yaml", 9},
		{"registers.yaml", 14},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			res, err := runFile(t, tt.file)
			require.NoError(t, err)
			assert.Len(t, res.Lines, tt.steps)
			require.NotNil(t, res.Snapshot)
		})
	}
}

func TestRun_Reports(t *testing.T) {
	res, err := runFile(t, "virgin.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Day 1 begins.", res.Lines[0])
	assert.True(t, strings.HasPrefix(res.Lines[1], "nominate failed as expected"))
	assert.Equal(t, "alice votes (1).", res.Lines[5])
	assert.Equal(t, "Alice has come back to life.", res.Lines[7])

	alice, ok := res.Snapshot.Player("alice")
	require.True(t, ok)
	assert.False(t, alice.Dead)
	assert.Equal(t, 0, alice.DeadVotes)

	res, err = runFile(t, "registers.yaml")
	require.NoError(t, err)
	assert.Contains(t, res.Lines, "Pat has been executed, but does not die.")
	assert.Contains(t, res.Lines, "pat is now the Sailor.")
	assert.Len(t, res.Snapshot.Storytellers, 1)
}

func TestRun_FailedExpectation(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sc, err := LoadFile(filepath.Join("testdata", "broken.yaml"))
	require.NoError(t, err)

	res, err := NewRunner(game.Options{Logger: zap.New(core)}).Run(context.Background(), sc)
	assert.ErrorIs(t, err, ErrExpectation)
	require.NotNil(t, res)
	assert.Empty(t, res.Lines)
	assert.Equal(t, 1, logs.FilterMessage("scenario failed").Len())
}

func TestRun_FailsFlagRequiresError(t *testing.T) {
	sc, err := Parse(strings.NewReader(`
players:
  - {id: alice, character: Empath}
steps:
  - morning: {}
    fails: true
`))
	require.NoError(t, err)
	_, err = NewRunner(game.Options{}).Run(context.Background(), sc)
	assert.ErrorIs(t, err, ErrExpectation)
}

func TestRun_UnknownLabel(t *testing.T) {
	sc, err := Parse(strings.NewReader(`
players:
  - {id: alice, character: Empath}
steps:
  - delete: nothing
`))
	require.NoError(t, err)
	_, err = NewRunner(game.Options{}).Run(context.Background(), sc)
	assert.ErrorContains(t, err, "unknown effect label")
}

func TestRun_Cancelled(t *testing.T) {
	sc, err := LoadFile(filepath.Join("testdata", "poisoner.yaml"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewRunner(game.Options{}).Run(ctx, sc)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no players", "steps: []\n"},
		{"two actions", "players: [{id: a, character: Empath}]\nsteps:\n  - {execute: a, revive: a}\n"},
		{"no action", "players: [{id: a, character: Empath}]\nsteps:\n  - {fails: true}\n"},
		{"unknown field", "players: [{id: a, character: Empath}]\nsteps:\n  - {explode: a}\n"},
		{"not yaml", "players: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := Parse(strings.NewReader("players: [{id: a, character: Empath}]\nsteps:\n  - {execute: a, revive: a}\n"))
	assert.ErrorIs(t, err, ErrBadStep)

	_, err = LoadFile(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}
