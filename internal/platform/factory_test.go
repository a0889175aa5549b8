package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mindpages/internal/clocktest"
	"github.com/aretw0/mindpages/pkg/adapters/memory"
	"github.com/aretw0/mindpages/pkg/core"
	"github.com/aretw0/mindpages/pkg/draft"
)

func TestNewStore_Empty(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)

	pages, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestNewStore_Samples(t *testing.T) {
	store, err := NewStore(WithSamples(true))
	require.NoError(t, err)

	pages, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "Mathematics Chapter 5 Notes", pages[0].Title)

	selected, ok := store.Selected(context.Background())
	require.True(t, ok)
	assert.Equal(t, pages[0].ID, selected.ID)
}

func TestNewStore_SeedFileWinsOverSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: only\n  title: Only page\n"), 0644))

	store, err := NewStore(WithSamples(true), WithSeedFile(path))
	require.NoError(t, err)

	pages, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "only", pages[0].ID)
}

func TestNewStore_Errors(t *testing.T) {
	_, err := NewStore(WithAdapter("sqlite"))
	assert.ErrorContains(t, err, "unknown adapter")

	_, err = NewStore(WithSeedFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorContains(t, err, "seed file")
}

func TestNewStore_InjectedRepository(t *testing.T) {
	repo := memory.NewRepository()
	store, err := NewStore(WithRepository(repo), WithAdapter("ignored"))
	require.NoError(t, err)

	_, err = store.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Len())
}

func TestNewSynchronizer_Options(t *testing.T) {
	clock := clocktest.New(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	var commits []core.Page

	store, err := NewStore(WithClock(clock))
	require.NoError(t, err)
	s := NewSynchronizer(store,
		WithClock(clock),
		WithQuiescence(500*time.Millisecond),
		WithSwitchPolicy(draft.SwitchDiscard),
		WithOnCommit(func(p core.Page) { commits = append(commits, p) }),
	)

	ctx := context.Background()
	p, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, s.BeginEditing(ctx, p))
	require.NoError(t, s.SetTitle("Quick"))

	clock.Advance(500 * time.Millisecond)
	require.Len(t, commits, 1)
	assert.Equal(t, "Quick", commits[0].Title)

	state := s.State().(draft.SynchronizerState)
	assert.Equal(t, "500ms", state.Quiescence)
}

func TestParseSwitchPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    draft.SwitchPolicy
		wantErr bool
	}{
		{in: "", want: draft.SwitchFlush},
		{in: "flush", want: draft.SwitchFlush},
		{in: " Discard ", want: draft.SwitchDiscard},
		{in: "merge", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSwitchPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
