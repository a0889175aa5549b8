package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mindpages"
	"github.com/aretw0/mindpages/internal/clocktest"
	"github.com/aretw0/mindpages/pkg/core"
)

func newTestSession(t *testing.T) (*session, *clocktest.Clock, *bytes.Buffer) {
	t.Helper()
	clock := clocktest.New(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	store, err := mindpages.NewStore(mindpages.WithSamples(true), mindpages.WithClock(clock))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	out := &lockedWriter{w: buf}
	s := &session{
		store: store,
		sync: mindpages.NewSynchronizer(store,
			mindpages.WithClock(clock),
			mindpages.WithOnCommit(func(p core.Page) {
				out.Write([]byte("saved " + p.ID + "\n"))
			}),
		),
		out: out,
	}
	return s, clock, buf
}

func TestSession_EditAndQuitFlushes(t *testing.T) {
	s, _, buf := newTestSession(t)

	input := strings.Join([]string{
		"title Renamed notes",
		"tag +exam",
		"star",
		"quit",
	}, "\n")
	require.NoError(t, s.run(context.Background(), strings.NewReader(input)))

	p, err := s.store.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed notes", p.Title)
	assert.Contains(t, p.Tags, "exam")
	assert.False(t, p.Starred)

	out := buf.String()
	assert.Contains(t, out, "editing * 1 Mathematics Chapter 5 Notes")
	assert.Equal(t, 1, strings.Count(out, "saved 1"))
}

func TestSession_ReopenDirtyPage(t *testing.T) {
	s, _, buf := newTestSession(t)

	input := strings.Join([]string{
		"title Renamed",
		"open 1",
		"body new body",
		"quit",
	}, "\n")
	require.NoError(t, s.run(context.Background(), strings.NewReader(input)))

	p := mustGet(t, s, "1")
	assert.Equal(t, "Renamed", p.Title)
	assert.Equal(t, "new body", p.Body)
	assert.Equal(t, 2, strings.Count(buf.String(), "saved 1"))
}

func TestSession_Commands(t *testing.T) {
	s, clock, buf := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, s.open(ctx, mustGet(t, s, "1")))

	require.NoError(t, s.exec(ctx, "body <p>Limits</p>"))
	clock.Advance(draftQuiet)
	p := mustGet(t, s, "1")
	assert.Equal(t, "<p>Limits</p>", p.Body)

	require.NoError(t, s.exec(ctx, "flush"))
	assert.Contains(t, buf.String(), "nothing to save")

	require.NoError(t, s.exec(ctx, "open 2"))
	selected, ok := s.store.Selected(ctx)
	require.True(t, ok)
	assert.Equal(t, "2", selected.ID)
	assert.Equal(t, "2", s.sync.PageID())

	require.NoError(t, s.exec(ctx, `folder ""`))
	require.NoError(t, s.exec(ctx, "show"))
	assert.Contains(t, buf.String(), "[dirty]")

	require.NoError(t, s.exec(ctx, "state"))
	assert.Contains(t, buf.String(), `"draft-synchronizer"`)
	assert.Contains(t, buf.String(), `"repository_type": "memory"`)
}

func TestSession_Errors(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()

	assert.ErrorContains(t, s.exec(ctx, "dance"), "unknown command")
	assert.ErrorContains(t, s.exec(ctx, "tag exam"), "usage")
	assert.ErrorIs(t, s.exec(ctx, "open missing"), core.ErrPageNotFound)
	assert.ErrorIs(t, s.exec(ctx, "quit"), errQuit)
}

func TestSession_DeleteEditedPage(t *testing.T) {
	s, clock, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, s.open(ctx, mustGet(t, s, "1")))

	require.NoError(t, s.exec(ctx, "title Doomed"))
	require.NoError(t, s.exec(ctx, "delete 1"))
	clock.Advance(draftQuiet)

	_, err := s.store.Get(ctx, "1")
	assert.ErrorIs(t, err, core.ErrPageNotFound)
	assert.Equal(t, 0, s.sync.Commits())
}

const draftQuiet = 2 * time.Second

func mustGet(t *testing.T, s *session, id string) core.Page {
	t.Helper()
	p, err := s.store.Get(context.Background(), id)
	require.NoError(t, err)
	return p
}
