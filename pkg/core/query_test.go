package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mindpages/pkg/core"
)

func seededStore(t *testing.T) *core.Store {
	t.Helper()
	store, _ := newTestStore(t)
	require.NoError(t, store.Load(context.Background(),
		core.Page{ID: "math", Title: "Mathematics Chapter 5 Notes", Body: "<h2>Calculus</h2>", Tags: []string{"mathematics", "calculus", "study"}, Starred: true, Folder: "Study Notes"},
		core.Page{ID: "ai", Title: "Project Ideas", Body: "<ul><li>Chatbot</li></ul>", Tags: []string{"projects", "ai"}, Folder: "Projects"},
		core.Page{ID: "daily", Title: "Daily Reflection", Body: "<p>Quantum mechanics</p>", Tags: []string{"reflection", "physics"}, Folder: "Personal"},
		core.Page{ID: "loose", Title: "Scratch", Tags: []string{"study-group"}},
	))
	return store
}

func ids(pages []core.Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.ID)
	}
	return out
}

func TestStore_Query(t *testing.T) {
	store := seededStore(t)

	tests := []struct {
		name  string
		query core.Query
		want  []string
	}{
		{name: "no filter", query: core.Query{}, want: []string{"math", "ai", "daily", "loose"}},
		{name: "text in title is case-insensitive", query: core.Query{Text: "PROJECT"}, want: []string{"ai"}},
		{name: "text in body", query: core.Query{Text: "quantum"}, want: []string{"daily"}},
		{name: "text in tag", query: core.Query{Text: "calc"}, want: []string{"math"}},
		{name: "starred", query: core.Query{StarredOnly: true}, want: []string{"math"}},
		{name: "folder", query: core.Query{Folder: "Projects"}, want: []string{"ai"}},
		{name: "uncategorized folder", query: core.Query{Folder: core.UncategorizedFolder}, want: []string{"loose"}},
		{name: "tag glob", query: core.Query{TagPattern: "study*"}, want: []string{"math", "loose"}},
		{name: "tag alternation", query: core.Query{TagPattern: "{ai,physics}"}, want: []string{"ai", "daily"}},
		{name: "limit", query: core.Query{Limit: 2}, want: []string{"math", "ai"}},
		{name: "combined", query: core.Query{Text: "s", StarredOnly: true, Folder: "Study Notes"}, want: []string{"math"}},
		{name: "no match", query: core.Query{Text: "zzz"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestStore_QueryInvalidPattern(t *testing.T) {
	store := seededStore(t)
	_, err := store.Query(context.Background(), core.Query{TagPattern: "[a"})
	assert.Error(t, err)
}

func TestGroupByFolder(t *testing.T) {
	pages := []core.Page{
		{ID: "1", Folder: "B"},
		{ID: "2"},
		{ID: "3", Folder: "B"},
		{ID: "4", Folder: "A"},
	}

	groups := core.GroupByFolder(pages)
	require.Len(t, groups, 3)
	assert.Equal(t, "B", groups[0].Folder)
	assert.Equal(t, []string{"1", "3"}, ids(groups[0].Pages))
	assert.Equal(t, core.UncategorizedFolder, groups[1].Folder)
	assert.Equal(t, []string{"2"}, ids(groups[1].Pages))
	assert.Equal(t, "A", groups[2].Folder)

	assert.Empty(t, core.GroupByFolder(nil))
}
