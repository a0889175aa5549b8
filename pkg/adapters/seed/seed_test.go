package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mindpages/pkg/draft"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSamples(t *testing.T) {
	pages := Samples(now)
	require.Len(t, pages, 3)

	first := pages[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "Mathematics Chapter 5 Notes", first.Title)
	assert.Equal(t, []string{"mathematics", "calculus", "study"}, first.Tags)
	assert.True(t, first.Starred)
	assert.Equal(t, "Study Notes", first.Folder)
	assert.Equal(t, now.Add(-48*time.Hour), first.CreatedAt)
	assert.Equal(t, now.Add(-2*time.Hour), first.UpdatedAt)

	last := pages[2]
	assert.Equal(t, now, last.CreatedAt)
	assert.Equal(t, now, last.UpdatedAt)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr bool
	}{
		{
			name:    "empty document",
			input:   "",
			wantLen: 0,
		},
		{
			name: "absolute timestamps",
			input: `
- title: Fixed
  created_at: 2024-01-02T03:04:05Z
  updated_at: 2024-02-02T03:04:05Z
`,
			wantLen: 1,
		},
		{
			name: "updated before created is clamped",
			input: `
- title: Clamped
  created_ago: 1h
  updated_ago: 2h
`,
			wantLen: 1,
		},
		{
			name: "duplicate tags collapse",
			input: `
- title: Tags
  tags: [a, a, " b "]
`,
			wantLen: 1,
		},
		{
			name:    "bad duration",
			input:   "- title: x\n  created_ago: yesterday\n",
			wantErr: true,
		},
		{
			name:    "not a list",
			input:   "title: x\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := Decode(strings.NewReader(tt.input), now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, pages, tt.wantLen)
		})
	}
}

func TestDecode_Values(t *testing.T) {
	pages, err := Decode(strings.NewReader(`
- title: Fixed
  created_at: 2024-01-02T03:04:05Z
  updated_at: 2024-02-02T03:04:05Z
- title: Clamped
  created_ago: 1h
  updated_ago: 2h
  tags: [a, a, " b "]
`), now)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), pages[0].CreatedAt.UTC())
	assert.Equal(t, time.Date(2024, 2, 2, 3, 4, 5, 0, time.UTC), pages[0].UpdatedAt.UTC())
	assert.Empty(t, pages[0].ID, "IDs are assigned by the store")

	assert.Equal(t, now.Add(-time.Hour), pages[1].CreatedAt)
	assert.Equal(t, pages[1].CreatedAt, pages[1].UpdatedAt)
	assert.Equal(t, []string{"a", "b"}, pages[1].Tags)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- title: From file\n"), 0644))

	pages, err := LoadFile(path, now)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "From file", pages[0].Title)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), now)
	assert.Error(t, err)
}

func TestDecode_FieldLimits(t *testing.T) {
	long := strings.Repeat("x", draft.MaxTitleLength+1)
	_, err := Decode(strings.NewReader("- title: ok\n- title: "+long+"\n"), now)
	assert.ErrorIs(t, err, draft.ErrInvalidField)
	assert.ErrorContains(t, err, "seed entry 1")

	_, err = Decode(strings.NewReader("- title: ok\n  tags: ["+strings.Repeat("t", draft.MaxTagLength+1)+"]\n"), now)
	assert.ErrorIs(t, err, draft.ErrInvalidField)
}
