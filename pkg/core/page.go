package core

import (
	"strings"
	"time"
)

// DefaultTitle replaces an empty title when a page is committed.
const DefaultTitle = "Untitled Page"

// UncategorizedFolder is the group label for pages without a folder.
const UncategorizedFolder = "Uncategorized"

// Page is the central entity of the domain.
// Body holds serialized rich-text markup and is opaque to the store.
type Page struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Body      string    `json:"body" yaml:"body"`
	Tags      []string  `json:"tags" yaml:"tags"`
	Starred   bool      `json:"starred" yaml:"starred"`
	Folder    string    `json:"folder,omitempty" yaml:"folder,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Clone returns a copy of the page that shares no slices with p.
func (p Page) Clone() Page {
	c := p
	if p.Tags != nil {
		c.Tags = make([]string, len(p.Tags))
		copy(c.Tags, p.Tags)
	}
	return c
}

// FolderLabel returns the folder name, or UncategorizedFolder when unset.
func (p Page) FolderLabel() string {
	if strings.TrimSpace(p.Folder) == "" {
		return UncategorizedFolder
	}
	return p.Folder
}

// HasTag reports whether the page carries the given tag.
func (p Page) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeTags trims each tag, drops blanks and suppresses duplicates.
// The first occurrence of a tag keeps its position.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// SameTags compares two tag lists as sets.
func SameTags(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, t := range a {
		as[t] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, t := range b {
		bs[t] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for t := range as {
		if _, ok := bs[t]; !ok {
			return false
		}
	}
	return true
}
