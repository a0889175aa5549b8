package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RecentLimit is the number of pages shown by the "recent" view.
const RecentLimit = 10

// Query filters the page collection. Zero fields do not filter.
type Query struct {
	// Text matches case-insensitively as a substring of the title, the body
	// or any tag.
	Text string
	// StarredOnly keeps starred pages only.
	StarredOnly bool
	// Folder keeps pages whose folder label equals it; use
	// UncategorizedFolder to select pages without a folder.
	Folder string
	// TagPattern keeps pages with at least one tag matching the glob
	// (doublestar syntax, e.g. "study-*" or "{math,physics}").
	TagPattern string
	// Limit caps the number of results, in collection order.
	Limit int
}

// FolderGroup is a set of pages sharing a folder label.
type FolderGroup struct {
	Folder string
	Pages  []Page
}

// Query returns the pages matching q, in collection order.
func (s *Store) Query(ctx context.Context, q Query) ([]Page, error) {
	if q.TagPattern != "" && !doublestar.ValidatePattern(q.TagPattern) {
		return nil, fmt.Errorf("invalid tag pattern %q", q.TagPattern)
	}

	pages, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(q.Text)
	out := make([]Page, 0, len(pages))
	for _, p := range pages {
		if q.StarredOnly && !p.Starred {
			continue
		}
		if q.Folder != "" && p.FolderLabel() != q.Folder {
			continue
		}
		if needle != "" && !matchesText(p, needle) {
			continue
		}
		if q.TagPattern != "" && !matchesTagPattern(p, q.TagPattern) {
			continue
		}
		out = append(out, p)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// GroupByFolder groups pages by folder label. Groups appear in the order
// their first page appears; pages keep their relative order.
func GroupByFolder(pages []Page) []FolderGroup {
	var groups []FolderGroup
	index := make(map[string]int)
	for _, p := range pages {
		label := p.FolderLabel()
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, FolderGroup{Folder: label})
		}
		groups[i].Pages = append(groups[i].Pages, p)
	}
	return groups
}

func matchesText(p Page, needle string) bool {
	if strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Body), needle) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func matchesTagPattern(p Page, pattern string) bool {
	for _, t := range p.Tags {
		if ok, _ := doublestar.Match(pattern, t); ok {
			return true
		}
	}
	return false
}
