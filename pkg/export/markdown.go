package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/mindpages/pkg/core"
)

// frontmatter is the YAML header of an exported Markdown page.
type frontmatter struct {
	ID        string    `yaml:"id,omitempty"`
	Title     string    `yaml:"title"`
	Tags      []string  `yaml:"tags,omitempty"`
	Starred   bool      `yaml:"starred,omitempty"`
	Folder    string    `yaml:"folder,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// Markdown renders the page as YAML frontmatter followed by the plain text
// export.
func Markdown(p core.Page) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	fm := frontmatter{
		ID:        p.ID,
		Title:     p.Title,
		Tags:      p.Tags,
		Starred:   p.Starred,
		Folder:    p.Folder,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
	if err := encoder.Encode(fm); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n")
	buf.WriteString(PlainText(p))
	return buf.Bytes(), nil
}

// Parse reads a Markdown page. Frontmatter is optional; without it the
// whole input becomes the body. A leading "# title" line of the body is
// used as the title when the frontmatter has none, and is removed from the
// body either way.
func Parse(r io.Reader) (core.Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Page{}, err
	}

	var fm frontmatter
	body := data
	if bytes.HasPrefix(data, []byte("---\n")) || bytes.HasPrefix(data, []byte("---\r\n")) {
		rest := data[bytes.IndexByte(data, '\n')+1:]
		var parts [][]byte
		if bytes.HasPrefix(rest, []byte("---")) {
			parts = [][]byte{nil, rest[3:]}
		} else {
			parts = bytes.SplitN(rest, []byte("\n---"), 2)
		}
		if len(parts) == 1 {
			return core.Page{}, errors.New("frontmatter started but no closing delimiter found")
		}
		if err := yaml.Unmarshal(parts[0], &fm); err != nil {
			return core.Page{}, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
		body = parts[1]
		if i := bytes.IndexByte(body, '\n'); i >= 0 {
			body = body[i+1:]
		} else {
			body = nil
		}
	}

	text := strings.TrimLeft(string(body), "\r\n")
	if strings.HasPrefix(text, "# ") {
		line, rest, _ := strings.Cut(text, "\n")
		if fm.Title == "" {
			fm.Title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
		text = rest
	}

	return core.Page{
		ID:        fm.ID,
		Title:     fm.Title,
		Body:      strings.TrimSpace(text),
		Tags:      core.NormalizeTags(fm.Tags),
		Starred:   fm.Starred,
		Folder:    fm.Folder,
		CreatedAt: fm.CreatedAt,
		UpdatedAt: fm.UpdatedAt,
	}, nil
}
