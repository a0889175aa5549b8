// Package seed decodes page fixtures written in YAML.
//
// A fixture is a list of pages. Timestamps are either absolute
// (created_at, updated_at in RFC 3339) or relative to the load time
// (created_ago, updated_ago as Go durations such as "48h"). Titles, tags
// and folders must fit the limits the editor enforces.
//
//	- title: Daily Reflection
//	  body: <p>Today I learned...</p>
//	  tags: [reflection, daily]
//	  folder: Personal
//	  created_ago: 24h
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/mindpages/pkg/core"
	"github.com/aretw0/mindpages/pkg/draft"
)

//go:embed samples.yaml
var samples []byte

type record struct {
	ID         string    `yaml:"id"`
	Title      string    `yaml:"title"`
	Body       string    `yaml:"body"`
	Tags       []string  `yaml:"tags"`
	Starred    bool      `yaml:"starred"`
	Folder     string    `yaml:"folder"`
	CreatedAt  time.Time `yaml:"created_at"`
	UpdatedAt  time.Time `yaml:"updated_at"`
	CreatedAgo string    `yaml:"created_ago"`
	UpdatedAgo string    `yaml:"updated_ago"`
}

// Decode reads a YAML fixture. Relative timestamps are resolved against now.
// An empty document yields no pages.
func Decode(r io.Reader, now time.Time) ([]core.Page, error) {
	var records []record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	pages := make([]core.Page, 0, len(records))
	for i, rec := range records {
		p, err := rec.page(now)
		if err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i, err)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// LoadFile decodes the fixture at path.
func LoadFile(path string, now time.Time) ([]core.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, now)
}

// Samples returns the built-in sample pages.
func Samples(now time.Time) []core.Page {
	pages, err := Decode(bytes.NewReader(samples), now)
	if err != nil {
		panic(fmt.Sprintf("embedded samples are invalid: %v", err))
	}
	return pages
}

func (rec record) page(now time.Time) (core.Page, error) {
	created, err := resolve(rec.CreatedAt, rec.CreatedAgo, now)
	if err != nil {
		return core.Page{}, fmt.Errorf("created_ago: %w", err)
	}
	updated := created
	if !rec.UpdatedAt.IsZero() || rec.UpdatedAgo != "" {
		updated, err = resolve(rec.UpdatedAt, rec.UpdatedAgo, now)
		if err != nil {
			return core.Page{}, fmt.Errorf("updated_ago: %w", err)
		}
	}
	if updated.Before(created) {
		updated = created
	}

	p := core.Page{
		ID:        rec.ID,
		Title:     rec.Title,
		Body:      rec.Body,
		Tags:      core.NormalizeTags(rec.Tags),
		Starred:   rec.Starred,
		Folder:    rec.Folder,
		CreatedAt: created,
		UpdatedAt: updated,
	}
	if err := draft.ValidatePage(p); err != nil {
		return core.Page{}, err
	}
	return p, nil
}

// resolve picks the absolute time when set, else subtracts ago from ref.
// With neither set it returns ref.
func resolve(abs time.Time, ago string, ref time.Time) (time.Time, error) {
	if !abs.IsZero() {
		return abs, nil
	}
	if ago == "" {
		return ref, nil
	}
	d, err := time.ParseDuration(ago)
	if err != nil {
		return time.Time{}, err
	}
	return ref.Add(-d), nil
}
