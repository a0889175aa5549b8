package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/mindpages/pkg/core"
)

const tempFilePrefix = ".mindpages-export-"

// Format selects an export rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// Render returns the page in the given format.
func Render(p core.Page, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(PlainText(p)), nil
	case FormatMarkdown:
		return Markdown(p)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// WriteFile renders the page and writes it to path. When path is a
// directory the file is named by Filename. The written path is returned.
// The target is replaced atomically, never left half written.
func WriteFile(path string, p core.Page, format Format) (string, error) {
	data, err := Render(p, format)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, Filename(p))
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}
