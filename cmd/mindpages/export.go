package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/mindpages/pkg/core"
	"github.com/aretw0/mindpages/pkg/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <id|title>",
	Short: "Export a page as plain text or Markdown",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fatal("Error initializing store", err)
		}

		page, err := findPage(context.Background(), store, args[0])
		if err != nil {
			fatal("Error finding page", err)
		}

		format, err := parseFormat(exportFormat)
		if err != nil {
			fatal("Error exporting page", err)
		}

		if exportOut == "" || exportOut == "-" {
			data, err := export.Render(page, format)
			if err != nil {
				fatal("Error exporting page", err)
			}
			_, _ = cmd.OutOrStdout().Write(data)
			return
		}

		path, err := export.WriteFile(exportOut, page, format)
		if err != nil {
			fatal("Error writing file", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %s to %s\n", page.ID, path)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "text", "Output format: text or markdown")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file or directory (default: stdout)")
}

// findPage resolves ref as an ID first, then as a case-insensitive title.
func findPage(ctx context.Context, store *core.Store, ref string) (core.Page, error) {
	p, err := store.Get(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, core.ErrPageNotFound) {
		return core.Page{}, err
	}

	pages, err := store.List(ctx)
	if err != nil {
		return core.Page{}, err
	}
	for _, p := range pages {
		if strings.EqualFold(p.Title, ref) {
			return p, nil
		}
	}
	return core.Page{}, fmt.Errorf("%w: %s", core.ErrPageNotFound, ref)
}

func parseFormat(name string) (export.Format, error) {
	switch strings.ToLower(name) {
	case "text", "txt":
		return export.FormatText, nil
	case "markdown", "md":
		return export.FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format: %s", name)
	}
}
