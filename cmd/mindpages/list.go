package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/mindpages/pkg/core"
)

var (
	listJSON    bool
	listStarred bool
	listRecent  bool
	listGroup   bool
	listQuery   string
	listFolder  string
	listTag     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List pages, optionally filtered",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fatal("Error initializing store", err)
		}

		q := core.Query{
			Text:        listQuery,
			StarredOnly: listStarred,
			Folder:      listFolder,
			TagPattern:  listTag,
		}
		if listRecent {
			q.Limit = core.RecentLimit
		}

		pages, err := store.Query(context.Background(), q)
		if err != nil {
			fatal("Error listing pages", err)
		}

		if err := writePages(cmd.OutOrStdout(), pages, listJSON, listGroup); err != nil {
			fatal("Error writing pages", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listStarred, "starred", false, "Only starred pages")
	listCmd.Flags().BoolVar(&listRecent, "recent", false, fmt.Sprintf("Only the %d most recent pages", core.RecentLimit))
	listCmd.Flags().BoolVar(&listGroup, "group", false, "Group pages by folder")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Search titles, bodies and tags")
	listCmd.Flags().StringVar(&listFolder, "folder", "", "Filter pages by folder")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter pages by tag glob (e.g. 'study-*')")
}

func writePages(w io.Writer, pages []core.Page, asJSON, grouped bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if grouped {
			return encoder.Encode(core.GroupByFolder(pages))
		}
		return encoder.Encode(pages)
	}

	if !grouped {
		for _, p := range pages {
			fmt.Fprintln(w, pageLine(p))
		}
		return nil
	}
	for _, g := range core.GroupByFolder(pages) {
		fmt.Fprintf(w, "%s (%d)\n", g.Folder, len(g.Pages))
		for _, p := range g.Pages {
			fmt.Fprintf(w, "  %s\n", pageLine(p))
		}
	}
	return nil
}

func pageLine(p core.Page) string {
	star := " "
	if p.Starred {
		star = "*"
	}
	title := p.Title
	if strings.TrimSpace(title) == "" {
		title = core.DefaultTitle
	}
	line := fmt.Sprintf("%s %s %s", star, p.ID, title)
	if len(p.Tags) > 0 {
		line += " [" + strings.Join(p.Tags, ", ") + "]"
	}
	return line
}
