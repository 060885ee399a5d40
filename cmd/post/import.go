// ABOUTME: Import command for restoring posts from backup.
// ABOUTME: Supports JSON bundles and directories of markdown files.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/post/internal/export"
	"github.com/harper/post/internal/ui"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import posts",
	Long:  `Import posts from a JSON export or from markdown files. Posts keep their IDs, so importing the same export twice updates instead of duplicating.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat path: %w", err)
		}

		var count int
		switch {
		case info.IsDir():
			count, err = importMarkdownDir(path)
		case strings.HasSuffix(path, ".json"):
			count, err = importJSON(path)
		default:
			err = importMarkdownFile(path)
			if err == nil {
				count = 1
			}
		}
		if err != nil {
			return err
		}

		logger.Info("import complete", "path", path, "posts", count)
		fmt.Println(ui.Success(fmt.Sprintf("Imported %d posts", count)))
		return nil
	},
}

func importJSON(path string) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return 0, err
	}

	var doc export.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	count := 0
	for _, ep := range doc.Posts {
		p, err := export.Restore(dbConn, ep)
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.Warning(fmt.Sprintf("failed to import %q: %v", ep.Title, err)))
			continue
		}
		mirrorPost(p)
		count++
	}
	return count, nil
}

func importMarkdownDir(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		if err := importMarkdownFile(path); err != nil {
			fmt.Fprintln(os.Stderr, ui.Warning(fmt.Sprintf("failed to import %s: %v", path, err)))
			return nil
		}
		count++
		return nil
	})
	return count, err
}

func importMarkdownFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return err
	}

	ep, err := export.ParseMarkdown(data, strings.TrimSuffix(filepath.Base(path), ".md"))
	if err != nil {
		return err
	}
	p, err := export.Restore(dbConn, ep)
	if err != nil {
		return err
	}
	mirrorPost(p)
	return nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
