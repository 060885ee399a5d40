// ABOUTME: Export command for backing up posts.
// ABOUTME: Writes a JSON bundle or a directory of markdown files.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/export"
	"github.com/harper/post/internal/models"
	"github.com/harper/post/internal/ui"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export posts",
	Long:  `Export posts to a JSON bundle or to markdown files with YAML frontmatter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")
		postPrefix, _ := cmd.Flags().GetString("post")
		tagFlag, _ := cmd.Flags().GetString("tag")

		var posts []*models.Post
		if postPrefix != "" {
			p, err := db.GetPostByPrefix(dbConn, postPrefix)
			if err != nil {
				return fmt.Errorf("failed to get post: %w", err)
			}
			posts = append(posts, p)
		} else {
			all, err := db.ListPosts(dbConn, db.ListFilter{Tag: tagFlag})
			if err != nil {
				return fmt.Errorf("failed to list posts: %w", err)
			}
			posts = all
		}

		switch format {
		case "json":
			return exportJSON(posts, outputPath)
		case "md":
			return exportMarkdown(posts, outputPath)
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
	},
}

func exportJSON(posts []*models.Post, outputPath string) error {
	doc, err := export.Collect(dbConn, posts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if outputPath == "" || outputPath == "-" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, ui.Success(fmt.Sprintf("Exported %d posts to %s", len(posts), outputPath)))
	return nil
}

func exportMarkdown(posts []*models.Post, outputDir string) error {
	if outputDir == "" {
		outputDir = "export"
	}
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return err
	}

	for _, p := range posts {
		ep, err := export.FromPost(dbConn, p, false)
		if err != nil {
			return err
		}
		md, err := ep.Markdown()
		if err != nil {
			return err
		}

		filePath := filepath.Join(outputDir, export.Filename(p.Title)+".md")
		if err := os.WriteFile(filePath, md, 0o600); err != nil {
			return err
		}

		metas, err := db.ListPostAttachments(dbConn, p.ID)
		if err != nil {
			return fmt.Errorf("failed to list attachments: %w", err)
		}
		if len(metas) == 0 {
			continue
		}

		attDir := filepath.Join(outputDir, "attachments", p.ID.String()[:8])
		if err := os.MkdirAll(attDir, 0o750); err != nil {
			return err
		}
		for _, m := range metas {
			att, err := db.GetAttachment(dbConn, m.ID)
			if err != nil {
				return fmt.Errorf("failed to load attachment %s: %w", m.ID, err)
			}
			if err := os.WriteFile(filepath.Join(attDir, filepath.Base(att.Filename)), att.Data, 0o600); err != nil {
				return err
			}
		}
	}

	fmt.Println(ui.Success(fmt.Sprintf("Exported %d posts to %s", len(posts), outputDir)))
	return nil
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "export format (json|md)")
	exportCmd.Flags().StringP("output", "o", "", "output path")
	exportCmd.Flags().StringP("post", "p", "", "single post ID to export")
	exportCmd.Flags().StringP("tag", "t", "", "only posts with this tag")
	rootCmd.AddCommand(exportCmd)
}
