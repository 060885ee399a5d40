// ABOUTME: New command for creating posts.
// ABOUTME: Opens the compose screen, or takes title, body and tags from flags.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/harper/post/internal/compose"
	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
	"github.com/harper/post/internal/ui"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:     "new [title]",
	Aliases: []string{"add"},
	Short:   "Create a new post",
	Long: `Create a new draft post.

Without --body, --file or --editor the compose screen opens: tab moves between
title, body and tags, ctrl+s saves and esc cancels. In the tags field, type to
filter, enter toggles the highlighted tag and ctrl+a creates a tag from the
search text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bodyFlag, _ := cmd.Flags().GetString("body")
		fileFlag, _ := cmd.Flags().GetString("file")
		tagsFlag, _ := cmd.Flags().GetString("tags")
		editorFlag, _ := cmd.Flags().GetBool("editor")
		publishFlag, _ := cmd.Flags().GetBool("publish")

		var title string
		if len(args) > 0 {
			title = args[0]
		}

		existing, err := db.AllTags(dbConn)
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}

		draft := compose.Draft{Title: title, Tags: splitTags(tagsFlag)}

		switch {
		case bodyFlag != "":
			draft.Body = bodyFlag
		case fileFlag != "":
			data, err := os.ReadFile(fileFlag) //nolint:gosec // User-specified file path is expected CLI behavior
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			draft.Body = string(data)
		case editorFlag:
			draft.Body, err = openEditor("")
			if err != nil {
				return fmt.Errorf("failed to open editor: %w", err)
			}
		default:
			res, err := compose.Run(cmd.Context(), draft, existing, composeOptions("New post", navNew))
			if err != nil {
				return err
			}
			if !res.Submitted {
				fmt.Println("Cancelled.")
				return nil
			}
			draft = res.Draft
		}

		if err := models.ValidateDraft(draft.Title, draft.Body); err != nil {
			return err
		}

		p := models.NewPost(strings.TrimSpace(draft.Title), draft.Body)
		if publishFlag {
			p.Publish()
		}
		if err := db.CreatePostWithTags(dbConn, p, draft.Tags); err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}

		logger.Info("post created", "id", p.ID, "tags", len(draft.Tags), "status", p.Status)
		warnSimilarTags(existing, draft.Tags)
		mirrorPost(p)

		fmt.Println(ui.Success(fmt.Sprintf("Created post %s", shortID(p.ID))))
		return nil
	},
}

func init() {
	newCmd.Flags().StringP("body", "b", "", "post body (inline)")
	newCmd.Flags().StringP("file", "f", "", "read body from file")
	newCmd.Flags().StringP("tags", "t", "", "comma-separated tags")
	newCmd.Flags().BoolP("editor", "e", false, "write the body in $EDITOR")
	newCmd.Flags().Bool("publish", false, "publish immediately instead of saving a draft")
	rootCmd.AddCommand(newCmd)
}
