// ABOUTME: Edit command for modifying existing posts.
// ABOUTME: Reopens the compose screen pre-filled, or applies flag changes directly.

package main

import (
	"fmt"
	"strings"

	"github.com/harper/post/internal/compose"
	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/ui"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id-prefix>",
	Short: "Edit a post",
	Long:  `Open a post in the compose screen. With --title, --body or --editor the change is applied without the screen; tags are left as they are.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleFlag, _ := cmd.Flags().GetString("title")
		bodyFlag, _ := cmd.Flags().GetString("body")
		editorFlag, _ := cmd.Flags().GetBool("editor")

		p, err := db.GetPostByPrefix(dbConn, args[0])
		if err != nil {
			return fmt.Errorf("failed to get post: %w", err)
		}
		current, err := db.GetPostTags(dbConn, p.ID)
		if err != nil {
			return fmt.Errorf("failed to get tags: %w", err)
		}
		existing, err := db.AllTags(dbConn)
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}

		draft := compose.Draft{Title: p.Title, Body: p.Body, Tags: current}
		interactive := titleFlag == "" && bodyFlag == "" && !editorFlag

		if titleFlag != "" {
			draft.Title = titleFlag
		}
		if bodyFlag != "" {
			draft.Body = bodyFlag
		}
		if editorFlag {
			draft.Body, err = openEditor(p.Body)
			if err != nil {
				return fmt.Errorf("failed to open editor: %w", err)
			}
		}

		if interactive {
			res, err := compose.Run(cmd.Context(), draft, existing, composeOptions("Edit post", navEdit))
			if err != nil {
				return err
			}
			if !res.Submitted {
				fmt.Println("Cancelled.")
				return nil
			}
			draft = res.Draft
		}

		title := strings.TrimSpace(draft.Title)
		if title == p.Title && draft.Body == p.Body && sameTags(current, draft.Tags) {
			fmt.Println("No changes made.")
			return nil
		}

		p.Title = title
		p.Body = draft.Body
		if err := p.Validate(); err != nil {
			return err
		}
		p.Touch()

		if err := db.UpdatePost(dbConn, p); err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}
		if interactive {
			if err := db.SetPostTags(dbConn, p.ID, draft.Tags); err != nil {
				return fmt.Errorf("failed to set tags: %w", err)
			}
			warnSimilarTags(existing, draft.Tags)
		}

		logger.Info("post updated", "id", p.ID)
		mirrorPost(p)

		fmt.Println(ui.Success(fmt.Sprintf("Updated post %s", shortID(p.ID))))
		return nil
	},
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().StringP("body", "b", "", "new body")
	editCmd.Flags().BoolP("editor", "e", false, "edit the body in $EDITOR")
	rootCmd.AddCommand(editCmd)
}
