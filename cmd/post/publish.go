// ABOUTME: Publish and unpublish commands for changing a post's status.

package main

import (
	"fmt"

	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
	"github.com/harper/post/internal/ui"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <id-prefix>",
	Short: "Mark a post as published",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(args[0], models.StatusPublished)
	},
}

var unpublishCmd = &cobra.Command{
	Use:   "unpublish <id-prefix>",
	Short: "Return a post to draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(args[0], models.StatusDraft)
	},
}

func setStatus(prefix string, status models.Status) error {
	p, err := db.GetPostByPrefix(dbConn, prefix)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	if p.Status == status {
		fmt.Printf("Post %s is already %s.\n", shortID(p.ID), status)
		return nil
	}

	if status == models.StatusPublished {
		p.Publish()
	} else {
		p.Status = status
		p.Touch()
	}
	if err := db.UpdatePost(dbConn, p); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	logger.Info("post status changed", "id", p.ID, "status", status)
	mirrorPost(p)
	fmt.Println(ui.Success(fmt.Sprintf("Post %s is now %s", shortID(p.ID), status)))
	return nil
}

func init() {
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(unpublishCmd)
}
