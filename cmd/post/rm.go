// ABOUTME: Remove command for deleting posts.
// ABOUTME: Includes confirmation prompt before deletion.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/ui"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id-prefix>",
	Short: "Remove a post",
	Long:  `Delete a post with its tag links and attachments. The Charm cloud copy is removed too when linked.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		p, err := db.GetPostByPrefix(dbConn, args[0])
		if err != nil {
			return fmt.Errorf("failed to get post: %w", err)
		}

		if !force {
			fmt.Printf("Delete post %q (%s)? [y/N] ", p.Title, shortID(p.ID))
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := db.DeletePost(dbConn, p.ID); err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		if removed, err := db.DeleteUnusedTags(dbConn); err != nil {
			logger.Warn("tag cleanup failed", "err", err)
		} else if removed > 0 {
			logger.Debug("removed unused tags", "count", removed)
		}

		if client := charmClient(); client != nil {
			if err := client.DeletePost(p.ID); err != nil {
				logger.Warn("remote delete failed", "post", p.ID, "err", err)
				fmt.Fprintln(os.Stderr, ui.Warning(fmt.Sprintf("sync: %v", err)))
			}
		}

		logger.Info("post deleted", "id", p.ID)
		fmt.Println(ui.Success(fmt.Sprintf("Deleted post %s", shortID(p.ID))))
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	rootCmd.AddCommand(rmCmd)
}
