// ABOUTME: Show command for displaying a single post.
// ABOUTME: Renders the markdown body with glamour.

package main

import (
	"fmt"

	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a post",
	Long:  `Display a post's header, tags, rendered body and attachments.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawFlag, _ := cmd.Flags().GetBool("raw")

		p, err := db.GetPostByPrefix(dbConn, args[0])
		if err != nil {
			return fmt.Errorf("failed to get post: %w", err)
		}
		tags, err := db.GetPostTags(dbConn, p.ID)
		if err != nil {
			return fmt.Errorf("failed to get tags: %w", err)
		}
		attachments, err := db.ListPostAttachments(dbConn, p.ID)
		if err != nil {
			return fmt.Errorf("failed to list attachments: %w", err)
		}

		fmt.Print(ui.FormatPostHeader(p, tags))

		if rawFlag {
			fmt.Println(p.Body)
		} else {
			body, err := ui.FormatBody(p.Body)
			if err != nil {
				logger.Debug("markdown render failed", "post", p.ID, "err", err)
			}
			fmt.Print(body)
		}

		if len(attachments) > 0 {
			fmt.Print(ui.FormatAttachmentList(attachmentInfos(attachments)))
		}
		return nil
	},
}

func attachmentInfos(metas []*db.AttachmentMeta) []ui.AttachmentInfo {
	infos := make([]ui.AttachmentInfo, 0, len(metas))
	for _, a := range metas {
		infos = append(infos, ui.AttachmentInfo{
			ID:       a.ID.String(),
			Filename: a.Filename,
			MimeType: a.MimeType,
			Size:     a.Size,
		})
	}
	return infos
}

func init() {
	showCmd.Flags().Bool("raw", false, "print the markdown source instead of rendering it")
	rootCmd.AddCommand(showCmd)
}
