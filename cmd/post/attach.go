// ABOUTME: Attach command for managing post attachments.
// ABOUTME: Provides add, get, list and rm subcommands for binary files.

package main

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
	"github.com/harper/post/internal/ui"
	"github.com/spf13/cobra"
)

var attachCmd = &cobra.Command{
	Use:   "attach <id-prefix> <file>",
	Short: "Add an attachment to a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.GetPostByPrefix(dbConn, args[0])
		if err != nil {
			return fmt.Errorf("failed to get post: %w", err)
		}

		filePath := args[1]
		data, err := os.ReadFile(filePath) //nolint:gosec // User-specified file path is expected CLI behavior
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		mimeType := mime.TypeByExtension(filepath.Ext(filePath))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		att := models.NewAttachment(p.ID, filepath.Base(filePath), mimeType, data)
		if err := db.CreateAttachment(dbConn, att); err != nil {
			return fmt.Errorf("failed to create attachment: %w", err)
		}
		if client := charmClient(); client != nil {
			if err := client.PushAttachment(att); err != nil {
				logger.Warn("attachment push failed", "id", att.ID, "err", err)
			}
		}

		fmt.Println(ui.Success(fmt.Sprintf("Added attachment %s to post %s", shortID(att.ID), shortID(p.ID))))
		return nil
	},
}

var attachGetCmd = &cobra.Command{
	Use:   "get <attachment-id-prefix>",
	Short: "Extract an attachment to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath, _ := cmd.Flags().GetString("output")

		att, err := db.GetAttachmentByPrefix(dbConn, args[0])
		if err != nil {
			return fmt.Errorf("failed to get attachment: %w", err)
		}

		if outputPath == "" {
			outputPath = filepath.Base(att.Filename)
		}
		if outputPath == "-" {
			_, err = io.Copy(os.Stdout, bytes.NewReader(att.Data))
			return err
		}

		if err := os.WriteFile(outputPath, att.Data, 0o600); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Extracted %s to %s", att.Filename, outputPath)))
		return nil
	},
}

var attachListCmd = &cobra.Command{
	Use:   "list <id-prefix>",
	Short: "List a post's attachments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.GetPostByPrefix(dbConn, args[0])
		if err != nil {
			return fmt.Errorf("failed to get post: %w", err)
		}
		metas, err := db.ListPostAttachments(dbConn, p.ID)
		if err != nil {
			return fmt.Errorf("failed to list attachments: %w", err)
		}
		if len(metas) == 0 {
			fmt.Println("No attachments.")
			return nil
		}
		fmt.Print(ui.FormatAttachmentList(attachmentInfos(metas)))
		return nil
	},
}

var attachRmCmd = &cobra.Command{
	Use:   "rm <attachment-id-prefix>",
	Short: "Delete an attachment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		att, err := db.GetAttachmentByPrefix(dbConn, args[0])
		if err != nil {
			return fmt.Errorf("failed to get attachment: %w", err)
		}
		if err := db.DeleteAttachment(dbConn, att.ID); err != nil {
			return fmt.Errorf("failed to delete attachment: %w", err)
		}
		if client := charmClient(); client != nil {
			if err := client.DeleteAttachment(att.ID); err != nil {
				logger.Warn("remote attachment delete failed", "id", att.ID, "err", err)
			}
		}

		fmt.Println(ui.Success(fmt.Sprintf("Deleted attachment %s", shortID(att.ID))))
		return nil
	},
}

func init() {
	attachGetCmd.Flags().StringP("output", "o", "", "output path (default: original filename)")
	attachCmd.AddCommand(attachGetCmd)
	attachCmd.AddCommand(attachListCmd)
	attachCmd.AddCommand(attachRmCmd)
	rootCmd.AddCommand(attachCmd)
}
