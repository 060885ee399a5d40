// ABOUTME: List and search commands for displaying posts.
// ABOUTME: Supports tag and status filters and offers to show more past the limit.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
	"github.com/harper/post/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List posts",
	Long:    `List posts, most recently updated first, optionally filtered by tag or status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tagFlag, _ := cmd.Flags().GetString("tag")
		statusFlag, _ := cmd.Flags().GetString("status")
		limitFlag, _ := cmd.Flags().GetInt("limit")

		if !cmd.Flags().Changed("limit") {
			limitFlag = appConfig.List.DefaultLimit
		}

		filter := db.ListFilter{Tag: tagFlag, Limit: limitFlag}
		if statusFlag != "" {
			status, err := models.ParseStatus(statusFlag)
			if err != nil {
				return err
			}
			filter.Status = status
		}

		posts, err := db.ListPosts(dbConn, filter)
		if err != nil {
			return fmt.Errorf("failed to list posts: %w", err)
		}
		if len(posts) == 0 {
			fmt.Println("No posts found.")
			return nil
		}
		if err := printPosts(posts); err != nil {
			return err
		}

		total, err := db.CountPosts(dbConn, filter)
		if err != nil {
			return fmt.Errorf("failed to count posts: %w", err)
		}
		remaining := total - len(posts)
		if remaining <= 0 {
			return nil
		}

		fmt.Print(ui.FormatShowMorePrompt(remaining))
		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return nil //nolint:nilerr // EOF on stdin means no
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			return nil
		}

		filter.Limit = total
		all, err := db.ListPosts(dbConn, filter)
		if err != nil {
			return fmt.Errorf("failed to list remaining posts: %w", err)
		}
		fmt.Println()
		return printPosts(all[len(posts):])
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search posts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limitFlag, _ := cmd.Flags().GetInt("limit")

		results, err := db.SearchPosts(dbConn, strings.Join(args, " "), limitFlag)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No posts found.")
			return nil
		}

		posts := make([]*models.Post, len(results))
		for i, r := range results {
			posts[i] = r.Post
		}
		return printPosts(posts)
	},
}

func printPosts(posts []*models.Post) error {
	for _, p := range posts {
		tags, err := db.GetPostTags(dbConn, p.ID)
		if err != nil {
			return fmt.Errorf("failed to get tags: %w", err)
		}
		fmt.Print(ui.FormatPostListItem(p, tags))
	}
	return nil
}

func init() {
	listCmd.Flags().StringP("tag", "t", "", "filter by tag")
	listCmd.Flags().StringP("status", "s", "", "filter by status (draft or published)")
	listCmd.Flags().IntP("limit", "n", 20, "number of results")
	searchCmd.Flags().IntP("limit", "n", 20, "number of results")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
}
