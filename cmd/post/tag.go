// ABOUTME: Tag command for managing post tags.
// ABOUTME: Provides add, rm, list, pick, rename and prune subcommands.

package main

import (
	"errors"
	"fmt"

	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
	"github.com/harper/post/internal/tagselect"
	"github.com/harper/post/internal/ui"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
	Long:  `Add, remove, pick or list tags on posts.`,
}

var tagAddCmd = &cobra.Command{
	Use:   "add <id-prefix> <tag>",
	Short: "Add a tag to a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.GetPostByPrefix(dbConn, args[0])
		if err != nil {
			return fmt.Errorf("failed to get post: %w", err)
		}
		existing, err := db.AllTags(dbConn)
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}

		t, err := db.AddTagToPost(dbConn, p.ID, args[1])
		if err != nil {
			return fmt.Errorf("failed to add tag: %w", err)
		}
		warnSimilarTags(existing, []models.Tag{t})
		mirrorPost(p)

		fmt.Println(ui.Success(fmt.Sprintf("Added tag %q to post %s", t.Label, shortID(p.ID))))
		return nil
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <id-prefix> <tag>",
	Short: "Remove a tag from a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.GetPostByPrefix(dbConn, args[0])
		if err != nil {
			return fmt.Errorf("failed to get post: %w", err)
		}

		if err := db.RemoveTagFromPost(dbConn, p.ID, args[1]); err != nil {
			return fmt.Errorf("failed to remove tag: %w", err)
		}
		mirrorPost(p)

		fmt.Println(ui.Success(fmt.Sprintf("Removed tag %q from post %s", args[1], shortID(p.ID))))
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		filterFlag, _ := cmd.Flags().GetString("filter")

		tags, err := db.ListTags(dbConn)
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}

		counts := make(map[string]int, len(tags))
		plain := make([]models.Tag, len(tags))
		for i, tc := range tags {
			counts[tc.Tag.ID] = tc.Count
			plain[i] = tc.Tag
		}

		matched := tagselect.Filter(plain, filterFlag)
		if len(matched) == 0 {
			fmt.Println("No tags found.")
			return nil
		}

		tagCounts := make([]ui.TagCount, 0, len(matched))
		for _, t := range matched {
			tagCounts = append(tagCounts, ui.TagCount{
				ID:    t.ID,
				Label: t.Label,
				Count: counts[t.ID],
			})
		}
		fmt.Print(ui.FormatTagList(tagCounts))
		return nil
	},
}

var tagPickCmd = &cobra.Command{
	Use:   "pick <id-prefix>",
	Short: "Choose a post's tags interactively",
	Long: `Open the tag picker for a post. Type to filter, enter toggles the
highlighted tag, ctrl+e shows the selection summary, ctrl+s saves and esc
cancels.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.GetPostByPrefix(dbConn, args[0])
		if err != nil {
			return fmt.Errorf("failed to get post: %w", err)
		}
		current, err := db.GetPostTags(dbConn, p.ID)
		if err != nil {
			return fmt.Errorf("failed to get tags: %w", err)
		}
		all, err := db.AllTags(dbConn)
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}
		if len(all) == 0 {
			fmt.Println("No tags yet. Add one with 'post tag add'.")
			return nil
		}

		chosen, err := tagselect.Pick(cmd.Context(), all, tagSelection(current), selectorConfig("Tags for "+p.Title))
		if errors.Is(err, tagselect.ErrPickCancelled) {
			fmt.Println("Cancelled.")
			return nil
		}
		if err != nil {
			return err
		}

		var tags []models.Tag
		for _, t := range all {
			if chosen.Has(t.ID) {
				tags = append(tags, t)
			}
		}
		if err := db.SetPostTags(dbConn, p.ID, tags); err != nil {
			return fmt.Errorf("failed to set tags: %w", err)
		}
		logger.Info("tags picked", "post", p.ID, "selection", chosen.String())
		mirrorPost(p)

		fmt.Println(ui.Success(fmt.Sprintf("Post %s tagged %s", shortID(p.ID), chosen)))
		return nil
	},
}

var tagRenameCmd = &cobra.Command{
	Use:   "rename <tag> <label>",
	Short: "Change how a tag is displayed",
	Long:  `Change a tag's label. The new label must map to the same tag ID, so only case and spacing can change.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := db.GetTag(dbConn, models.TagID(args[0]))
		if err != nil {
			return fmt.Errorf("failed to get tag: %w", err)
		}
		next := models.NewTag(args[1])
		if next.ID != t.ID {
			return fmt.Errorf("label %q maps to tag %q, not %q", next.Label, next.ID, t.ID)
		}
		if err := db.UpsertTag(dbConn, next); err != nil {
			return fmt.Errorf("failed to rename tag: %w", err)
		}
		mirrorTag(next.ID)

		fmt.Println(ui.Success(fmt.Sprintf("Renamed %q to %q", t.Label, next.Label)))
		return nil
	},
}

var tagPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete tags no post uses",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := db.DeleteUnusedTags(dbConn)
		if err != nil {
			return fmt.Errorf("failed to prune tags: %w", err)
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed %d unused tags", n)))
		return nil
	},
}

func init() {
	tagListCmd.Flags().StringP("filter", "q", "", "only tags whose label contains this text")
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRmCmd)
	tagCmd.AddCommand(tagListCmd)
	tagCmd.AddCommand(tagPickCmd)
	tagCmd.AddCommand(tagRenameCmd)
	tagCmd.AddCommand(tagPruneCmd)
	rootCmd.AddCommand(tagCmd)
}
