// ABOUTME: Sync subcommand for Charm cloud integration.
// ABOUTME: Provides status, link, unlink, push, pull and reset commands.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/post/internal/charm"
	"github.com/harper/post/internal/db"
	"github.com/spf13/cobra"
)

var errNotLinked = errors.New("not linked to Charm cloud; run 'post sync link' first")

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Manage Charm cloud sync",
	Long: `Mirror your posts to the Charm cloud.

Charm uses SSH key authentication - no passwords needed.
Once linked, every change is pushed automatically.

Commands:
  status  - Show sync configuration and connection status
  link    - Connect this device to Charm cloud
  unlink  - Disconnect from Charm cloud
  push    - Upload every local post and attachment
  pull    - Download posts that are newer in the cloud
  reset   - Reset local sync data (keeps cloud data)

Examples:
  post sync status
  post sync link --host charm.example.com
  post sync pull`,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := charm.LoadConfig()
		if err != nil {
			return fmt.Errorf("load charm config: %w", err)
		}

		fmt.Println("Charm Sync Status")
		fmt.Println(strings.Repeat("-", 40))

		fmt.Printf("Config:    %s\n", charm.ConfigPath())
		fmt.Printf("Host:      %s\n", valueOrNone(cfg.CharmHost))
		if cfg.AutoSync {
			fmt.Printf("Auto-sync: %s\n", color.GreenString("enabled"))
		} else {
			fmt.Printf("Auto-sync: %s\n", color.YellowString("disabled"))
		}

		total, err := db.CountPosts(dbConn, db.ListFilter{})
		if err != nil {
			return fmt.Errorf("count posts: %w", err)
		}
		fmt.Printf("Posts:     %d local\n", total)

		client := charmClient()
		if client == nil {
			fmt.Println()
			fmt.Printf("Status:    %s\n", color.YellowString("not linked"))
			fmt.Println("\nRun 'post sync link' to connect to Charm cloud.")
			return nil
		}

		fmt.Println()
		user, err := client.User()
		if err != nil {
			fmt.Printf("Status:    %s\n", color.RedString("unreachable (%v)", err))
			return nil
		}
		fmt.Printf("User ID:   %s\n", user.CharmID)
		fmt.Printf("Name:      %s\n", valueOrNone(user.Name))
		fmt.Printf("Status:    %s\n", color.GreenString("connected"))
		if last := client.LastSyncTime(); !last.IsZero() {
			fmt.Printf("Last sync: %s\n", last.Format("2006-01-02 15:04:05"))
		}

		remote, err := client.RemoteTags()
		if err == nil {
			fmt.Printf("Tags:      %d in cloud\n", len(remote))
		}
		return nil
	},
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Connect to Charm cloud",
	Long: `Link this device to Charm cloud for sync.

Charm uses SSH key authentication. On first link, you'll see
a code to verify on another device, or you can create a new account.

After linking, local posts are pushed so the cloud starts complete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("host")

		cfg, err := charm.LoadConfig()
		if err != nil {
			return fmt.Errorf("load charm config: %w", err)
		}
		if host != "" {
			cfg.CharmHost = host
		}
		if err := charm.SaveConfig(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		client, err := charm.NewClient(charm.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		if err := client.Link(); err != nil {
			return fmt.Errorf("link failed: %w", err)
		}

		user, err := client.User()
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		color.Green("\n✓ Linked to Charm cloud")
		fmt.Printf("  User ID: %s\n", user.CharmID)
		if user.Name != "" {
			fmt.Printf("  Name:    %s\n", user.Name)
		}

		stats, err := charm.NewMirror(dbConn, client, logger).Push()
		if err != nil {
			return fmt.Errorf("initial push: %w", err)
		}
		fmt.Printf("  Pushed:  %s\n", stats)
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm cloud",
	Long: `Unlink this device from Charm cloud.

This drops the local sync store and the charm config but keeps your posts.
You can re-link anytime with 'post sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := charmClient()
		if client == nil {
			fmt.Println("Not linked to Charm cloud.")
			return nil
		}

		fmt.Println("This will disconnect this device from Charm cloud.")
		fmt.Println("Your local posts will be preserved.")
		fmt.Print("\nType 'unlink' to confirm: ")

		reader := bufio.NewReader(os.Stdin)
		confirmation, _ := reader.ReadString('\n')
		if strings.TrimSpace(confirmation) != "unlink" {
			fmt.Println("Aborted.")
			return nil
		}

		if err := client.Unlink(); err != nil {
			return fmt.Errorf("unlink failed: %w", err)
		}
		if err := os.Remove(charm.ConfigPath()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove charm config: %w", err)
		}

		color.Green("\n✓ Unlinked from Charm cloud")
		fmt.Println("Run 'post sync link' to reconnect.")
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload all local posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newMirror()
		if m == nil {
			return errNotLinked
		}
		stats, err := m.Push()
		if err != nil {
			return err
		}
		color.Green("✓ Pushed %s", stats)
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download posts changed in the cloud",
	Long:  `Sync with Charm cloud, then store posts that are missing locally or newer in the cloud. Local posts that are newer are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := charmClient()
		if client == nil {
			return errNotLinked
		}
		if err := client.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		stats, err := charm.NewMirror(dbConn, client, logger).Pull()
		if err != nil {
			return err
		}
		color.Green("✓ Pulled %s", stats)
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local sync data",
	Long: `Reset the local Charm store while keeping cloud data intact.

Use this when the local store is corrupted or has diverged. Your posts in
SQLite and in the cloud are preserved; run 'post sync pull' afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := charmClient()
		if client == nil {
			return errNotLinked
		}

		fmt.Println("This will reset local sync data.")
		fmt.Println("Cloud data will be preserved and re-synced.")
		fmt.Print("\nContinue? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		confirmation, _ := reader.ReadString('\n')
		confirmation = strings.TrimSpace(strings.ToLower(confirmation))
		if confirmation != "y" && confirmation != "yes" {
			fmt.Println("Aborted.")
			return nil
		}

		if err := client.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		color.Green("✓ Local sync data reset")
		fmt.Println("\nRun 'post sync pull' to re-sync from cloud.")
		return nil
	},
}

// valueOrNone returns "(not set)" if the string is empty.
func valueOrNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func init() {
	syncLinkCmd.Flags().String("host", "", "Charm server host")

	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncResetCmd)
	rootCmd.AddCommand(syncCmd)
}
