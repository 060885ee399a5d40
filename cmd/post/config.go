// ABOUTME: Config command for inspecting and creating the settings file.

package main

import (
	"fmt"
	"os"

	"github.com/harper/post/internal/config"
	"github.com/harper/post/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n%s", configPath(), data)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path := configPath()
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Save(appConfig, path); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wrote %s", path)))
		return nil
	},
}

func configPath() string {
	if configPathFlag != "" {
		return configPathFlag
	}
	if env := os.Getenv("POST_CONFIG"); env != "" {
		return env
	}
	return config.DefaultPath()
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
