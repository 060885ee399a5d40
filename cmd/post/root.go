// ABOUTME: Root command wiring: config, logging and the SQLite connection.
// ABOUTME: Every subcommand shares dbConn, appConfig and logger set up here.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/harper/post/internal/charm"
	"github.com/harper/post/internal/config"
	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
	"github.com/harper/post/internal/ui"
	"github.com/spf13/cobra"
)

var (
	dbConn    *sql.DB
	appConfig config.Config
	logger    = log.New(io.Discard)
	logFile   *os.File

	dbPathFlag     string
	configPathFlag string
	debugFlag      bool
)

// noDBCommands run without opening the database.
var noDBCommands = map[string]bool{
	"help":       true,
	"completion": true,
	"version":    true,
}

var rootCmd = &cobra.Command{
	Use:           "post",
	Short:         "Write, tag and publish posts from the terminal",
	Long:          `post keeps markdown posts in a local SQLite database, tags them with a searchable picker and can mirror them to Charm cloud.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPathFlag)
		if err != nil {
			return err
		}
		appConfig = cfg

		if err := setupLogger(cfg.Log); err != nil {
			return err
		}

		if noDBCommands[cmd.Name()] {
			return nil
		}

		path := dbPathFlag
		if path == "" {
			path = cfg.DB
		}
		if path == "" {
			path = db.DefaultPath()
		}

		conn, err := db.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		dbConn = conn
		logger.Debug("database opened", "path", path, "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		closeResources()
		return nil
	},
}

// setupLogger sends logs to the log file so they never draw over a TUI.
// With --debug, logs go to stderr at debug level instead.
func setupLogger(lc config.LogConfig) error {
	if debugFlag {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Level:           log.DebugLevel,
			ReportTimestamp: true,
			Prefix:          ui.AppName,
		})
		return nil
	}

	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", lc.Level, err)
	}
	if lc.File == "" {
		logger = log.New(io.Discard)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(lc.File), 0o750); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // Path comes from user config
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f
	logger = log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          ui.AppName,
	})
	return nil
}

func closeResources() {
	if dbConn != nil {
		_ = dbConn.Close()
		dbConn = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Execute runs the root command and reports errors in the CLI's style.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		closeResources()
	}
	return err
}

// charmClient returns a client once `post sync link` has saved a charm
// config, otherwise nil.
func charmClient() *charm.Client {
	if !charm.ConfigExists() {
		return nil
	}
	client, err := charm.NewClient(charm.WithLogger(logger))
	if err != nil {
		logger.Warn("charm client unavailable", "err", err)
		return nil
	}
	return client
}

func newMirror() *charm.Mirror {
	client := charmClient()
	if client == nil {
		return nil
	}
	return charm.NewMirror(dbConn, client, logger)
}

// mirrorPost pushes p to Charm cloud when linked. Failures only warn; the
// local write already succeeded.
func mirrorPost(p *models.Post) {
	m := newMirror()
	if m == nil {
		return
	}
	if err := m.PushPost(p); err != nil {
		logger.Warn("mirror push failed", "post", p.ID, "err", err)
		fmt.Fprintln(os.Stderr, ui.Warning(fmt.Sprintf("sync: %v", err)))
	}
}

// mirrorTag re-pushes the posts carrying a tag after its label changed.
func mirrorTag(tagID string) {
	m := newMirror()
	if m == nil {
		return
	}
	n, err := m.PushTag(tagID)
	if err != nil {
		logger.Warn("mirror tag push failed", "tag", tagID, "err", err)
		fmt.Fprintln(os.Stderr, ui.Warning(fmt.Sprintf("sync: %v", err)))
		return
	}
	logger.Debug("mirrored tag", "tag", tagID, "posts", n)
}

// shortID is the six-character form used in CLI output.
func shortID(id fmt.Stringer) string {
	return id.String()[:db.MinPrefixLen]
}

// splitTags parses a comma-separated tag flag into tags, dropping blanks.
func splitTags(s string) []models.Tag {
	var tags []models.Tag
	for _, part := range strings.Split(s, ",") {
		if t := models.NewTag(part); t.ID != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "database path (default: $XDG_DATA_HOME/post/post.db)")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "config file (default: $XDG_CONFIG_HOME/post/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log debug output to stderr")
}
