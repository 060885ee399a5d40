// ABOUTME: MCP command to start the MCP server.
// ABOUTME: Runs on stdio for integration with AI agents.

package main

import (
	"github.com/harper/post/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long:  `Start the Model Context Protocol server for AI agent integration. Logs go to the log file since stdout carries the protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := []mcp.Option{
			mcp.WithLogger(logger),
			mcp.WithVersion(version),
		}
		if m := newMirror(); m != nil {
			opts = append(opts, mcp.WithMirror(m))
		}
		return mcp.NewServer(dbConn, opts...).Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
