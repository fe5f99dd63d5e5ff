// Package cli implements the seamcarve-mcp command-line interface.
//
// With no subcommand, or with "serve", the binary runs the MCP server on
// stdin/stdout. The "carve" subcommand narrows an image file directly.
//
// # Logging
//
// Logs go to stderr; stdout carries MCP frames. The level comes from the
// config file or SEAMCARVE_LOG_LEVEL, and --verbose (-v) forces debug.
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/seamcarve-mcp/internal/config"
)

var (
	version = "dev"     // semantic version (e.g., "v1.2.3")
	commit  = "unknown" // git commit SHA
	date    = "unknown" // build timestamp
)

// SetVersion sets the version information displayed by --version and
// reported to MCP clients.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the CLI with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   "seamcarve-mcp",
		Short: "Content-aware image narrowing over MCP",
		Long: `seamcarve-mcp removes low-energy vertical seams from images to reduce their width
while keeping important content. It runs as an MCP server on stdin/stdout, or
carves files directly with the carve subcommand.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			level := cfg.Level()
			if verbose {
				level = log.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("seamcarve-mcp %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newCarveCmd())

	return root
}
