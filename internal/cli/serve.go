package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/seamcarve-mcp/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	logger.Debug("starting server", "version", version, "commit", commit, "built", date,
		"carve_step", cfg.CarveStep, "max_pixels", cfg.MaxPixels)

	srv := server.New(cfg, logger)
	srv.Version = version
	return srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}
