package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/recall/pkg/mcp"
	"github.com/m-mizutani/recall/pkg/utils/logging"
)

func serveCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server over stdio",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.resolve(); err != nil {
				return err
			}

			uc, err := cfg.newUseCase()
			if err != nil {
				return err
			}

			server := mcp.New(uc, mcp.WithVerbosity(mcp.Verbosity(cfg.verbosity)))

			logging.Default().Info("starting MCP server",
				"user_id", cfg.userID, "verbosity", cfg.verbosity)
			return server.Run(ctx)
		},
	}
}
