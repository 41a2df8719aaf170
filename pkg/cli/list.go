package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "list",
		Usage: "List all memories for a user",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.resolve(); err != nil {
				return err
			}

			uc, err := cfg.newUseCase()
			if err != nil {
				return err
			}

			memories, err := uc.GetAll(ctx, cfg.userID)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if len(memories) == 0 {
				fmt.Fprintf(w, "No memories stored for %s\n", cfg.userID)
				return nil
			}

			fmt.Fprintf(w, "%d memories for %s:\n\n", len(memories), cfg.userID)
			for i, m := range memories {
				fmt.Fprintf(w, "%d. [%s] %s\n", i+1, m.ID, m.Content)
				if len(m.Categories) > 0 {
					fmt.Fprintf(w, "   Categories: %s\n", strings.Join(m.Categories, ", "))
				}
			}
			return nil
		},
	}
}
