package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/recall/pkg/usecase/memory"
)

func searchCommand() *cli.Command {
	var (
		cfg   config
		query string
		limit int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Natural language search query",
			Required:    true,
			Destination: &query,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of results",
			Value:       10,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "search",
		Usage: "Search memories in the remote store",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.resolve(); err != nil {
				return err
			}

			uc, err := cfg.newUseCase()
			if err != nil {
				return err
			}

			results, err := uc.Search(ctx, memory.SearchInput{
				Query:  query,
				UserID: cfg.userID,
				Limit:  int(limit),
			})
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if len(results) == 0 {
				fmt.Fprintf(w, "No memories found\n")
				return nil
			}

			fmt.Fprintf(w, "Found %d memories:\n\n", len(results))
			for i, m := range results {
				fmt.Fprintf(w, "%d. [%s] %s\n", i+1, m.ID, m.Content)
			}
			return nil
		},
	}
}
