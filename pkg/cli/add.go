package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/recall/pkg/model"
	"github.com/m-mizutani/recall/pkg/usecase/memory"
)

func addCommand() *cli.Command {
	var (
		cfg     config
		content string
		force   bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "content",
			Aliases:     []string{"m"},
			Usage:       "Memory content to save",
			Required:    true,
			Destination: &content,
		},
		&cli.BoolFlag{
			Name:        "force",
			Aliases:     []string{"f"},
			Usage:       "Bypass quality checks",
			Destination: &force,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "add",
		Usage: "Save a memory through the curation pipeline",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.resolve(); err != nil {
				return err
			}

			uc, err := cfg.newUseCase()
			if err != nil {
				return err
			}

			result, err := uc.Save(ctx, memory.SaveInput{
				Source: model.RawContent{Content: content},
				UserID: cfg.userID,
				Force:  force,
			})
			if err != nil {
				return err
			}

			w := c.Root().Writer
			switch {
			case result.Rejected:
				fmt.Fprintf(w, "Rejected (score %d):\n", result.Assessment.Score)
				for _, issue := range result.Assessment.Issues {
					fmt.Fprintf(w, "  - %s\n", issue)
				}
				fmt.Fprintf(w, "Add more context, or retry with --force\n")
			case result.Duplicate != nil:
				fmt.Fprintf(w, "Duplicate of %s (similarity %.2f):\n  %s\n",
					result.Duplicate.ID, result.Similarity, result.Duplicate.Content)
			default:
				fmt.Fprintf(w, "Saved")
				if result.MemoryID != "" {
					fmt.Fprintf(w, " as %s", result.MemoryID)
				}
				if result.Assessment != nil {
					fmt.Fprintf(w, " (quality score %d)", result.Assessment.Score)
				}
				fmt.Fprintln(w)
			}

			// Surface advisory issues even on success
			if result.Saved && result.Assessment != nil && len(result.Assessment.Issues) > 0 {
				fmt.Fprintf(w, "Notes: %s\n", strings.Join(result.Assessment.Issues, "; "))
			}

			return nil
		},
	}
}
