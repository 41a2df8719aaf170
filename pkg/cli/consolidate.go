package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/recall/pkg/model"
	"github.com/m-mizutani/recall/pkg/usecase/memory"
)

func consolidateCommand() *cli.Command {
	var (
		cfg         config
		interactive bool
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "interactive",
			Aliases:     []string{"i"},
			Usage:       "Review each candidate and merge via update/delete",
			Destination: &interactive,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "consolidate",
		Usage: "Scan a user's memories for merge candidates",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.resolve(); err != nil {
				return err
			}

			uc, err := cfg.newUseCase()
			if err != nil {
				return err
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " scanning memories..."
			sp.Start()
			report, err := uc.Consolidate(ctx, cfg.userID)
			sp.Stop()
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if report.TotalMemories == 0 {
				fmt.Fprintf(w, "No memories to consolidate\n")
				return nil
			}
			if len(report.Candidates) == 0 {
				fmt.Fprintf(w, "No similar memories found among %d records\n", report.TotalMemories)
				return nil
			}

			fmt.Fprintf(w, "Found %d merge candidates among %d memories:\n\n",
				len(report.Candidates), report.TotalMemories)
			for i, cand := range report.Candidates {
				fmt.Fprintf(w, "%d. similarity %.2f\n", i+1, cand.Similarity)
				fmt.Fprintf(w, "   [%s] %s\n", cand.Memory1ID, cand.Memory1Content)
				fmt.Fprintf(w, "   [%s] %s\n\n", cand.Memory2ID, cand.Memory2Content)
			}

			if !interactive {
				fmt.Fprintf(w, "Run with --interactive to review and merge\n")
				return nil
			}

			return reviewCandidates(ctx, uc, report.Candidates, c)
		},
	}
}

// reviewCandidates walks merge candidates one by one. Merging keeps the
// longer content on the first memory and deletes the second; the scan
// itself never mutates anything, only this review loop does.
func reviewCandidates(ctx context.Context, uc *memory.UseCase, candidates []model.ConsolidationCandidate, c *cli.Command) error {
	rl, err := readline.New("consolidate> ")
	if err != nil {
		return goerr.Wrap(err, "failed to open terminal")
	}
	defer rl.Close()

	w := c.Root().Writer
	for i, cand := range candidates {
		fmt.Fprintf(w, "Candidate %d/%d (similarity %.2f):\n", i+1, len(candidates), cand.Similarity)
		fmt.Fprintf(w, "  keep:   [%s] %s\n", cand.Memory1ID, cand.Memory1Content)
		fmt.Fprintf(w, "  remove: [%s] %s\n", cand.Memory2ID, cand.Memory2Content)
		fmt.Fprintf(w, "[m]erge / [s]kip / [q]uit? ")

		line, err := rl.Readline()
		if err != nil {
			// Ctrl-C or EOF ends the review
			return nil
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "m", "merge":
			if err := mergeCandidate(ctx, uc, cand); err != nil {
				return err
			}
			fmt.Fprintf(w, "Merged into %s\n\n", cand.Memory1ID)
		case "q", "quit":
			return nil
		default:
			fmt.Fprintf(w, "Skipped\n\n")
		}
	}

	return nil
}

func mergeCandidate(ctx context.Context, uc *memory.UseCase, cand model.ConsolidationCandidate) error {
	// Prefer the more detailed content for the surviving record.
	if len(cand.Memory2Content) > len(cand.Memory1Content) {
		if err := uc.Update(ctx, cand.Memory1ID, cand.Memory2Content); err != nil {
			return err
		}
	}
	return uc.Delete(ctx, cand.Memory2ID)
}
