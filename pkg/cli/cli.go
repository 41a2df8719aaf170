package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/recall/pkg/utils/logging"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "recall",
		Usage: "Memory curation layer between a conversational agent and the Mem0 store",
		Commands: []*cli.Command{
			serveCommand(),
			addCommand(),
			searchCommand(),
			listCommand(),
			consolidateCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.Default().Error("command failed", "error", err)
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
