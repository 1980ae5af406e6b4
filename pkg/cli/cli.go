package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/cli/config"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/types"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var loggerCfg config.Logger

	app := &cli.Command{
		Name:    types.AppName,
		Usage:   "Offline voice assistant toolkit",
		Version: types.Version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdInstallModel(),
			cmdDiagnose(),
			cmdWER(),
			cmdSay(),
			cmdChat(),
			cmdServe(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		// Tagged failures are reported as "kind: message" on stderr
		if kind := types.ErrorKind(err); kind != "" {
			fmt.Fprintf(os.Stderr, "%s: %v\n", kind, err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return err
	}

	return nil
}
