package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/cli/config"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/model"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/types"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/infra/fetch"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/usecase"
)

// entryPreviewLimit caps how many installed entries are listed on stdout.
const entryPreviewLimit = 50

func cmdInstallModel() *cli.Command {
	var installerCfg config.Installer

	return &cli.Command{
		Name:      "install-model",
		Aliases:   []string{"install"},
		Usage:     "Download and install a speech model archive",
		ArgsUsage: "[DEST_DIR]",
		Flags:     installerCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 1 {
				return goerr.New("too many arguments, expected at most one destination directory",
					goerr.V("args", c.Args().Slice()))
			}

			dest := types.DefaultModelDir
			if c.Args().Len() == 1 {
				dest = c.Args().First()
			}

			if installerCfg.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, installerCfg.Timeout)
				defer cancel()
			}

			uc := usecase.NewInstall(fetch.New())
			result, err := uc.Install(ctx, installerCfg.URL, dest)
			if err != nil {
				return err
			}

			fmt.Println(result.Dest)
			printEntries(result.Entries)
			return nil
		},
	}
}

func printEntries(entries []model.Entry) {
	for i, e := range entries {
		if i == entryPreviewLimit {
			fmt.Printf("  ... and %d more\n", len(entries)-entryPreviewLimit)
			return
		}
		if e.Dir {
			fmt.Printf("  %s/\n", e.Name)
		} else {
			fmt.Printf("  %s (%s)\n", e.Name, humanize.Bytes(uint64(e.Size)))
		}
	}
}
