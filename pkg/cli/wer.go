package cli

import (
	"context"
	"fmt"
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/utils/wer"
)

func cmdWER() *cli.Command {
	return &cli.Command{
		Name:      "wer",
		Usage:     "Compute word error rate between two transcripts",
		ArgsUsage: "REFERENCE HYPOTHESIS",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return goerr.New("expected exactly two arguments: reference and hypothesis",
					goerr.V("args", c.Args().Slice()))
			}

			rate := wer.WER(c.Args().Get(0), c.Args().Get(1))
			if math.IsInf(rate, 1) {
				fmt.Println("WER: inf (empty reference)")
				return nil
			}

			fmt.Printf("WER: %.3f\n", rate)
			return nil
		},
	}
}
