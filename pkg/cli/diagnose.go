package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/model"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/types"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/usecase"
)

func cmdDiagnose() *cli.Command {
	return &cli.Command{
		Name:      "diagnose",
		Aliases:   []string{"verify"},
		Usage:     "Check that a model directory is usable",
		ArgsUsage: "[MODEL_DIR]",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 1 {
				return goerr.New("too many arguments, expected at most one model directory",
					goerr.V("args", c.Args().Slice()))
			}

			dir := types.DefaultModelDir
			if c.Args().Len() == 1 {
				dir = c.Args().First()
			}

			uc := usecase.NewVerify()
			report, err := uc.Verify(ctx, dir)
			printReport(report)
			if err != nil {
				return err
			}

			fmt.Println("model layout OK")
			return nil
		},
	}
}

func printReport(report *model.ModelReport) {
	if report == nil {
		return
	}

	found := color.New(color.FgGreen).Sprint("FOUND")
	missing := color.New(color.FgRed).Sprint("MISSING")

	fmt.Printf("model directory: %s\n", report.Dir)
	for _, check := range report.Candidates {
		printCheck(check, found, missing)
	}
	if report.WordsFile.Path != "" {
		printCheck(report.WordsFile, found, missing)
	}
}

func printCheck(check model.FileCheck, found, missing string) {
	label := missing
	if check.Found {
		label = found
	}
	fmt.Printf("  %-20s %s\n", check.Path, label)
}
