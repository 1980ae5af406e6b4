package cli

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/cli/config"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/infra/speech"
)

func cmdSay() *cli.Command {
	var speechCfg config.Speech

	return &cli.Command{
		Name:      "say",
		Usage:     "Speak text through the configured TTS command",
		ArgsUsage: "TEXT...",
		Flags:     speechCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return goerr.New("no text given")
			}

			text := strings.Join(c.Args().Slice(), " ")
			speaker := speech.NewExecSpeaker(speechCfg.Command)
			return speaker.Say(ctx, text)
		},
	}
}
