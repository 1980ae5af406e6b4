package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/cli/config"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/infra/ollama"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/infra/speech"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/usecase"
)

func cmdChat() *cli.Command {
	var (
		ollamaCfg    config.Ollama
		assistantCfg config.Assistant
		speechCfg    config.Speech
		configPath   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML config file",
			Destination: &configPath,
			Sources:     cli.EnvVars("CONVAI_CONFIG"),
		},
	}
	flags = append(flags, ollamaCfg.Flags()...)
	flags = append(flags, assistantCfg.Flags()...)
	flags = append(flags, speechCfg.Flags()...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Chat with the local language model from the terminal",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if configPath != "" {
				f, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				f.Apply(c, &ollamaCfg, &assistantCfg, &speechCfg, nil)
			}

			logger := ctxlog.From(ctx)
			logger.Info("starting chat session",
				slog.String("url", ollamaCfg.URL),
				slog.String("model", ollamaCfg.Model),
			)

			opts := []usecase.AssistantOption{
				usecase.WithRecognizer(speech.NewLineRecognizer(os.Stdin)),
				usecase.WithHistoryLimit(assistantCfg.HistoryLimit),
			}
			if assistantCfg.NoClean {
				opts = append(opts, usecase.WithoutCleaning())
			}
			if assistantCfg.Speak {
				opts = append(opts, usecase.WithSpeaker(speech.NewExecSpeaker(speechCfg.Command)))
			}

			llm := ollama.New(ollamaCfg.URL, ollamaCfg.Model,
				ollama.WithTimeout(ollamaCfg.Timeout))

			return usecase.NewAssistant(llm, opts...).Loop(ctx)
		},
	}
}
