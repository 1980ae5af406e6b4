package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/cli/config"
	controller "github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/controller/http"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/infra/ollama"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/infra/speech"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
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
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, ollamaCfg.Flags()...)
	flags = append(flags, assistantCfg.Flags()...)
	flags = append(flags, speechCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start local HTTP API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if configPath != "" {
				f, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				f.Apply(c, &ollamaCfg, &assistantCfg, &speechCfg, &serverCfg)
			}

			logger := ctxlog.From(ctx)

			logger.Info("Starting convai server",
				slog.String("addr", serverCfg.Addr),
				slog.String("model", ollamaCfg.Model),
			)

			llm := ollama.New(ollamaCfg.URL, ollamaCfg.Model,
				ollama.WithTimeout(ollamaCfg.Timeout))

			opts := []usecase.AssistantOption{
				usecase.WithHistoryLimit(assistantCfg.HistoryLimit),
			}
			if assistantCfg.NoClean {
				opts = append(opts, usecase.WithoutCleaning())
			}
			assistantUC := usecase.NewAssistant(llm, opts...)

			speaker := speech.NewExecSpeaker(speechCfg.Command)

			server, err := controller.NewServer(
				ctx,
				assistantUC,
				speaker,
				controller.WithAddr(serverCfg.Addr),
				controller.WithSpokenReplies(assistantCfg.Speak),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
