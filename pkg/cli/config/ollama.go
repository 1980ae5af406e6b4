package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

// Ollama holds local LLM endpoint configuration
type Ollama struct {
	URL     string
	Model   string
	Timeout time.Duration
}

// Flags returns CLI flags for Ollama configuration
func (c *Ollama) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "ollama-url",
			Usage:       "Ollama API base URL",
			Value:       "http://localhost:11434",
			Destination: &c.URL,
			Sources:     cli.EnvVars("CONVAI_OLLAMA_URL"),
		},
		&cli.StringFlag{
			Name:        "ollama-model",
			Usage:       "Ollama model name",
			Value:       "tinyllama:1.1b",
			Destination: &c.Model,
			Sources:     cli.EnvVars("CONVAI_OLLAMA_MODEL"),
		},
		&cli.DurationFlag{
			Name:        "ollama-timeout",
			Usage:       "Generation request timeout",
			Value:       60 * time.Second,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("CONVAI_OLLAMA_TIMEOUT"),
		},
	}
}
