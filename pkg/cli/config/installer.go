package config

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/types"
)

// Installer holds model installer configuration
type Installer struct {
	URL     string
	Timeout time.Duration
}

// Flags returns CLI flags for installer configuration. The installer is
// configured through flags only, never through environment variables.
func (c *Installer) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "url",
			Usage:       "Model archive URL",
			Value:       types.DefaultModelURL,
			Destination: &c.URL,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Overall install timeout, 0 disables",
			Value:       0,
			Destination: &c.Timeout,
		},
	}
}
