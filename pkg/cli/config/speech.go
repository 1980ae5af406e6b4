package config

import "github.com/urfave/cli/v3"

// Speech holds text to speech configuration
type Speech struct {
	Command string
}

// Flags returns CLI flags for speech configuration
func (c *Speech) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "speak-command",
			Usage:       "Text to speech command line",
			Value:       "espeak",
			Destination: &c.Command,
			Sources:     cli.EnvVars("CONVAI_SPEAK_COMMAND"),
		},
	}
}
