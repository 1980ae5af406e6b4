package config

import "github.com/urfave/cli/v3"

// Assistant holds conversation behavior configuration
type Assistant struct {
	HistoryLimit int
	NoClean      bool
	Speak        bool
}

// Flags returns CLI flags for assistant configuration
func (c *Assistant) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "history-limit",
			Usage:       "Number of past turns included in each prompt",
			Value:       10,
			Destination: &c.HistoryLimit,
			Sources:     cli.EnvVars("CONVAI_HISTORY_LIMIT"),
		},
		&cli.BoolFlag{
			Name:        "no-clean",
			Usage:       "Keep raw model output without post-processing",
			Destination: &c.NoClean,
			Sources:     cli.EnvVars("CONVAI_NO_CLEAN"),
		},
		&cli.BoolFlag{
			Name:        "speak",
			Usage:       "Speak replies aloud",
			Destination: &c.Speak,
			Sources:     cli.EnvVars("CONVAI_SPEAK"),
		},
	}
}
