package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File is the optional TOML configuration file. Command line flags take
// precedence over file values, which take precedence over defaults.
type File struct {
	Ollama struct {
		URL   string `toml:"url"`
		Model string `toml:"model"`
	} `toml:"ollama"`
	Assistant struct {
		HistoryLimit int   `toml:"history_limit"`
		Clean        *bool `toml:"clean"`
	} `toml:"assistant"`
	Speech struct {
		Command string `toml:"command"`
	} `toml:"speech"`
	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`
}

// LoadFile reads and parses a TOML configuration file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}

	return &f, nil
}

// Apply overlays file values onto flag-backed configs. A flag set on the
// command line keeps its value. Nil targets are skipped.
func (f *File) Apply(cmd *cli.Command, ollama *Ollama, assistant *Assistant, speech *Speech, server *Server) {
	if f == nil {
		return
	}

	if ollama != nil {
		if f.Ollama.URL != "" && !cmd.IsSet("ollama-url") {
			ollama.URL = f.Ollama.URL
		}
		if f.Ollama.Model != "" && !cmd.IsSet("ollama-model") {
			ollama.Model = f.Ollama.Model
		}
	}

	if assistant != nil {
		if f.Assistant.HistoryLimit > 0 && !cmd.IsSet("history-limit") {
			assistant.HistoryLimit = f.Assistant.HistoryLimit
		}
		if f.Assistant.Clean != nil && !cmd.IsSet("no-clean") {
			assistant.NoClean = !*f.Assistant.Clean
		}
	}

	if speech != nil {
		if f.Speech.Command != "" && !cmd.IsSet("speak-command") {
			speech.Command = f.Speech.Command
		}
	}

	if server != nil {
		if f.Server.Addr != "" && !cmd.IsSet("addr") {
			server.Addr = f.Server.Addr
		}
	}
}
