package speech

import (
	"context"
	"os/exec"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/interfaces"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/types"
)

// DefaultCommand speaks through the system espeak binary, which is the
// common synthesizer on single-board computers
const DefaultCommand = "espeak"

type execSpeaker struct {
	name string
	args []string
}

// NewExecSpeaker creates a Speaker that runs an external synthesizer command
// for each utterance. command is split on whitespace; the text to speak is
// appended as the final argument. An empty command falls back to espeak.
func NewExecSpeaker(command string) interfaces.Speaker {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		parts = []string{DefaultCommand}
	}
	return &execSpeaker{name: parts[0], args: parts[1:]}
}

// Say runs the synthesizer command with text appended to its arguments
func (s *execSpeaker) Say(ctx context.Context, text string) error {
	args := make([]string, 0, len(s.args)+1)
	args = append(args, s.args...)
	args = append(args, text)

	cmd := exec.CommandContext(ctx, s.name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return goerr.Wrap(err, "speech command failed",
			goerr.V("command", s.name),
			goerr.V("output", strings.TrimSpace(string(out))),
			goerr.T(types.ErrTagSpeech))
	}
	return nil
}
