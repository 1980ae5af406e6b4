package speech

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/interfaces"
)

type lineRecognizer struct {
	scanner *bufio.Scanner
}

// NewLineRecognizer creates a Recognizer that reads one utterance per line,
// standing in for a microphone recognizer on systems without audio input
func NewLineRecognizer(r io.Reader) interfaces.Recognizer {
	return &lineRecognizer{scanner: bufio.NewScanner(r)}
}

// Listen returns the next line with surrounding whitespace trimmed. It
// returns io.EOF once the input is exhausted.
func (l *lineRecognizer) Listen(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", goerr.Wrap(err, "failed to read input")
		}
		return "", io.EOF
	}
	return strings.TrimSpace(l.scanner.Text()), nil
}
