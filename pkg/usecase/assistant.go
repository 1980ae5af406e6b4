package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/interfaces"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/model"
)

// fallbackReply is returned when the language model produces nothing usable.
const fallbackReply = "Sorry, I couldn't produce a response."

const defaultHistoryLimit = 10

type assistantUseCase struct {
	llm          interfaces.LLMClient
	recognizer   interfaces.Recognizer
	speaker      interfaces.Speaker
	out          io.Writer
	historyLimit int
	clean        bool

	mu      sync.Mutex
	history []model.Turn
}

type AssistantOption func(*assistantUseCase)

// WithRecognizer provides the speech input used by Loop.
func WithRecognizer(r interfaces.Recognizer) AssistantOption {
	return func(u *assistantUseCase) {
		u.recognizer = r
	}
}

// WithSpeaker enables spoken replies. Speech failures are logged, never fatal.
func WithSpeaker(s interfaces.Speaker) AssistantOption {
	return func(u *assistantUseCase) {
		u.speaker = s
	}
}

// WithHistoryLimit caps how many past turns are included in each prompt.
func WithHistoryLimit(n int) AssistantOption {
	return func(u *assistantUseCase) {
		if n > 0 {
			u.historyLimit = n
		}
	}
}

// WithoutCleaning disables post-processing of model output.
func WithoutCleaning() AssistantOption {
	return func(u *assistantUseCase) {
		u.clean = false
	}
}

// WithOutput redirects the transcript written by Loop.
func WithOutput(w io.Writer) AssistantOption {
	return func(u *assistantUseCase) {
		u.out = w
	}
}

func NewAssistant(llm interfaces.LLMClient, opts ...AssistantOption) interfaces.AssistantUseCase {
	uc := &assistantUseCase{
		llm:          llm,
		out:          os.Stdout,
		historyLimit: defaultHistoryLimit,
		clean:        true,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Reply sends the user text to the language model with recent conversation
// context and records both turns in the history.
func (u *assistantUseCase) Reply(ctx context.Context, userText string) (string, error) {
	prompt := u.buildPrompt(userText)

	ctxlog.From(ctx).Debug("querying language model", "prompt_len", len(prompt))

	raw, err := u.llm.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	reply := raw
	if u.clean {
		reply = CleanReply(raw)
	}
	if strings.TrimSpace(reply) == "" {
		reply = fallbackReply
	}

	u.mu.Lock()
	u.history = append(u.history,
		model.Turn{Role: model.RoleUser, Text: userText},
		model.Turn{Role: model.RoleAssistant, Text: reply},
	)
	u.mu.Unlock()

	return reply, nil
}

// Loop runs the listen, reply, speak cycle until the input ends or the
// context is cancelled.
func (u *assistantUseCase) Loop(ctx context.Context) error {
	if u.recognizer == nil {
		return goerr.New("no speech recognizer configured")
	}

	logger := ctxlog.From(ctx)

	for {
		userText, err := u.recognizer.Listen(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if userText == "" {
			continue
		}

		fmt.Fprintf(u.out, "Heard: %s\n", userText)

		reply, err := u.Reply(ctx, userText)
		if err != nil {
			return err
		}

		fmt.Fprintf(u.out, "Assistant: %s\n", reply)

		if u.speaker != nil {
			if err := u.speaker.Say(ctx, reply); err != nil {
				logger.Warn("failed to speak reply", "error", err)
			}
		}
	}
}

// buildPrompt renders the recent history as role-annotated lines followed by
// the current user text. The new turns are recorded only after the model
// answers, so the prompt never repeats the current line.
func (u *assistantUseCase) buildPrompt(userText string) string {
	u.mu.Lock()
	defer u.mu.Unlock()

	turns := u.history
	if len(turns) > u.historyLimit {
		turns = turns[len(turns)-u.historyLimit:]
	}

	var sb strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&sb, "%s: %s\n", roleLabel(turn.Role), turn.Text)
	}
	fmt.Fprintf(&sb, "User: %s\n", userText)
	sb.WriteString("Assistant:")

	return sb.String()
}

func roleLabel(r model.Role) string {
	switch r {
	case model.RoleAssistant:
		return "Assistant"
	default:
		return "User"
	}
}

var (
	roleLinePattern   = regexp.MustCompile(`(?m)^(?:AI|Assistant|User|System):\s*`)
	roleInlinePattern = regexp.MustCompile(`\b(?:User|Assistant|AI|System):\s*`)
	blankRunPattern   = regexp.MustCompile(`\n{2,}`)
	spaceRunPattern   = regexp.MustCompile(`[ \t]{2,}`)
)

// CleanReply strips the artifacts small local models tend to emit: a JSON
// envelope around the answer, echoed role labels, and runs of whitespace.
func CleanReply(text string) string {
	if text == "" {
		return text
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		for _, key := range []string{"response", "output", "text", "result"} {
			if s, ok := obj[key].(string); ok {
				text = s
				break
			}
		}
	}

	text = roleLinePattern.ReplaceAllString(text, "")
	text = roleInlinePattern.ReplaceAllString(text, "")
	text = blankRunPattern.ReplaceAllString(text, "\n")
	text = spaceRunPattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
