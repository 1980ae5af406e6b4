package interfaces

import (
	"context"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/model"
)

// InstallUseCase defines the model archive installer
type InstallUseCase interface {
	// Install fetches the archive at url, unpacks it, and merges its single
	// top-level directory into dest. It returns the resolved destination and
	// its resulting entries. Temp resources are released on every exit path.
	Install(ctx context.Context, url, dest string) (*model.InstallResult, error)
}

// VerifyUseCase defines model directory inspection
type VerifyUseCase interface {
	// Verify checks dir for known model layout markers. The report is
	// returned even when verification fails so callers can render it.
	Verify(ctx context.Context, dir string) (*model.ModelReport, error)
}

// AssistantUseCase defines conversational exchanges against the local LLM
type AssistantUseCase interface {
	// Reply produces one assistant reply for userText and records both turns.
	Reply(ctx context.Context, userText string) (string, error)

	// Loop runs the recognize-reply-speak cycle until the recognizer reports
	// end of input or ctx is cancelled.
	Loop(ctx context.Context) error
}
