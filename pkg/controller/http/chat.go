package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/interfaces"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/model"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/utils/async"
)

// ChatHandler serves the conversational endpoints
type ChatHandler struct {
	assistantUC   interfaces.AssistantUseCase
	speaker       interfaces.Speaker
	spokenReplies bool
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(assistantUC interfaces.AssistantUseCase, speaker interfaces.Speaker, spokenReplies bool) *ChatHandler {
	return &ChatHandler{
		assistantUC:   assistantUC,
		speaker:       speaker,
		spokenReplies: spokenReplies,
	}
}

// HandleChat answers a user message with the language model
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(ctx, w, goerr.New("text must not be empty"), http.StatusBadRequest)
		return
	}

	reply, err := h.assistantUC.Reply(ctx, text)
	if err != nil {
		logger.Error("Failed to generate reply", "error", err)
		writeError(ctx, w, err, http.StatusBadGateway)
		return
	}

	// Speaking happens off the request path so slow TTS never delays the
	// response
	if h.spokenReplies && h.speaker != nil {
		async.Dispatch(ctx, func(ctx context.Context) error {
			return h.speaker.Say(ctx, reply)
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&model.ChatReply{
		ID:    uuid.NewString(),
		Reply: reply,
	}); err != nil {
		logger.Error("Failed to encode chat response", "error", err)
	}
}

// HandleSay speaks the given text without involving the language model
func (h *ChatHandler) HandleSay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.SayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(ctx, w, goerr.New("text must not be empty"), http.StatusBadRequest)
		return
	}

	if h.speaker == nil {
		writeError(ctx, w, goerr.New("speech output is not configured"), http.StatusNotImplemented)
		return
	}

	if err := h.speaker.Say(ctx, text); err != nil {
		ctxlog.From(ctx).Error("Failed to speak text", "error", err)
		writeError(ctx, w, err, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
