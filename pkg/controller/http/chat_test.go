package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"

	controller "github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/controller/http"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/model"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/types"
)

type stubAssistant struct {
	reply    string
	err      error
	lastText string
}

func (s *stubAssistant) Reply(ctx context.Context, userText string) (string, error) {
	s.lastText = userText
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubAssistant) Loop(ctx context.Context) error { return nil }

type stubSpeaker struct {
	texts []string
	err   error
	done  chan struct{}
}

func (s *stubSpeaker) Say(ctx context.Context, text string) error {
	s.texts = append(s.texts, text)
	if s.done != nil {
		select {
		case s.done <- struct{}{}:
		default:
		}
	}
	return s.err
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestChatHandler_Reply(t *testing.T) {
	assistant := &stubAssistant{reply: "hi there"}
	handler := controller.NewChatHandler(assistant, nil, false)

	w := postJSON(t, handler.HandleChat, "/api/chat", `{"text": "  hello  "}`)

	if w.Code != http.StatusOK {
		t.Fatalf("HandleChat() status = %v, want %v", w.Code, http.StatusOK)
	}

	var reply model.ChatReply
	if err := json.NewDecoder(w.Body).Decode(&reply); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if reply.Reply != "hi there" {
		t.Errorf("Reply = %q, want %q", reply.Reply, "hi there")
	}
	if reply.ID == "" {
		t.Error("ID should not be empty")
	}
	if assistant.lastText != "hello" {
		t.Errorf("assistant received %q, want trimmed %q", assistant.lastText, "hello")
	}
}

func TestChatHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Empty text", body: `{"text": ""}`},
		{name: "Whitespace text", body: `{"text": "   "}`},
		{name: "Invalid JSON", body: `{"text": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := controller.NewChatHandler(&stubAssistant{reply: "x"}, nil, false)

			w := postJSON(t, handler.HandleChat, "/api/chat", tt.body)

			if w.Code != http.StatusBadRequest {
				t.Errorf("HandleChat() status = %v, want %v", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestChatHandler_UpstreamError(t *testing.T) {
	assistant := &stubAssistant{
		err: goerr.New("model unavailable", goerr.T(types.ErrTagLLM)),
	}
	handler := controller.NewChatHandler(assistant, nil, false)

	w := postJSON(t, handler.HandleChat, "/api/chat", `{"text": "hello"}`)

	if w.Code != http.StatusBadGateway {
		t.Errorf("HandleChat() status = %v, want %v", w.Code, http.StatusBadGateway)
	}
}

func TestChatHandler_SpokenReplies(t *testing.T) {
	speaker := &stubSpeaker{done: make(chan struct{}, 1)}
	handler := controller.NewChatHandler(&stubAssistant{reply: "aloud"}, speaker, true)

	w := postJSON(t, handler.HandleChat, "/api/chat", `{"text": "hello"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("HandleChat() status = %v, want %v", w.Code, http.StatusOK)
	}

	// Speaking is dispatched off the request path
	select {
	case <-speaker.done:
	case <-time.After(2 * time.Second):
		t.Fatal("speaker was not invoked")
	}

	if len(speaker.texts) != 1 || speaker.texts[0] != "aloud" {
		t.Errorf("speaker.texts = %v, want [aloud]", speaker.texts)
	}
}

func TestSayHandler(t *testing.T) {
	speaker := &stubSpeaker{}
	handler := controller.NewChatHandler(&stubAssistant{}, speaker, false)

	w := postJSON(t, handler.HandleSay, "/api/say", `{"text": "read this"}`)

	if w.Code != http.StatusNoContent {
		t.Fatalf("HandleSay() status = %v, want %v", w.Code, http.StatusNoContent)
	}

	if len(speaker.texts) != 1 || speaker.texts[0] != "read this" {
		t.Errorf("speaker.texts = %v, want [read this]", speaker.texts)
	}
}

func TestSayHandler_NoSpeaker(t *testing.T) {
	handler := controller.NewChatHandler(&stubAssistant{}, nil, false)

	w := postJSON(t, handler.HandleSay, "/api/say", `{"text": "read this"}`)

	if w.Code != http.StatusNotImplemented {
		t.Errorf("HandleSay() status = %v, want %v", w.Code, http.StatusNotImplemented)
	}
}

func TestSayHandler_SpeakerFailure(t *testing.T) {
	speaker := &stubSpeaker{
		err: goerr.New("espeak not found", goerr.T(types.ErrTagSpeech)),
	}
	handler := controller.NewChatHandler(&stubAssistant{}, speaker, false)

	w := postJSON(t, handler.HandleSay, "/api/say", `{"text": "read this"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("HandleSay() status = %v, want %v", w.Code, http.StatusInternalServerError)
	}
}

func TestSayHandler_EmptyText(t *testing.T) {
	handler := controller.NewChatHandler(&stubAssistant{}, &stubSpeaker{}, false)

	w := postJSON(t, handler.HandleSay, "/api/say", `{"text": ""}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("HandleSay() status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestServer_ChatRoute(t *testing.T) {
	ctx := context.Background()

	server, err := controller.NewServer(
		ctx,
		&stubAssistant{reply: "routed"},
		nil,
		controller.WithAddr("localhost:0"),
	)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		bytes.NewReader([]byte(`{"text": "hello"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/chat status = %v, want %v", w.Code, http.StatusOK)
	}

	var reply model.ChatReply
	if err := json.NewDecoder(w.Body).Decode(&reply); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if reply.Reply != "routed" {
		t.Errorf("Reply = %q, want %q", reply.Reply, "routed")
	}
}
