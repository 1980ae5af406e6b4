package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/interfaces"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/types"
)

const (
	// DefaultBaseURL is the local Ollama API endpoint
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is a small model that fits single-board computers
	DefaultModel = "tinyllama:1.1b"

	defaultTimeout = 60 * time.Second

	// Streamed lines are usually short JSON fragments, but replies embedded
	// in a single line can grow past bufio's default limit
	maxLineSize = 1024 * 1024
)

type client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option is a functional option for the Ollama client
type Option func(*client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates an LLMClient for the Ollama generate API
func New(baseURL, model string, opts ...Option) interfaces.LLMClient {
	c := &client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate sends prompt to /api/generate and aggregates the streamed NDJSON
// fragments into a single reply. Lines that are not JSON are appended as-is.
func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode generate request", goerr.T(types.ErrTagLLM))
	}

	url := c.baseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create generate request",
			goerr.V("url", url), goerr.T(types.ErrTagLLM))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to reach ollama",
			goerr.V("url", url), goerr.V("model", c.model), goerr.T(types.ErrTagLLM))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("unexpected status from ollama",
			goerr.V("status", resp.StatusCode), goerr.V("model", c.model), goerr.T(types.ErrTagLLM))
	}

	var reply strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			reply.Write(line)
			continue
		}

		reply.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", goerr.Wrap(err, "failed to read ollama stream",
			goerr.V("model", c.model), goerr.T(types.ErrTagLLM))
	}

	return strings.TrimSpace(reply.String()), nil
}
