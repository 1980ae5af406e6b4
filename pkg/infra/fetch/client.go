package fetch

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/m-mizutani/goerr/v2"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/interfaces"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/types"
)

type client struct {
	httpClient *http.Client
}

// Option is a functional option for the fetch client
type Option func(*client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a Fetcher that downloads over HTTP, following redirects.
// Timeouts and cancellation are controlled by the caller's context.
func New(opts ...Option) interfaces.Fetcher {
	c := &client{
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchFile streams the body at url into path and returns the byte count
func (c *client) FetchFile(ctx context.Context, url, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create download request",
			goerr.V("url", url), goerr.T(types.ErrTagFetch))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to fetch archive",
			goerr.V("url", url), goerr.T(types.ErrTagFetch))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, goerr.New("unexpected status code",
			goerr.V("status", resp.StatusCode), goerr.V("url", url), goerr.T(types.ErrTagFetch))
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create archive file",
			goerr.V("path", path), goerr.T(types.ErrTagFilesystem))
	}

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		_ = out.Close()
		return 0, goerr.Wrap(err, "failed to stream archive body",
			goerr.V("url", url), goerr.V("path", path), goerr.T(types.ErrTagFetch))
	}

	if err := out.Close(); err != nil {
		return 0, goerr.Wrap(err, "failed to finalize archive file",
			goerr.V("path", path), goerr.T(types.ErrTagFilesystem))
	}

	return written, nil
}
