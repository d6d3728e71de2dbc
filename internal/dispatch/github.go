// Package dispatch triggers a follow-up monitoring run when the
// current one hands off remaining work.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// GitHubDispatcher fires a workflow_dispatch event so the hosting
// workflow re-runs an equivalent monitoring pass. Fire-and-forget:
// the caller logs a failure but proceeds with the unwind either way.
type GitHubDispatcher struct {
	url    string
	token  string
	ref    string
	client *http.Client
	logger *zap.Logger
}

func NewGitHubDispatcher(url, token, ref string, logger *zap.Logger) *GitHubDispatcher {
	return &GitHubDispatcher{
		url:    url,
		token:  token,
		ref:    ref,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (d *GitHubDispatcher) Dispatch(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"ref": d.ref})
	if err != nil {
		return fmt.Errorf("encode dispatch payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build dispatch request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("trigger continuation: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("continuation trigger responded %d", resp.StatusCode)
	}

	d.logger.Info("continuation run dispatched", zap.String("ref", d.ref))
	return nil
}
