// ABOUTME: HTTP client pushing the local snapshot to the bulk upsert endpoint.
// ABOUTME: One-way, best-effort: per-record failures are reported, never thrown.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
)

// SyncPath is the route of the bulk upsert endpoint.
const SyncPath = "/api/v1/sync"

// Client pushes snapshots to a stepBox sync server. It never pulls; the
// server copy is a best-effort mirror of local state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a sync client for the given server base URL.
func NewClient(baseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Push submits the payload as one batch and returns the server's per-entity
// accounting. The returned error is non-nil only when the batch itself could
// not be delivered (network failure, non-JSON reply); per-record failures are
// inside the Report. Pushing the same payload twice is a no-op on the server.
func (c *Client) Push(ctx context.Context, p Payload) (*Report, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal sync payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SyncPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("sync push failed", "err", err)
		return nil, fmt.Errorf("push sync batch: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sync response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("sync server rejected batch", "status", resp.StatusCode)
		return nil, fmt.Errorf("sync server returned %d: %s", resp.StatusCode, raw)
	}

	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("decode sync report: %w", err)
	}

	if report.Summary.TotalFailed > 0 {
		c.logger.Warn("sync completed with failures",
			"synced", report.Summary.TotalSynced,
			"failed", report.Summary.TotalFailed)
	} else {
		c.logger.Debug("sync completed", "synced", report.Summary.TotalSynced)
	}
	return &report, nil
}
