// Package slack sends import-run notifications to Slack via incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/forcewatch/server/internal/importer"
)

const (
	maxErrorLen = 500
	httpTimeout = 10 * time.Second
)

// Notifier sends finished import runs to a Slack webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a new Slack notifier. If webhookURL is empty, Send is a no-op.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// Send posts an import run summary to the configured Slack webhook.
// If no webhook URL is configured, it returns nil immediately.
func (n *Notifier) Send(ctx context.Context, run *importer.Run) error {
	if n.webhookURL == "" {
		return nil
	}

	msg := buildMessage(run)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func buildMessage(run *importer.Run) map[string]any {
	blocks := []map[string]any{
		headerBlock(run),
		{"type": "divider"},
		fieldsBlock(run),
	}
	if run.Error != "" {
		blocks = append(blocks, map[string]any{"type": "divider"}, errorBlock(run))
	}
	blocks = append(blocks, map[string]any{"type": "divider"}, contextBlock(run))

	return map[string]any{"blocks": blocks}
}

func headerBlock(run *importer.Run) map[string]any {
	emoji := "\U0001f7e2" // green circle
	title := "Import Complete"
	if run.Status == importer.StatusFailed {
		emoji = "\U0001f534" // red circle
		title = "Import Failed"
	} else if run.Failed > 0 {
		emoji = "\U0001f7e1" // yellow circle
	}

	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": fmt.Sprintf("%s %s", emoji, title),
		},
	}
}

func fieldsBlock(run *importer.Run) map[string]any {
	duration := run.CompletedAt.Sub(run.StartedAt)

	fields := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Status:* %s", run.Status),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Imported:* %d", run.Imported),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Failed:* %d", run.Failed),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Duration:* %.1fs", duration.Seconds()),
		},
	}

	return map[string]any{
		"type":   "section",
		"fields": fields,
	}
}

func errorBlock(run *importer.Run) map[string]any {
	return map[string]any{
		"type": "section",
		"text": map[string]any{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Error*\n\n%s", truncate(run.Error, maxErrorLen)),
		},
	}
}

func contextBlock(run *importer.Run) map[string]any {
	ts := run.CompletedAt
	if ts.IsZero() {
		ts = run.StartedAt
	}

	elements := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("forcewatch • import %s • %s", run.ID, ts.UTC().Format("2006-01-02 15:04 UTC")),
		},
	}

	return map[string]any{
		"type":     "context",
		"elements": elements,
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
