package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"proctor-quiz-service/internal/domain"
)

const (
	colorPass    = 0x10b981
	colorDefault = 0x6366f1
)

// Webhook posts a Discord-style embed for each submission.
type Webhook struct {
	url      string
	passMark int
	client   *http.Client
}

func NewWebhook(url string, passMark int, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Webhook{
		url:      url,
		passMark: passMark,
		client:   &http.Client{Timeout: timeout},
	}
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title  string       `json:"title"`
	Color  int          `json:"color"`
	Fields []embedField `json:"fields"`
	Footer embedFooter  `json:"footer"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

func (w *Webhook) Notify(ctx context.Context, submission domain.Submission, total int) error {
	color := colorDefault
	if submission.Score > w.passMark {
		color = colorPass
	}

	payload := webhookPayload{Embeds: []embed{{
		Title: "New Quiz Submission!",
		Color: color,
		Fields: []embedField{
			{Name: "Name", Value: submission.Name, Inline: true},
			{Name: "Score", Value: fmt.Sprintf("%d/%d", submission.Score, total), Inline: true},
			{Name: "Tab Switches", Value: strconv.Itoa(submission.TabSwitches), Inline: true},
			{Name: "Time Taken", Value: FormatDuration(submission.TimeTaken), Inline: true},
		},
		Footer: embedFooter{Text: "Proctored Quiz System"},
	}}}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook responded %s", resp.Status)
	}
	return nil
}

// FormatDuration renders seconds as "Xm Ys".
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
