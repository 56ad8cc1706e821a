package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"proctor-quiz-service/internal/client"
	"proctor-quiz-service/internal/domain"
)

// NewResultsCmd prints the admin listing, optionally following new submissions.
func NewResultsCmd() *cobra.Command {
	var (
		server string
		watch  bool
	)
	cmd := &cobra.Command{
		Use:   "results",
		Short: "List submitted results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return watchResults(cmd.Context(), server, cmd.OutOrStdout())
			}
			return listResults(cmd.Context(), server, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&server, "server", serverFromEnv(), "quiz server base URL")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep printing new submissions as they arrive")
	return cmd
}

func listResults(ctx context.Context, server string, out io.Writer) error {
	results, err := client.NewHTTPClient(server, nil).Results(ctx)
	if err != nil {
		return err
	}
	writeResults(out, results)
	return nil
}

type feedMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// watchResults follows /ws/results: the snapshot first, then one line per
// submission. Records already printed are skipped by id.
func watchResults(ctx context.Context, server string, out io.Writer) error {
	wsURL, err := feedURL(server)
	if err != nil {
		return err
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return fmt.Errorf("%w: %s", client.ErrServiceUnavailable, resp.Status)
		}
		return fmt.Errorf("%w: %v", client.ErrServiceUnavailable, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	seen := map[int64]bool{}
	for {
		var msg feedMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		switch msg.Type {
		case "results":
			var results []domain.Submission
			if err := json.Unmarshal(msg.Payload, &results); err != nil {
				return err
			}
			writeResults(out, results)
			for _, r := range results {
				seen[r.ID] = true
			}
		case "submission":
			var r domain.Submission
			if err := json.Unmarshal(msg.Payload, &r); err != nil {
				return err
			}
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			fmt.Fprintln(out, strings.ReplaceAll(resultRow(r), "\t", "  "))
		case "error":
			return fmt.Errorf("results feed: %s", msg.Payload)
		}
	}
}

func feedURL(server string) (string, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(server), "/"))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/ws/results"
	return u.String(), nil
}
