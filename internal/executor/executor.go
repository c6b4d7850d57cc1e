// Package executor issues individual leaderboard API operations and
// normalizes their results into Outcomes. Every code path returns an Outcome;
// the executor never panics or lets a transport error escape its boundary.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ringgrank/rankbench/internal/payload"
)

const (
	// snippetLimit caps the diagnostic body excerpt attached to failed outcomes.
	snippetLimit = 200
	// maxBodyRead bounds how much of a response body is read into memory.
	// The remainder is still drained so the connection can be reused.
	maxBodyRead = 1 << 20
)

// Outcome is the normalized result of executing one Spec.
type Outcome struct {
	Succeeded   bool
	StatusCode  int // 0 when no response was received
	Elapsed     time.Duration
	Err         string
	BodySnippet string
}

// Execute performs the HTTP operation described by spec against baseURL
// through the shared client. Latency is measured from just before dispatch
// until the response body has been fully consumed, so it reflects a complete
// round trip and connections return to the pool.
func Execute(ctx context.Context, client *http.Client, baseURL string, spec payload.Spec) Outcome {
	req, err := buildRequest(ctx, baseURL, spec)
	if err != nil {
		return Outcome{Err: err.Error()}
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return Outcome{Elapsed: time.Since(start), Err: err.Error()}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))
	_, _ = io.Copy(io.Discard, resp.Body)
	elapsed := time.Since(start)

	out := Outcome{StatusCode: resp.StatusCode, Elapsed: elapsed}
	if readErr != nil {
		out.Err = fmt.Sprintf("read response body: %v", readErr)
		return out
	}

	if resp.StatusCode == spec.ExpectedStatus() {
		out.Succeeded = true
		return out
	}

	out.BodySnippet = snippet(body)
	out.Err = statusError(resp.StatusCode, body)
	return out
}

func buildRequest(ctx context.Context, baseURL string, spec payload.Spec) (*http.Request, error) {
	base := strings.TrimRight(baseURL, "/")

	switch s := spec.(type) {
	case payload.ScoreSubmission:
		body, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("encode score payload: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/scores", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil

	case payload.LeaderboardRead:
		target := fmt.Sprintf("%s/games/%d/leaders", base, s.GameID)
		query := url.Values{}
		query.Set("limit", strconv.Itoa(s.Limit))
		if s.Window != "" {
			query.Set("window", s.Window)
		}
		return http.NewRequestWithContext(ctx, http.MethodGet, target+"?"+query.Encode(), nil)

	case payload.RankRead:
		target := fmt.Sprintf("%s/games/%d/users/%d/rank", base, s.GameID, s.UserID)
		if s.Window != "" {
			query := url.Values{}
			query.Set("window", s.Window)
			target += "?" + query.Encode()
		}
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)

	default:
		return nil, fmt.Errorf("unsupported request spec %T", spec)
	}
}

// statusError builds the error message for an unexpected status. When the
// body is JSON the service's own error or message field is surfaced.
func statusError(code int, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, field := range []string{"message", "error"} {
			if value := gjson.GetBytes(body, field); value.Type == gjson.String && value.Str != "" {
				return fmt.Sprintf("unexpected status %d: %s", code, value.Str)
			}
		}
	}
	return fmt.Sprintf("unexpected status %d", code)
}

// snippet keeps the first snippetLimit characters, never splitting a rune.
func snippet(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= snippetLimit {
		return text
	}
	runes := []rune(text)
	if len(runes) > snippetLimit {
		runes = runes[:snippetLimit]
	}
	return string(runes)
}
