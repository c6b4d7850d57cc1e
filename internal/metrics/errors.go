package metrics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ringgrank/rankbench/internal/executor"
)

// Categorize maps a failed outcome onto a stable, human-friendly error
// category for the report's failure breakdown. Successful outcomes map to
// the empty string.
func Categorize(out executor.Outcome) string {
	if out.Succeeded {
		return ""
	}

	msg := strings.ToLower(out.Err)
	if out.StatusCode != 0 {
		// A response arrived; the failure is either the wrong status or an
		// error reading the body afterwards.
		if strings.Contains(msg, "read response body") {
			return "Transport error"
		}
		return "Unexpected status"
	}

	switch {
	case strings.Contains(msg, "context canceled"),
		strings.Contains(msg, "batch canceled"):
		return "Canceled"
	case strings.Contains(msg, "batch timeout"):
		return "Batch timeout"
	case strings.Contains(msg, "context deadline exceeded"),
		strings.Contains(msg, "client.timeout"),
		strings.Contains(msg, "timeout awaiting response"):
		return "Request timeout"
	case strings.Contains(msg, "connection refused"):
		return "Connection refused"
	case strings.Contains(msg, "connection reset"):
		return "Connection reset"
	case strings.Contains(msg, "no such host"),
		strings.Contains(msg, "server misbehaving"):
		return "DNS failure"
	default:
		return "Transport error"
	}
}

func bucketKey(status int) string {
	if status == 0 {
		return "none"
	}
	return strconv.Itoa(status)
}

// Bucket is one row of a status-code breakdown.
type Bucket struct {
	Code  string
	Count int
}

// FlattenBuckets converts a status bucket map into rows sorted by
// descending count, then code, for stable display.
func FlattenBuckets(buckets map[string]int) []Bucket {
	if len(buckets) == 0 {
		return nil
	}
	rows := make([]Bucket, 0, len(buckets))
	for code, count := range buckets {
		rows = append(rows, Bucket{Code: code, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Code < rows[j].Code
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}
