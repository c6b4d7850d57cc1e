// Package output renders scenario reports and live progress.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/ringgrank/rankbench/internal/metrics"
)

// PrintReport outputs a human-readable summary for one scenario run.
func PrintReport(w io.Writer, report metrics.Report) {
	title := report.Scenario
	if title == "" {
		title = "Scenario"
	}
	fmt.Fprintf(w, "\n--- %s Results ---\n", title)
	if report.RunID != "" {
		fmt.Fprintf(w, "Run ID:              %s\n", report.RunID)
	}
	fmt.Fprintf(w, "Total time:          %.2fs\n", report.DurationSeconds)
	fmt.Fprintf(w, "Successful requests: %d\n", report.SuccessCount)
	fmt.Fprintf(w, "Failed requests:     %d\n", report.FailureCount)
	fmt.Fprintf(w, "Requests per second: %.2f\n", report.RequestsPerSecond)
	fmt.Fprintf(w, "Average latency:     %dms\n", int64(report.AverageLatencyMs))

	if len(report.StatusBuckets) > 0 {
		fmt.Fprintln(w, "\nFailure Status Buckets:")
		for _, row := range metrics.FlattenBuckets(report.StatusBuckets) {
			fmt.Fprintf(w, "  %s: %d\n", row.Code, row.Count)
		}
	}

	if len(report.Errors) > 0 {
		fmt.Fprintln(w, "\nFailure Breakdown:")
		categories := make([]string, 0, len(report.Errors))
		for category := range report.Errors {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			fmt.Fprintf(w, "  %s: %d\n", category, report.Errors[category])
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, report metrics.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
