// Package metrics reduces collected batch outcomes into summary reports.
package metrics

import (
	"time"

	"github.com/ringgrank/rankbench/internal/batch"
)

// Report is the read-only summary derived from one batch run.
type Report struct {
	RunID    string `json:"run_id,omitempty"`
	Scenario string `json:"scenario,omitempty"`

	SuccessCount int `json:"successes"`
	FailureCount int `json:"failures"`

	Duration       time.Duration `json:"-"`
	AverageLatency time.Duration `json:"-"`

	// JSON-friendly derived fields.
	DurationSeconds   float64 `json:"duration_seconds"`
	RequestsPerSecond float64 `json:"requests_per_sec"`
	AverageLatencyMs  float64 `json:"avg_latency_ms"`

	// Diagnostics: failure counts keyed by error category and by status code.
	Errors        map[string]int `json:"errors,omitempty"`
	StatusBuckets map[string]int `json:"status_buckets,omitempty"`
}

// Summarize reduces a batch result into a Report. It is pure and
// deterministic: calling it twice on the same result yields identical
// reports, and the result is never mutated or re-executed.
//
// An outcome counts as a success iff its status code equals expectedStatus
// and it carries no error; an absent status (transport failure) or an error
// recorded after the response, such as a body read failure, always counts as
// a failure. Derived rates default to zero when their denominators are zero,
// so an empty success set or a clock anomaly never fails the aggregation.
func Summarize(result batch.Result, expectedStatus int) Report {
	report := Report{
		Duration: result.FinishedAt.Sub(result.StartedAt),
	}

	var latencySum time.Duration
	for _, out := range result.Outcomes {
		if out.StatusCode == expectedStatus && out.Err == "" {
			report.SuccessCount++
			latencySum += out.Elapsed
			continue
		}
		report.FailureCount++
		addBucket(&report, out.StatusCode)
		failed := out
		failed.Succeeded = false
		addError(&report, Categorize(failed))
	}

	report.DurationSeconds = report.Duration.Seconds()
	if report.Duration > 0 {
		report.RequestsPerSecond = float64(report.SuccessCount) / report.Duration.Seconds()
	}
	if report.SuccessCount > 0 {
		report.AverageLatency = latencySum / time.Duration(report.SuccessCount)
	}
	report.AverageLatencyMs = float64(report.AverageLatency) / float64(time.Millisecond)

	return report
}

func addBucket(report *Report, status int) {
	if report.StatusBuckets == nil {
		report.StatusBuckets = make(map[string]int)
	}
	report.StatusBuckets[bucketKey(status)]++
}

func addError(report *Report, category string) {
	if category == "" {
		return
	}
	if report.Errors == nil {
		report.Errors = make(map[string]int)
	}
	report.Errors[category]++
}
