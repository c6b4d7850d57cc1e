package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ringgrank/rankbench/internal/metrics"
	"github.com/ringgrank/rankbench/internal/output"
)

func sampleReport() metrics.Report {
	return metrics.Report{
		RunID:             "01JD0000000000000000000000",
		Scenario:          "Score Ingestion",
		SuccessCount:      9998,
		FailureCount:      2,
		Duration:          4 * time.Second,
		DurationSeconds:   4.0,
		RequestsPerSecond: 2499.5,
		AverageLatency:    12 * time.Millisecond,
		AverageLatencyMs:  12.4,
		Errors:            map[string]int{"Unexpected status": 2},
		StatusBuckets:     map[string]int{"500": 2},
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	output.PrintReport(&buf, sampleReport())
	text := buf.String()

	for _, want := range []string{
		"--- Score Ingestion Results ---",
		"Total time:          4.00s",
		"Successful requests: 9998",
		"Failed requests:     2",
		"Requests per second: 2499.50",
		"Average latency:     12ms",
		"500: 2",
		"Unexpected status: 2",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("report missing %q:\n%s", want, text)
		}
	}
}

func TestPrintReportOmitsEmptySections(t *testing.T) {
	var buf bytes.Buffer
	output.PrintReport(&buf, metrics.Report{Scenario: "Leaders Read", SuccessCount: 5})
	text := buf.String()
	if strings.Contains(text, "Failure Breakdown") || strings.Contains(text, "Status Buckets") {
		t.Fatalf("expected no failure sections for clean run:\n%s", text)
	}
	if strings.Contains(text, "Run ID") {
		t.Fatalf("expected no run id line when unset:\n%s", text)
	}
}

func TestPrintJSONReport(t *testing.T) {
	var buf bytes.Buffer
	if err := output.PrintJSONReport(&buf, sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["successes"].(float64) != 9998 {
		t.Fatalf("unexpected successes: %v", decoded["successes"])
	}
	if decoded["scenario"].(string) != "Score Ingestion" {
		t.Fatalf("unexpected scenario: %v", decoded["scenario"])
	}
	if _, ok := decoded["avg_latency_ms"]; !ok {
		t.Fatal("missing avg_latency_ms field")
	}
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	var completed atomic.Int64
	completed.Store(3)

	reporter := output.NewProgressReporter(func() (int64, int64, int64) {
		return completed.Load(), 1, 10
	}, time.Millisecond, &buf)

	reporter.Start()
	time.Sleep(20 * time.Millisecond)
	reporter.Stop()

	if !strings.Contains(buf.String(), "Requests: 3/10 | Failures: 1") {
		t.Fatalf("unexpected progress output: %q", buf.String())
	}

	// Stop is idempotent.
	reporter.Stop()
}
