// Package scenario drives named load scenarios end to end: payload
// generation, concurrent dispatch, aggregation, and the zero-failure
// assertion for gated runs.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ringgrank/rankbench/internal/batch"
	"github.com/ringgrank/rankbench/internal/metrics"
	"github.com/ringgrank/rankbench/internal/output"
	"github.com/ringgrank/rankbench/internal/payload"
	"github.com/ringgrank/rankbench/internal/tracing"
)

// Kind selects which request variant a scenario generates.
type Kind string

const (
	KindScore   Kind = "score"
	KindLeaders Kind = "leaders"
	KindRank    Kind = "rank"
)

// ErrAssertionFailed marks a scenario whose zero-failure assertion did not
// hold. It is the only error a completed run propagates.
var ErrAssertionFailed = errors.New("scenario assertion failed")

// Scenario is a named run configuration.
type Scenario struct {
	Name        string `yaml:"name"`
	Kind        Kind   `yaml:"kind"`
	Count       int    `yaml:"count"`
	FailOnError bool   `yaml:"fail_on_error"`
}

// Validate rejects scenarios the driver cannot run.
func (s Scenario) Validate() error {
	switch s.Kind {
	case KindScore, KindLeaders, KindRank:
	default:
		return fmt.Errorf("unknown scenario kind %q: use score, leaders, or rank", s.Kind)
	}
	if s.Count <= 0 {
		return fmt.Errorf("scenario %q: count must be positive, got %d", s.displayName(), s.Count)
	}
	return nil
}

func (s Scenario) displayName() string {
	if s.Name != "" {
		return s.Name
	}
	return string(s.Kind)
}

func (s Scenario) expectedStatus() int {
	if s.Kind == KindScore {
		return http.StatusAccepted
	}
	return http.StatusOK
}

// Driver runs scenarios against one target through a shared HTTP client.
type Driver struct {
	Client    *http.Client
	BaseURL   string
	Generator *payload.Generator
	Batch     batch.Options

	Logger *zap.Logger  // optional; logs each failed request when set
	Tracer trace.Tracer // optional; nil means no spans

	// ProgressWriter, when set, receives a live progress line while the
	// batch is in flight.
	ProgressWriter   io.Writer
	ProgressInterval time.Duration
}

// Run executes one scenario and returns its report. The returned error is
// non-nil only for an invalid scenario or a failed zero-failure assertion;
// individual request failures are reflected in the report instead.
func (d *Driver) Run(ctx context.Context, sc Scenario) (metrics.Report, error) {
	if err := sc.Validate(); err != nil {
		return metrics.Report{}, err
	}

	specs := d.generate(sc)

	tracer := d.Tracer
	if tracer == nil {
		tracer = (*tracing.Provider)(nil).Tracer()
	}
	ctx, span := tracing.StartScenarioSpan(ctx, tracer, sc.displayName(), len(specs))

	orch := batch.New(d.Client, d.BaseURL, d.Batch)

	if d.ProgressWriter != nil {
		interval := d.ProgressInterval
		if interval <= 0 {
			interval = time.Second
		}
		progress := output.NewProgressReporter(orch.Progress, interval, d.ProgressWriter)
		progress.Start()
		defer func() {
			progress.Stop()
			fmt.Fprintln(d.ProgressWriter)
		}()
	}

	result := orch.Run(ctx, specs)

	report := metrics.Summarize(result, sc.expectedStatus())
	report.RunID = ulid.Make().String()
	report.Scenario = sc.displayName()

	d.logFailures(sc, result)

	var err error
	if sc.FailOnError && report.FailureCount > 0 {
		err = fmt.Errorf("%w: %s: %d of %d requests failed",
			ErrAssertionFailed, sc.displayName(), report.FailureCount, len(specs))
	}

	tracing.EndSpan(span, err,
		attribute.Int("rankbench.successes", report.SuccessCount),
		attribute.Int("rankbench.failures", report.FailureCount),
		attribute.Float64("rankbench.requests_per_sec", report.RequestsPerSecond),
	)

	return report, err
}

func (d *Driver) generate(sc Scenario) []payload.Spec {
	switch sc.Kind {
	case KindScore:
		return d.Generator.ScoreBatch(sc.Count)
	case KindLeaders:
		return d.Generator.LeaderBatch(sc.Count)
	default:
		return d.Generator.RankBatch(sc.Count)
	}
}

func (d *Driver) logFailures(sc Scenario, result batch.Result) {
	if d.Logger == nil {
		return
	}
	for _, out := range result.Outcomes {
		if out.Succeeded {
			continue
		}
		d.Logger.Warn("request failed",
			zap.String("scenario", sc.displayName()),
			zap.Int("status", out.StatusCode),
			zap.String("error", out.Err),
			zap.String("body", out.BodySnippet),
		)
	}
}
