// Package batch coordinates the concurrent execution of a fixed set of
// request specs: fan out, collect one outcome per spec, join.
package batch

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/ringgrank/rankbench/internal/executor"
	"github.com/ringgrank/rankbench/internal/payload"
)

// DefaultTimeout bounds a whole batch when no explicit timeout is configured.
const DefaultTimeout = 30 * time.Second

// Options configure an Orchestrator.
type Options struct {
	Limit          int                         // max in-flight executions; 0 means unbounded fan-out
	Rate           int                         // dispatch pacing in requests per second; 0 dispatches all at once
	Timeout        time.Duration               // overall batch deadline; 0 uses DefaultTimeout
	LimiterFactory func(rps int) *rate.Limiter // optional injection for tests
}

func (o *Options) normalize() {
	if o.Limit < 0 {
		o.Limit = 0
	}
	if o.Rate < 0 {
		o.Rate = 0
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(rps int) *rate.Limiter {
			// Burst equal to rps to smooth pacing under concurrency.
			return rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// Result holds exactly one outcome per dispatched spec plus batch timing.
// Outcome order matches spec order because each execution writes its own
// slot; aggregation does not depend on it.
type Result struct {
	Outcomes   []executor.Outcome
	StartedAt  time.Time
	FinishedAt time.Time
}

// Orchestrator fans a batch of specs out over concurrent executions and
// joins on their outcomes. It holds no state between runs beyond the shared
// HTTP client.
type Orchestrator struct {
	client  *http.Client
	baseURL string
	opt     Options

	completed atomic.Int64
	failed    atomic.Int64
	total     atomic.Int64
}

func New(client *http.Client, baseURL string, opt Options) *Orchestrator {
	opt.normalize()
	return &Orchestrator{client: client, baseURL: baseURL, opt: opt}
}

// Progress reports how many executions have completed and failed so far,
// plus the batch size. Safe to call from another goroutine while Run is
// in flight.
func (o *Orchestrator) Progress() (completed, failed, total int64) {
	return o.completed.Load(), o.failed.Load(), o.total.Load()
}

type indexedOutcome struct {
	idx int
	out executor.Outcome
}

// Run dispatches every spec concurrently and waits until each has produced
// an outcome or the batch deadline expires. No execution's failure aborts
// the batch; specs still pending at the deadline are recorded as failed
// outcomes so that exactly one outcome exists per spec.
func (o *Orchestrator) Run(ctx context.Context, specs []payload.Spec) Result {
	o.completed.Store(0)
	o.failed.Store(0)
	o.total.Store(int64(len(specs)))

	ctx, cancel := context.WithTimeout(ctx, o.opt.Timeout)
	defer cancel()

	var permits chan struct{}
	if o.opt.Limit > 0 {
		permits = make(chan struct{}, o.opt.Limit)
	}
	var limiter *rate.Limiter
	if o.opt.Rate > 0 {
		limiter = o.opt.LimiterFactory(o.opt.Rate)
	}

	// Buffered to batch size so late executions never block on send after
	// the join has returned.
	results := make(chan indexedOutcome, len(specs))

	startedAt := time.Now()
	for i, spec := range specs {
		go func(idx int, spec payload.Spec) {
			if permits != nil {
				select {
				case permits <- struct{}{}:
					defer func() { <-permits }()
				case <-ctx.Done():
					results <- indexedOutcome{idx, abandonedOutcome(ctx)}
					return
				}
			}
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					results <- indexedOutcome{idx, abandonedOutcome(ctx)}
					return
				}
			}
			results <- indexedOutcome{idx, executor.Execute(ctx, o.client, o.baseURL, spec)}
		}(i, spec)
	}

	outcomes := make([]executor.Outcome, len(specs))
	filled := make([]bool, len(specs))
	pending := len(specs)

	for pending > 0 {
		select {
		case r := <-results:
			outcomes[r.idx] = r.out
			filled[r.idx] = true
			pending--
			o.completed.Add(1)
			if !r.out.Succeeded {
				o.failed.Add(1)
			}
		case <-ctx.Done():
			// Deadline hit: record every still-pending spec as a timeout
			// failure rather than blocking on stragglers. Their goroutines
			// finish into the buffered channel and are discarded.
			for idx := range outcomes {
				if !filled[idx] {
					outcomes[idx] = abandonedOutcome(ctx)
					filled[idx] = true
					pending--
					o.completed.Add(1)
					o.failed.Add(1)
				}
			}
		}
	}

	return Result{
		Outcomes:   outcomes,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}
}

// abandonedOutcome records a spec the batch gave up on, naming whether the
// deadline expired or the run was canceled from outside.
func abandonedOutcome(ctx context.Context) executor.Outcome {
	err := ctx.Err()
	switch {
	case errors.Is(err, context.Canceled):
		return executor.Outcome{Err: "batch canceled: " + err.Error()}
	case err != nil:
		return executor.Outcome{Err: "batch timeout: " + err.Error()}
	default:
		return executor.Outcome{Err: "batch timeout"}
	}
}
