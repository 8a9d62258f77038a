// Package monitor runs the poll → parse → render cycle.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/claesbert/PlexAmpCliStatus/internal/session"
)

// Fetcher returns the raw sessions document.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// ExtractFunc turns a sessions document into a snapshot.
type ExtractFunc func(body string) (*session.Snapshot, error)

// Renderer draws one complete frame per call.
type Renderer interface {
	Dashboard(snap *session.Snapshot) error
	Empty() error
	Failure(err error) error
}

// Clock suspends the loop between cycles.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock sleeps on the wall clock and wakes early when ctx is done.
type RealClock struct{}

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Outcome classifies how a cycle ended.
type Outcome int

const (
	OutcomeRendered Outcome = iota
	OutcomeEmpty
	OutcomeFetchFailed
	OutcomeParseFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRendered:
		return "rendered"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFetchFailed:
		return "fetch failed"
	case OutcomeParseFailed:
		return "parse failed"
	default:
		return "unknown"
	}
}

// Result describes one finished cycle.
type Result struct {
	Outcome  Outcome
	Snapshot *session.Snapshot
	Err      error
	Latency  time.Duration
}

// Options configures a Loop. Fetcher, Extract and Renderer are required.
type Options struct {
	Fetcher  Fetcher
	Extract  ExtractFunc
	Renderer Renderer
	Clock    Clock
	Interval time.Duration
	// Filter, when set, narrows the snapshot to matching device names.
	Filter string
	Logger *slog.Logger
	// OnCycle observes every finished cycle.
	OnCycle func(Result)
}

// Loop repeats the cycle at a fixed interval. Every failure is treated the
// same way: show it, wait one interval, try again. Nothing carries over
// between cycles.
type Loop struct {
	opts Options
}

func New(opts Options) *Loop {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{opts: opts}
}

// Cycle runs one fetch → parse → render pass. A cycle interrupted by ctx
// ending is returned but not drawn.
func (l *Loop) Cycle(ctx context.Context) Result {
	res := Evaluate(ctx, l.opts.Fetcher, l.opts.Extract, l.opts.Filter)
	if ctx.Err() != nil {
		l.opts.Logger.Debug("cycle interrupted", slog.Any("err", res.Err))
		return res
	}
	var renderErr error
	switch res.Outcome {
	case OutcomeRendered:
		renderErr = l.opts.Renderer.Dashboard(res.Snapshot)
	case OutcomeEmpty:
		renderErr = l.opts.Renderer.Empty()
	default:
		renderErr = l.opts.Renderer.Failure(res.Err)
	}
	if renderErr != nil {
		l.opts.Logger.Error("render", slog.Any("err", renderErr))
	}

	log := l.opts.Logger.With(slog.String("outcome", res.Outcome.String()), slog.Duration("latency", res.Latency))
	if res.Err != nil {
		log.Warn("cycle failed", slog.Any("err", res.Err))
	} else {
		log.Debug("cycle complete", slog.Int("devices", res.Snapshot.Len()), slog.Int("tracks", res.Snapshot.TrackCount()))
	}
	if l.opts.OnCycle != nil {
		l.opts.OnCycle(res)
	}
	return res
}

// Run cycles until ctx is done. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	return l.run(ctx, -1)
}

// RunN runs exactly n cycles (fewer if ctx ends first), sleeping between them
// but not after the last one.
func (l *Loop) RunN(ctx context.Context, n int) error {
	return l.run(ctx, n)
}

func (l *Loop) run(ctx context.Context, n int) error {
	l.opts.Logger.Info("poll loop started", slog.Duration("interval", l.opts.Interval))
	for i := 0; n < 0 || i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Cycle(ctx)
		if n >= 0 && i == n-1 {
			break
		}
		if err := l.opts.Clock.Sleep(ctx, l.opts.Interval); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate fetches and extracts one snapshot without rendering it. Empty
// bodies count as fetch failures.
func Evaluate(ctx context.Context, f Fetcher, extract ExtractFunc, filter string) Result {
	start := time.Now()
	body, err := f.Fetch(ctx)
	if err == nil && body == "" {
		err = errEmptyBody
	}
	if err != nil {
		return Result{Outcome: OutcomeFetchFailed, Err: err, Latency: time.Since(start)}
	}
	snap, err := extract(body)
	latency := time.Since(start)
	if err != nil {
		return Result{Outcome: OutcomeParseFailed, Err: err, Latency: latency}
	}
	snap = session.Filter(snap, filter)
	if snap.Empty() {
		return Result{Outcome: OutcomeEmpty, Snapshot: snap, Latency: latency}
	}
	return Result{Outcome: OutcomeRendered, Snapshot: snap, Latency: latency}
}

var errEmptyBody = errors.New("empty response body")
