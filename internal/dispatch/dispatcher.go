// Package dispatch runs a search submission from input to rendered state.
package dispatch

import (
	"context"
	"errors"

	"golang.org/x/time/rate"

	"github.com/pders01/srch/internal/aggregate"
	"github.com/pders01/srch/internal/api"
	"github.com/pders01/srch/internal/chart"
	"github.com/pders01/srch/internal/debuglog"
	"github.com/pders01/srch/internal/render"
	"github.com/pders01/srch/internal/state"
	"github.com/pders01/srch/internal/validation"
)

// Flow parameterizes a submission. Every caller goes through the same
// Dispatcher; only the Flow differs between deployments.
type Flow struct {
	Endpoint       string
	MaxArticles    int
	ChartsEnabled  bool
	TimeRange      string
	IncludeSources []string
	ExcludeSources []string
}

// Searcher performs the network call.
type Searcher interface {
	Search(ctx context.Context, q api.Query) (*api.SearchResponse, error)
}

// Recorder receives every resolved submission.
type Recorder interface {
	Record(query string, ok bool) error
}

// Ticket identifies one submission.
type Ticket struct {
	Seq   uint64
	Query api.Query
}

// Outcome is the result of running a ticket. Exactly one of Response and
// Err is set.
type Outcome struct {
	Seq      uint64
	Query    api.Query
	Response *api.SearchResponse
	Err      error
}

type Dispatcher struct {
	searcher Searcher
	ctrl     *state.Controller
	charts   *chart.Manager
	flow     Flow
	limiter  *rate.Limiter
	recorder Recorder
}

type Option func(*Dispatcher)

// WithRateLimit spaces outbound requests. A zero limit disables throttling.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(d *Dispatcher) {
		if perSecond <= 0 {
			d.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		d.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// New wires a dispatcher. charts may be nil, in which case no charts are
// drawn regardless of flow.ChartsEnabled.
func New(searcher Searcher, ctrl *state.Controller, charts *chart.Manager, flow Flow, opts ...Option) *Dispatcher {
	flow.MaxArticles = validation.ClampArticles(flow.MaxArticles)
	d := &Dispatcher{
		searcher: searcher,
		ctrl:     ctrl,
		charts:   charts,
		flow:     flow,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Flow() Flow { return d.flow }

func (d *Dispatcher) Controller() *state.Controller { return d.ctrl }

// Begin collapses whitespace in text and moves the controller to Loading.
// The query is otherwise sent as typed; the service decides whether it is
// acceptable.
func (d *Dispatcher) Begin(text string) Ticket {
	q := validation.NormalizeQuery(text)

	seq := d.ctrl.Submit()
	debuglog.WithFields(map[string]interface{}{
		"seq":   seq,
		"query": q,
	}).Debug("search submitted")

	return Ticket{
		Seq: seq,
		Query: api.Query{
			Text:           q,
			MaxArticles:    d.flow.MaxArticles,
			TimeRange:      d.flow.TimeRange,
			IncludeSources: d.flow.IncludeSources,
			ExcludeSources: d.flow.ExcludeSources,
		},
	}
}

// Run performs the request for t. It does not touch UI state and may run
// on any goroutine.
func (d *Dispatcher) Run(ctx context.Context, t Ticket) Outcome {
	out := Outcome{Seq: t.Seq, Query: t.Query}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			out.Err = &api.NetworkError{Err: err}
			return out
		}
	}

	resp, err := d.searcher.Search(ctx, t.Query)
	switch {
	case err != nil:
		out.Err = err
	case resp == nil:
		out.Err = &api.MalformedResponseError{Reason: "empty response"}
	default:
		out.Response = resp
	}
	return out
}

// Resolve applies o to the controller. It returns false when a newer
// submission has been issued since o's ticket; the outcome is then dropped
// without touching results, error text or charts.
func (d *Dispatcher) Resolve(o Outcome) bool {
	if o.Err == nil && o.Response == nil {
		o.Err = &api.MalformedResponseError{Reason: "empty response"}
	}
	d.record(o)

	if o.Err != nil {
		applied := d.ctrl.Fail(o.Seq, render.SingleLine(api.DisplayMessage(o.Err)))
		d.logOutcome(o, applied)
		return applied
	}

	view := render.Build(o.Response)
	applied := d.ctrl.Succeed(o.Seq, view, func() { d.drawCharts(o.Response) })
	d.logOutcome(o, applied)
	return applied
}

// Submit runs a whole cycle synchronously. The boolean reports whether the
// outcome was applied.
func (d *Dispatcher) Submit(ctx context.Context, text string) (Outcome, bool) {
	o := d.Run(ctx, d.Begin(text))
	return o, d.Resolve(o)
}

func (d *Dispatcher) drawCharts(resp *api.SearchResponse) {
	if !d.flow.ChartsEnabled || d.charts == nil || resp == nil || resp.Visualization == nil {
		return
	}
	vis := resp.Visualization

	if err := d.charts.Render(chart.SlotSources, chart.Spec{
		Title:  "Source Breakdown",
		Series: aggregate.Sources(vis.SourceBreakdown),
		Unit:   "%",
	}); err != nil {
		debuglog.Warnf("source chart: %v", err)
	}

	if err := d.charts.Render(chart.SlotTimeline, chart.Spec{
		Title:  "Timeline",
		Series: aggregate.TimelineSeries(aggregate.Timeline(vis.Timeline)),
	}); err != nil {
		debuglog.Warnf("timeline chart: %v", err)
	}
}

func (d *Dispatcher) record(o Outcome) {
	if d.recorder == nil {
		return
	}
	if err := d.recorder.Record(o.Query.Text, o.Err == nil); err != nil {
		debuglog.Warnf("recording history: %v", err)
	}
}

func (d *Dispatcher) logOutcome(o Outcome, applied bool) {
	fields := map[string]interface{}{
		"seq":     o.Seq,
		"applied": applied,
	}
	if o.Err != nil {
		fields["error"] = o.Err.Error()
		var svc *api.ServiceError
		if errors.As(o.Err, &svc) {
			fields["status"] = svc.Status
		}
		debuglog.WithFields(fields).Warn("search failed")
		return
	}
	if o.Response != nil {
		fields["articles"] = o.Response.ArticlesProcessed
	}
	debuglog.WithFields(fields).Debug("search resolved")
}
