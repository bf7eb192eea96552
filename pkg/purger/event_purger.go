package purger

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fabito/boundary-purger/pkg/boundary"
	"github.com/fabito/boundary-purger/pkg/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrNotConverged is returned when the events endpoint still reports events
// after the configured iteration or time bound.
var ErrNotConverged = errors.New("events did not converge to zero")

// EventService is the part of the Boundary API the purge needs
type EventService interface {
	ListEvents(ctx context.Context) (*boundary.EventPage, error)
	DeleteEvent(ctx context.Context, id string) (int, error)
}

// Options tunes a purge. Zero MaxIterations or MaxDuration disables that bound.
type Options struct {
	MaxIterations int
	MaxDuration   time.Duration
	DryRun        bool
	// Out receives the per-batch count and per-event confirmation lines
	Out io.Writer
}

// DeleteOutcome is the result of one delete call
type DeleteOutcome struct {
	ID         string
	StatusCode int
	Err        error
}

// Succeeded reports whether the event was deleted
func (o DeleteOutcome) Succeeded() bool {
	return o.Err == nil
}

// PurgeResult details and metrics about the purge operation
type PurgeResult struct {
	PageCount    int64
	InitialTotal int64
	LastTotal    int64
	DeletedCount int64
	FailedCount  int64
	Outcomes     []DeleteOutcome
	StartTime    time.Time
	EndTime      time.Time
}

// Failures returns the outcomes of the deletes that failed, in call order
func (r PurgeResult) Failures() []DeleteOutcome {
	failed := make([]DeleteOutcome, 0, r.FailedCount)
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}

func (r PurgeResult) String() string {
	return fmt.Sprintf("%s page(s) fetched, %s event(s) deleted, %s failed, %s remaining, took %s",
		humanize.Comma(r.PageCount),
		humanize.Comma(r.DeletedCount),
		humanize.Comma(r.FailedCount),
		humanize.Comma(r.LastTotal),
		r.EndTime.Sub(r.StartTime).Round(time.Millisecond))
}

// EventPurger purges events from a Boundary organization
type EventPurger interface {
	PurgeEvents(ctx context.Context) (PurgeResult, error)
}

// DefaultEventPurger deletes events one by one until the API reports none left
type DefaultEventPurger struct {
	service EventService
	opts    Options
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewEventPurger creates a new DefaultEventPurger
func NewEventPurger(service EventService, opts Options) *DefaultEventPurger {
	if opts.Out == nil {
		opts.Out = ioutil.Discard
	}
	return &DefaultEventPurger{
		service: service,
		opts:    opts,
		metrics: metrics.NewMetrics(),
		now:     time.Now,
	}
}

// Metrics exposes the counters collected by the purger
func (d *DefaultEventPurger) Metrics() *metrics.Metrics {
	return d.metrics
}

// PurgeEvents fetches the events page, deletes every event on it, and
// re-fetches until the page reports a total of zero. A fetch error ends the
// purge immediately; delete errors are recorded and the loop goes on.
func (d *DefaultEventPurger) PurgeEvents(ctx context.Context) (PurgeResult, error) {
	result := PurgeResult{StartTime: d.now()}

	page, err := d.fetch(ctx, &result)
	if err != nil {
		result.EndTime = d.now()
		return result, err
	}
	result.InitialTotal = page.Total

	if d.opts.DryRun {
		d.listPage(page)
		result.EndTime = d.now()
		return result, nil
	}

	for iteration := 0; page.Total > 0; iteration++ {
		if err := d.checkBounds(ctx, iteration, result.StartTime, page.Total); err != nil {
			result.EndTime = d.now()
			return result, err
		}

		if len(page.Results) == 0 {
			log.Warnf("Page reports %d event(s) but returned none", page.Total)
		}
		for _, event := range page.Results {
			if err := ctx.Err(); err != nil {
				result.EndTime = d.now()
				return result, err
			}
			d.recordOutcome(&result, d.delete(ctx, event.ID.String()))
		}

		page, err = d.fetch(ctx, &result)
		if err != nil {
			result.EndTime = d.now()
			return result, err
		}
	}

	result.EndTime = d.now()
	return result, nil
}

func (d *DefaultEventPurger) checkBounds(ctx context.Context, iteration int, start time.Time, remaining int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.opts.MaxIterations > 0 && iteration >= d.opts.MaxIterations {
		return errors.Wrapf(ErrNotConverged, "%d event(s) remaining after %d iteration(s)", remaining, iteration)
	}
	if d.opts.MaxDuration > 0 {
		if elapsed := d.now().Sub(start); elapsed > d.opts.MaxDuration {
			return errors.Wrapf(ErrNotConverged, "%d event(s) remaining after %s", remaining, elapsed.Round(time.Second))
		}
	}
	return nil
}

func (d *DefaultEventPurger) fetch(ctx context.Context, result *PurgeResult) (*boundary.EventPage, error) {
	start := time.Now()
	page, err := d.service.ListEvents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching events")
	}
	d.metrics.RegisterPageFetch(start)
	result.PageCount++
	result.LastTotal = page.Total
	fmt.Fprintf(d.opts.Out, "Event count: %d\n", page.Total)
	log.Debugf("Fetched page with total=%d results=%d", page.Total, len(page.Results))
	return page, nil
}

func (d *DefaultEventPurger) delete(ctx context.Context, id string) DeleteOutcome {
	start := time.Now()
	d.metrics.RegisterDeleteAttempt()
	status, err := d.service.DeleteEvent(ctx, id)
	d.metrics.RegisterDeleteDurationSince(start)
	return DeleteOutcome{ID: id, StatusCode: status, Err: err}
}

func (d *DefaultEventPurger) recordOutcome(result *PurgeResult, outcome DeleteOutcome) {
	result.Outcomes = append(result.Outcomes, outcome)
	if outcome.Succeeded() {
		d.metrics.RegisterDeleteSuccess()
		result.DeletedCount++
		fmt.Fprintf(d.opts.Out, "Deleted event %s\n", outcome.ID)
		return
	}
	d.metrics.RegisterDeleteFailed()
	result.FailedCount++
	fmt.Fprintf(d.opts.Out, "Failed to delete event %s: %v\n", outcome.ID, outcome.Err)
	log.Warnf("Delete of event %s failed: %v", outcome.ID, outcome.Err)
}

func (d *DefaultEventPurger) listPage(page *boundary.EventPage) {
	for _, event := range page.Results {
		fmt.Fprintf(d.opts.Out, "Would delete event %s\n", event.ID)
	}
}
