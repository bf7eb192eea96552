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

// MeterService is the part of the Boundary API the meter purge needs
type MeterService interface {
	ListMeters(ctx context.Context) ([]boundary.Meter, error)
	MeterStatuses(ctx context.Context) ([]boundary.MeterStatus, error)
	DeleteMeter(ctx context.Context, id string) (int, error)
	MeterURL(id string) string
}

// StaleMeter is a meter that has not been connected since the cutoff.
// A zero LastSeen means the API has no status for it.
type StaleMeter struct {
	Meter    boundary.Meter
	LastSeen time.Time
}

func (s StaleMeter) lastSeen() string {
	if s.LastSeen.IsZero() {
		return "unknown"
	}
	return s.LastSeen.Format(time.RFC3339)
}

// MeterSelection is the outcome of comparing the meters with their statuses
type MeterSelection struct {
	Cutoff         time.Time
	Connected      int
	ConnectedSince int
	Stale          []StaleMeter
}

// SelectStaleMeters keeps the meters whose observation domain has no status
// that is connected or newer than cutoff. Meters keep the order of the API.
func SelectStaleMeters(meters []boundary.Meter, statuses []boundary.MeterStatus, cutoff time.Time) MeterSelection {
	sel := MeterSelection{Cutoff: cutoff}
	cutoffMillis := cutoff.UnixNano() / int64(time.Millisecond)

	recent := make(map[boundary.ID]bool)
	lastSeen := make(map[boundary.ID]time.Time)
	for _, s := range statuses {
		if s.Connected {
			sel.Connected++
		}
		if s.Connected || s.EpochMillis >= cutoffMillis {
			sel.ConnectedSince++
			recent[s.ObservationDomainID] = true
		}
		if t := s.Time(); t.After(lastSeen[s.ObservationDomainID]) {
			lastSeen[s.ObservationDomainID] = t
		}
	}

	for _, m := range meters {
		if recent[m.ObsDomainID] {
			continue
		}
		sel.Stale = append(sel.Stale, StaleMeter{Meter: m, LastSeen: lastSeen[m.ObsDomainID]})
	}
	return sel
}

// MeterPurgeResult counts the meter deletes
type MeterPurgeResult struct {
	DeletedCount int64
	FailedCount  int64
	Outcomes     []DeleteOutcome
}

func (r MeterPurgeResult) String() string {
	return fmt.Sprintf("%s meter(s) deleted, %s failed",
		humanize.Comma(r.DeletedCount),
		humanize.Comma(r.FailedCount))
}

// MeterPurger finds and deletes meters that stopped reporting
type MeterPurger struct {
	service MeterService
	out     io.Writer
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewMeterPurger creates a MeterPurger reporting to out
func NewMeterPurger(service MeterService, out io.Writer) *MeterPurger {
	if out == nil {
		out = ioutil.Discard
	}
	return &MeterPurger{
		service: service,
		out:     out,
		metrics: metrics.NewMetrics(),
		now:     time.Now,
	}
}

// Metrics exposes the counters collected by the purger
func (p *MeterPurger) Metrics() *metrics.Metrics {
	return p.metrics
}

// FindStale lists the meters that have not been connected for at least since
// and prints them, one per line, after the connection counts.
func (p *MeterPurger) FindStale(ctx context.Context, since time.Duration) (MeterSelection, error) {
	meters, err := p.service.ListMeters(ctx)
	if err != nil {
		return MeterSelection{}, errors.Wrap(err, "fetching meters")
	}
	statuses, err := p.service.MeterStatuses(ctx)
	if err != nil {
		return MeterSelection{}, errors.Wrap(err, "fetching meter status")
	}
	log.Debugf("Fetched %d meter(s) and %d status row(s)", len(meters), len(statuses))

	sel := SelectStaleMeters(meters, statuses, p.now().Add(-since))
	fmt.Fprintf(p.out, "%d meters currently connected\n", sel.Connected)
	fmt.Fprintf(p.out, "%d meters connected since %s\n", sel.ConnectedSince, sel.Cutoff.Format(time.RFC3339))
	for _, s := range sel.Stale {
		fmt.Fprintf(p.out, "%s - %s - %s\n", s.Meter.Name, s.lastSeen(), p.service.MeterURL(s.Meter.ID.String()))
	}
	return sel, nil
}

// DeleteStale deletes the given meters in order. A failed delete is recorded
// and the next meter is tried; only cancellation stops the loop.
func (p *MeterPurger) DeleteStale(ctx context.Context, stale []StaleMeter) (MeterPurgeResult, error) {
	var result MeterPurgeResult
	for _, s := range stale {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		id := s.Meter.ID.String()
		status, err := p.service.DeleteMeter(ctx, id)
		outcome := DeleteOutcome{ID: id, StatusCode: status, Err: err}
		result.Outcomes = append(result.Outcomes, outcome)
		p.metrics.RegisterMeterDelete(outcome.Succeeded())

		if outcome.Succeeded() {
			result.DeletedCount++
			fmt.Fprintf(p.out, "Deleted meter %s (%s)\n", s.Meter.Name, id)
			continue
		}
		result.FailedCount++
		fmt.Fprintf(p.out, "Failed to delete meter %s (%s): %v\n", s.Meter.Name, id, err)
		log.Warnf("Delete of meter %s failed: %v", id, err)
	}
	return result, nil
}
