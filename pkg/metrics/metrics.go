package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
)

// Metrics contains metrics for bnp.
type Metrics struct {
	metricsRegistry metrics.Registry
}

const (
	eventPageFetchTotal    = "event_page_fetch_total"
	eventPageFetchDuration = "event_page_fetch_duration"
	eventDeleteTotal       = "event_delete_total"
	eventDeleteSuccess     = "event_delete_success_total"
	eventDeleteFailure     = "event_delete_failure_total"
	eventDeleteDuration    = "event_delete_duration"
	eventCreateSuccess     = "event_create_success_total"
	eventCreateFailure     = "event_create_failure_total"
	eventCreateRate        = "event_create_rate"
	meterDeleteSuccess     = "meter_delete_success_total"
	meterDeleteFailure     = "meter_delete_failure_total"
)

// NewMetrics creates a Metrics backed by its own registry, so that separate
// runs in the same process do not share counts.
func NewMetrics() *Metrics {
	r := metrics.NewRegistry()
	r.Register(eventPageFetchTotal, metrics.NewCounter())
	r.Register(eventPageFetchDuration, metrics.NewTimer())
	r.Register(eventDeleteTotal, metrics.NewCounter())
	r.Register(eventDeleteSuccess, metrics.NewCounter())
	r.Register(eventDeleteFailure, metrics.NewCounter())
	r.Register(eventDeleteDuration, metrics.NewTimer())
	r.Register(eventCreateSuccess, metrics.NewCounter())
	r.Register(eventCreateFailure, metrics.NewCounter())
	r.Register(eventCreateRate, metrics.NewMeter())
	r.Register(meterDeleteSuccess, metrics.NewCounter())
	r.Register(meterDeleteFailure, metrics.NewCounter())

	return &Metrics{
		metricsRegistry: r,
	}
}

func (m *Metrics) inc(name string) {
	if c, ok := m.metricsRegistry.Get(name).(metrics.Counter); ok {
		c.Inc(1)
	}
}

func (m *Metrics) count(name string) int64 {
	switch c := m.metricsRegistry.Get(name).(type) {
	case metrics.Counter:
		return c.Count()
	case metrics.Timer:
		return c.Count()
	case metrics.Meter:
		return c.Count()
	}
	return 0
}

func (m *Metrics) updateSince(name string, start time.Time) {
	if t, ok := m.metricsRegistry.Get(name).(metrics.Timer); ok {
		t.UpdateSince(start)
	}
}

// RegisterPageFetch records one fetch of the events page
func (m *Metrics) RegisterPageFetch(start time.Time) {
	m.inc(eventPageFetchTotal)
	m.updateSince(eventPageFetchDuration, start)
}

// RegisterDeleteAttempt
func (m *Metrics) RegisterDeleteAttempt() {
	m.inc(eventDeleteTotal)
}

// RegisterDeleteSuccess
func (m *Metrics) RegisterDeleteSuccess() {
	m.inc(eventDeleteSuccess)
}

// RegisterDeleteFailed
func (m *Metrics) RegisterDeleteFailed() {
	m.inc(eventDeleteFailure)
}

// RegisterDeleteDurationSince updates duration since start time
func (m *Metrics) RegisterDeleteDurationSince(start time.Time) {
	m.updateSince(eventDeleteDuration, start)
}

// RegisterCreateSuccess
func (m *Metrics) RegisterCreateSuccess() {
	m.inc(eventCreateSuccess)
	if mt, ok := m.metricsRegistry.Get(eventCreateRate).(metrics.Meter); ok {
		mt.Mark(1)
	}
}

// RegisterCreateFailed
func (m *Metrics) RegisterCreateFailed() {
	m.inc(eventCreateFailure)
}

// RegisterMeterDelete counts one meter delete by its outcome
func (m *Metrics) RegisterMeterDelete(ok bool) {
	if ok {
		m.inc(meterDeleteSuccess)
		return
	}
	m.inc(meterDeleteFailure)
}

// PageFetches is the number of event pages fetched
func (m *Metrics) PageFetches() int64 { return m.count(eventPageFetchTotal) }

// DeleteAttempts is the number of delete calls issued
func (m *Metrics) DeleteAttempts() int64 { return m.count(eventDeleteTotal) }

// DeleteFailures is the number of delete calls that failed
func (m *Metrics) DeleteFailures() int64 { return m.count(eventDeleteFailure) }

// MeterDeletes is the number of meters deleted
func (m *Metrics) MeterDeletes() int64 { return m.count(meterDeleteSuccess) }

// CreateSuccesses is the number of events created
func (m *Metrics) CreateSuccesses() int64 { return m.count(eventCreateSuccess) }

func (m Metrics) String() string {
	scale := time.Millisecond
	du := float64(scale)
	duSuffix := scale.String()[1:]
	var b1 strings.Builder

	names := make([]string, 0)
	m.metricsRegistry.Each(func(name string, i interface{}) {
		names = append(names, name)
	})
	sort.Strings(names)

	for _, name := range names {
		switch metric := m.metricsRegistry.Get(name).(type) {
		case metrics.Counter:
			b1.WriteString(fmt.Sprintf("counter %s\n", name))
			b1.WriteString(fmt.Sprintf("  count:       %9d\n", metric.Count()))
		case metrics.Meter:
			s := metric.Snapshot()
			b1.WriteString(fmt.Sprintf("meter %s\n", name))
			b1.WriteString(fmt.Sprintf("  count:       %9d\n", s.Count()))
			b1.WriteString(fmt.Sprintf("  1-min rate:  %12.2f\n", s.Rate1()))
			b1.WriteString(fmt.Sprintf("  mean rate:   %12.2f\n", s.RateMean()))
		case metrics.Timer:
			t := metric.Snapshot()
			ps := t.Percentiles([]float64{0.5, 0.95, 0.99})
			b1.WriteString(fmt.Sprintf("timer %s\n", name))
			b1.WriteString(fmt.Sprintf("  count:       %9d\n", t.Count()))
			b1.WriteString(fmt.Sprintf("  min:         %12.2f%s\n", float64(t.Min())/du, duSuffix))
			b1.WriteString(fmt.Sprintf("  max:         %12.2f%s\n", float64(t.Max())/du, duSuffix))
			b1.WriteString(fmt.Sprintf("  mean:        %12.2f%s\n", t.Mean()/du, duSuffix))
			b1.WriteString(fmt.Sprintf("  median:      %12.2f%s\n", ps[0]/du, duSuffix))
			b1.WriteString(fmt.Sprintf("  95%%:         %12.2f%s\n", ps[1]/du, duSuffix))
			b1.WriteString(fmt.Sprintf("  99%%:         %12.2f%s\n", ps[2]/du, duSuffix))
		}
	}
	return b1.String()
}
