package populator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fabito/boundary-purger/pkg/boundary"
	"github.com/fabito/boundary-purger/pkg/metrics"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Title is set on every generated event
const Title = "bnp-populate"

// EventCreator creates a single event and returns its location
type EventCreator interface {
	CreateEvent(ctx context.Context, event boundary.Event) (string, error)
}

// PopulateResult counts the events created by a populate run
type PopulateResult struct {
	Created   int64
	Failed    int64
	Locations []string
	StartTime time.Time
	EndTime   time.Time
}

func (r PopulateResult) String() string {
	return fmt.Sprintf("%d event(s) created, %d failed in %s", r.Created, r.Failed, r.EndTime.Sub(r.StartTime).Round(time.Millisecond))
}

// EventPopulator fills an organization with dummy events so that a purge
// has something to delete.
type EventPopulator struct {
	creator    EventCreator
	numWorkers int
	hostname   string
	metrics    *metrics.Metrics
}

// NewEventPopulator creates an EventPopulator using numWorkers concurrent requests
func NewEventPopulator(creator EventCreator, numWorkers int, hostname string) *EventPopulator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if hostname == "" {
		hostname = "bnp"
	}
	return &EventPopulator{
		creator:    creator,
		numWorkers: numWorkers,
		hostname:   hostname,
		metrics:    metrics.NewMetrics(),
	}
}

// Metrics exposes the counters collected by the populator
func (p *EventPopulator) Metrics() *metrics.Metrics {
	return p.metrics
}

// NewEvent builds a dummy event. The run id and sequence number go in the
// message so that the service does not fold the events into one.
func NewEvent(runID string, seq int, hostname string) boundary.Event {
	return boundary.Event{
		Title:   Title,
		Message: fmt.Sprintf("%s #%d", runID, seq),
		Tags:    []string{"bnp", "populate", runID},
		Source: &boundary.EventSource{
			Ref:  hostname,
			Type: "host",
		},
		FingerprintFields: []string{"@title", "@message"},
	}
}

func events(done <-chan struct{}, runID string, count int, hostname string) <-chan boundary.Event {
	yield := make(chan boundary.Event)
	go func() {
		defer close(yield)
		for i := 1; i <= count; i++ {
			select {
			case <-done:
				return
			case yield <- NewEvent(runID, i, hostname):
			}
		}
	}()
	return yield
}

// Populate creates count events and waits for all of them
func (p *EventPopulator) Populate(ctx context.Context, count int) (PopulateResult, error) {
	result := PopulateResult{StartTime: time.Now()}
	runID := uuid.New().String()
	log.Infof("Creating %d event(s) with run id %s", count, runID)

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := events(ctx.Done(), runID, count, p.hostname)

	wg.Add(p.numWorkers)
	for w := 1; w <= p.numWorkers; w++ {
		go func(id int) {
			defer wg.Done()
			for e := range jobs {
				location, err := p.creator.CreateEvent(ctx, e)
				mu.Lock()
				if err != nil {
					p.metrics.RegisterCreateFailed()
					result.Failed++
					log.Errorf("Worker %d failed to create event: %v", id, err)
				} else {
					p.metrics.RegisterCreateSuccess()
					result.Created++
					result.Locations = append(result.Locations, location)
					log.Debugf("Worker %d created %s", id, location)
				}
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	result.EndTime = time.Now()
	if err := ctx.Err(); err != nil {
		return result, errors.Wrap(err, "populate interrupted")
	}
	return result, nil
}
