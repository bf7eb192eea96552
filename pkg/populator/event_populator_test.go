package populator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/fabito/boundary-purger/pkg/boundary"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	mu     sync.Mutex
	events []boundary.Event
}

func (f *fakeCreator) CreateEvent(ctx context.Context, e boundary.Event) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return fmt.Sprintf("/org1/events/%d", len(f.events)), nil
}

func TestPopulate(t *testing.T) {
	creator := &fakeCreator{}
	p := NewEventPopulator(creator, 4, "myhost")
	result, err := p.Populate(context.Background(), 25)

	require.NoError(t, err)
	assert.Equal(t, int64(25), result.Created)
	assert.Equal(t, int64(0), result.Failed)
	assert.Len(t, result.Locations, 25)
	assert.Len(t, creator.events, 25)
	assert.Equal(t, int64(25), p.Metrics().CreateSuccesses())

	messages := make([]string, 0, len(creator.events))
	for _, e := range creator.events {
		assert.Equal(t, Title, e.Title)
		assert.Equal(t, "myhost", e.Source.Ref)
		messages = append(messages, e.Message)
	}
	sort.Strings(messages)
	for i := 1; i < len(messages); i++ {
		assert.NotEqual(t, messages[i-1], messages[i])
	}
}

func TestPopulateCountsFailures(t *testing.T) {
	result, err := NewEventPopulator(failingCreator{}, 2, "").Populate(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Created)
	assert.Equal(t, int64(3), result.Failed)
	assert.Empty(t, result.Locations)
}

func TestPopulateNothing(t *testing.T) {
	creator := &fakeCreator{}
	result, err := NewEventPopulator(creator, 0, "").Populate(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Created)
	assert.Empty(t, creator.events)
}

type failingCreator struct{}

func (failingCreator) CreateEvent(ctx context.Context, e boundary.Event) (string, error) {
	return "", errors.New("rejected")
}

func TestPopulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEventPopulator(&fakeCreator{}, 2, "").Populate(ctx, 1000)

	assert.Equal(t, context.Canceled, errors.Cause(err))
}

func TestNewEvent(t *testing.T) {
	e := NewEvent("run", 3, "host1")
	assert.Equal(t, "run #3", e.Message)
	assert.Equal(t, []string{"bnp", "populate", "run"}, e.Tags)
	assert.Equal(t, "host", e.Source.Type)
	assert.Empty(t, e.ID)
}

func TestPopulateWithoutHostname(t *testing.T) {
	creator := &fakeCreator{}
	_, err := NewEventPopulator(creator, 1, "").Populate(context.Background(), 1)

	require.NoError(t, err)
	if assert.Len(t, creator.events, 1) {
		assert.Equal(t, "bnp", creator.events[0].Source.Ref)
	}
}
