package boundary

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// ID identifies an event or a meter. The API sends ids either as strings
// or as numbers; both decode to their textual form. null decodes to "".
type ID string

// EventID is the identifier of an event
type EventID = ID

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrapf(err, "id %s is neither a string nor a number", data)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// EventSource identifies what an event is about
type EventSource struct {
	Ref  string `json:"ref"`
	Type string `json:"type"`
}

// Event is a Boundary event. Only ID matters to the purge.
type Event struct {
	ID                EventID      `json:"id,omitempty"`
	Title             string       `json:"title,omitempty"`
	Message           string       `json:"message,omitempty"`
	Tags              []string     `json:"tags,omitempty"`
	Source            *EventSource `json:"source,omitempty"`
	FingerprintFields []string     `json:"fingerprintFields,omitempty"`
}

// EventPage is one response of the events endpoint
type EventPage struct {
	Total   int64   `json:"total"`
	Results []Event `json:"results"`
}

type rawEventPage struct {
	Total   *int64  `json:"total"`
	Results []Event `json:"results"`
}

// DecodeEventPage parses an events response body. A body without a total
// is rejected.
func DecodeEventPage(body []byte) (*EventPage, error) {
	var raw rawEventPage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding event page")
	}
	if raw.Total == nil {
		return nil, errors.New("decoding event page: missing total")
	}
	for i, e := range raw.Results {
		if e.ID == "" {
			return nil, errors.Errorf("decoding event page: event %d has no id", i)
		}
	}
	return &EventPage{Total: *raw.Total, Results: raw.Results}, nil
}

// Meter is a Boundary meter, the agent reporting for one host
type Meter struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	ObsDomainID ID     `json:"obs_domain_id"`
}

// DecodeMeters parses the meters list. Every meter must carry an id.
func DecodeMeters(body []byte) ([]Meter, error) {
	var meters []Meter
	if err := json.Unmarshal(body, &meters); err != nil {
		return nil, errors.Wrap(err, "decoding meters")
	}
	for i, m := range meters {
		if m.ID == "" {
			return nil, errors.Errorf("decoding meters: meter %d has no id", i)
		}
	}
	return meters, nil
}

// MeterStatus is one row of the meter_status query state
type MeterStatus struct {
	ObservationDomainID ID
	Connected           bool
	EpochMillis         int64
}

// Time is the moment the status was recorded
func (s MeterStatus) Time() time.Time {
	return time.Unix(0, s.EpochMillis*int64(time.Millisecond))
}

// queryState is the columnar format of query_state responses: a schema of
// column names and one array of values per row.
type queryState struct {
	Schema []string            `json:"schema"`
	Insert [][]json.RawMessage `json:"insert"`
}

// DecodeMeterStatuses parses the meter_status query state.
func DecodeMeterStatuses(body []byte) ([]MeterStatus, error) {
	var qs queryState
	if err := json.Unmarshal(body, &qs); err != nil {
		return nil, errors.Wrap(err, "decoding meter status")
	}

	columns := map[string]int{}
	for i, name := range qs.Schema {
		columns[name] = i
	}
	domainCol, ok := columns["observation_domain_id"]
	if !ok {
		domainCol, ok = columns["observationDomainId"]
	}
	if !ok {
		return nil, errors.New("decoding meter status: schema has no observation domain id")
	}
	connectedCol, hasConnected := columns["connected"]
	millisCol, hasMillis := columns["epochMillis"]
	if !hasConnected || !hasMillis {
		return nil, errors.New("decoding meter status: schema needs connected and epochMillis")
	}

	statuses := make([]MeterStatus, 0, len(qs.Insert))
	for i, row := range qs.Insert {
		if len(row) != len(qs.Schema) {
			return nil, errors.Errorf("decoding meter status: row %d has %d value(s), schema has %d", i, len(row), len(qs.Schema))
		}
		var s MeterStatus
		if err := json.Unmarshal(row[domainCol], &s.ObservationDomainID); err != nil {
			return nil, errors.Wrapf(err, "decoding meter status: row %d", i)
		}
		if err := json.Unmarshal(row[connectedCol], &s.Connected); err != nil {
			return nil, errors.Wrapf(err, "decoding meter status: row %d", i)
		}
		if err := json.Unmarshal(row[millisCol], &s.EpochMillis); err != nil {
			return nil, errors.Wrapf(err, "decoding meter status: row %d", i)
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}
