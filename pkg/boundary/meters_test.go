package boundary

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMeters(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/org1/meters", r.URL.Path)
		assert.Equal(t, "Basic fn5+Pjo=", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": "m1", "name": "web1", "obs_domain_id": 7}]`))
	})
	defer srv.Close()

	meters, err := c.ListMeters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Meter{{ID: "m1", Name: "web1", ObsDomainID: "7"}}, meters)
}

func TestMeterStatuses(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/org1/query_state/meter_status", r.URL.Path)
		w.Write([]byte(`{"schema": ["observation_domain_id", "connected", "epochMillis"], "insert": [[7, true, 1000]]}`))
	})
	defer srv.Close()

	statuses, err := c.MeterStatuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []MeterStatus{{ObservationDomainID: "7", Connected: true, EpochMillis: 1000}}, statuses)
}

func TestMeterStatusesUnauthorized(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer srv.Close()

	_, err := c.MeterStatuses(context.Background())
	assert.True(t, IsUnauthorized(err))
}

func TestDeleteMeter(t *testing.T) {
	var paths []string
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	status, err := c.DeleteMeter(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"/org1/meters/m1"}, paths)
	assert.Equal(t, srv.URL+"/org1/meters/m1", c.MeterURL("m1"))
}

func TestDeleteMeterFailure(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	status, err := c.DeleteMeter(context.Background(), "m1")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Error(t, err)

	_, err = c.DeleteMeter(context.Background(), "")
	assert.Error(t, err)
}

func TestNewClientInsecure(t *testing.T) {
	c, err := NewClient(ClientConfig{APIKey: "key", OrgID: "org1", Insecure: true})
	require.NoError(t, err)
	assert.NotNil(t, c.HTTP)
}
