package boundary

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// ListEvents fetches the current page of events for the organization.
func (c *Client) ListEvents(ctx context.Context) (*EventPage, error) {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		Get(c.eventsPath())

	if err != nil {
		return nil, errors.Wrap(err, "listing events")
	}

	if !resp.IsSuccess() {
		return nil, newAPIError(resp)
	}

	return DecodeEventPage(resp.Body())
}

// DeleteEvent deletes a single event. The status code is returned whenever
// the server answered, including alongside an *APIError.
func (c *Client) DeleteEvent(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, errors.New("deleting event: empty id")
	}

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetPathParam("eventId", id).
		Delete(c.eventsPath() + "/{eventId}")

	if err != nil {
		return 0, errors.Wrapf(err, "deleting event %s", id)
	}

	if !resp.IsSuccess() {
		return resp.StatusCode(), newAPIError(resp)
	}

	return resp.StatusCode(), nil
}

// CreateEvent posts a new event and returns its Location.
func (c *Client) CreateEvent(ctx context.Context, event Event) (string, error) {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(c.eventsPath())

	if err != nil {
		return "", errors.Wrap(err, "creating event")
	}

	if resp.StatusCode() != http.StatusCreated {
		return "", newAPIError(resp)
	}

	return resp.Header().Get("Location"), nil
}
