package boundary

import (
	"context"

	"github.com/pkg/errors"
)

// ListMeters fetches every meter of the organization.
func (c *Client) ListMeters(ctx context.Context) ([]Meter, error) {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		Get(c.orgPath("meters"))

	if err != nil {
		return nil, errors.Wrap(err, "listing meters")
	}

	if !resp.IsSuccess() {
		return nil, newAPIError(resp)
	}

	return DecodeMeters(resp.Body())
}

// MeterStatuses fetches the last known connection state of the meters.
func (c *Client) MeterStatuses(ctx context.Context) ([]MeterStatus, error) {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		Get(c.orgPath("query_state/meter_status"))

	if err != nil {
		return nil, errors.Wrap(err, "querying meter status")
	}

	if !resp.IsSuccess() {
		return nil, newAPIError(resp)
	}

	return DecodeMeterStatuses(resp.Body())
}

// DeleteMeter deletes a single meter. Like DeleteEvent, the status code is
// returned whenever the server answered.
func (c *Client) DeleteMeter(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, errors.New("deleting meter: empty id")
	}

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetPathParam("meterId", id).
		Delete(c.orgPath("meters") + "/{meterId}")

	if err != nil {
		return 0, errors.Wrapf(err, "deleting meter %s", id)
	}

	if !resp.IsSuccess() {
		return resp.StatusCode(), newAPIError(resp)
	}

	return resp.StatusCode(), nil
}
