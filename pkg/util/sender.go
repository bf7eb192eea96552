package util

import (
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// LogRequest is a resty request middleware that traces outgoing requests.
func LogRequest(c *resty.Client, r *resty.Request) error {
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("Sending %s %s%s", r.Method, c.BaseURL, r.URL)
	}
	return nil
}

// LogResponse is a resty response middleware that traces the status, timing
// and headers of every response.
func LogResponse(c *resty.Client, resp *resty.Response) error {
	if log.IsLevelEnabled(log.TraceLevel) {
		r := resp.Request
		log.Tracef("%s %s received %s in %s", r.Method, r.URL, resp.Status(), resp.Time())
		for k, v := range resp.Header() {
			log.Tracef("%s=%s", k, v)
		}
	}
	return nil
}

// LogError is a resty error hook for requests that got no response at all.
func LogError(r *resty.Request, err error) {
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("%s %s received error '%v'", r.Method, r.URL, err)
	}
}
