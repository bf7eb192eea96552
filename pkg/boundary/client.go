package boundary

import (
	"crypto/tls"
	"net/url"
	"strings"
	"time"

	"github.com/fabito/boundary-purger/pkg/util"
	"github.com/go-resty/resty/v2"
)

// DefaultAPIURL is the public Boundary API endpoint
const DefaultAPIURL = "https://api.boundary.com"

// ClientConfig holds everything a Client needs. Credentials are passed in
// explicitly; the client never reads the environment.
type ClientConfig struct {
	APIURL  string
	APIKey  string
	OrgID   string
	Timeout time.Duration
	// Insecure skips TLS certificate verification
	Insecure bool
}

// Client talks to the events API of one organization
type Client struct {
	HTTP   *resty.Client
	Config ClientConfig
}

// NewClient creates a Client that authenticates every request with the API key
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" || cfg.OrgID == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	r := resty.New()
	r.SetBaseURL(strings.TrimRight(cfg.APIURL, "/"))
	r.SetHeader("Authorization", BasicAuthHeader(cfg.APIKey))
	r.SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		r.SetTimeout(cfg.Timeout)
	}
	if cfg.Insecure {
		r.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	r.OnBeforeRequest(util.LogRequest)
	r.OnAfterResponse(util.LogResponse)
	r.OnError(util.LogError)

	return &Client{
		HTTP:   r,
		Config: cfg,
	}, nil
}

func (c *Client) orgPath(resource string) string {
	return "/" + url.PathEscape(c.Config.OrgID) + "/" + resource
}

func (c *Client) eventsPath() string {
	return c.orgPath("events")
}

// EventsURL is the absolute URL of the organization's events collection
func (c *Client) EventsURL() string {
	return c.HTTP.BaseURL + c.eventsPath()
}

// MeterURL is the absolute URL of a meter
func (c *Client) MeterURL(id string) string {
	return c.HTTP.BaseURL + c.orgPath("meters") + "/" + url.PathEscape(id)
}
