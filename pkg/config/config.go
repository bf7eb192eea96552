package config

import (
	"strings"
	"time"

	"github.com/fabito/boundary-purger/pkg/boundary"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Keys shared by flags, environment variables and the config file.
// With the BOUNDARY prefix, api-key is read from BOUNDARY_API_KEY.
const (
	KeyAPIKey        = "api-key"
	KeyOrgID         = "org-id"
	KeyAPIURL        = "api-url"
	KeyTimeout       = "timeout"
	KeyMaxIterations = "max-iterations"
	KeyMaxDuration   = "max-duration"
	KeyDryRun        = "dry-run"
	KeyInsecure      = "insecure"
)

const (
	DefaultTimeout       = 30 * time.Second
	DefaultMaxIterations = 1000
	DefaultMaxDuration   = time.Hour
)

// EnvPrefix prefixes every environment variable read by bnp
const EnvPrefix = "boundary"

// EnvKeyReplacer maps config keys to environment variable names
var EnvKeyReplacer = strings.NewReplacer("-", "_")

var (
	ErrMissingAPIKey = errors.New("an API key is required (--api-key or BOUNDARY_API_KEY)")
	ErrMissingOrgID  = errors.New("an organization id is required (--org-id or BOUNDARY_ORG_ID)")
)

// Config is the resolved configuration of a run
type Config struct {
	APIKey        string
	OrgID         string
	APIURL        string
	Timeout       time.Duration
	MaxIterations int
	MaxDuration   time.Duration
	DryRun        bool
	Insecure      bool
}

// BindEnv makes v look up every key in BOUNDARY_* environment variables
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()
}

// SetDefaults registers the defaults of the non-credential settings
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, boundary.DefaultAPIURL)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyMaxIterations, DefaultMaxIterations)
	v.SetDefault(KeyMaxDuration, DefaultMaxDuration)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyInsecure, false)
}

// Load reads the configuration from v and checks that both credentials are set.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{
		APIKey:        v.GetString(KeyAPIKey),
		OrgID:         v.GetString(KeyOrgID),
		APIURL:        v.GetString(KeyAPIURL),
		Timeout:       v.GetDuration(KeyTimeout),
		MaxIterations: v.GetInt(KeyMaxIterations),
		MaxDuration:   v.GetDuration(KeyMaxDuration),
		DryRun:        v.GetBool(KeyDryRun),
		Insecure:      v.GetBool(KeyInsecure),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate rejects empty credentials and negative bounds
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.OrgID == "" {
		return ErrMissingOrgID
	}
	if c.Timeout < 0 {
		return errors.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.MaxIterations < 0 {
		return errors.Errorf("max-iterations must not be negative, got %d", c.MaxIterations)
	}
	if c.MaxDuration < 0 {
		return errors.Errorf("max-duration must not be negative, got %s", c.MaxDuration)
	}
	return nil
}

// ClientConfig is the part of the configuration the API client needs
func (c *Config) ClientConfig() boundary.ClientConfig {
	return boundary.ClientConfig{
		APIURL:   c.APIURL,
		APIKey:   c.APIKey,
		OrgID:    c.OrgID,
		Timeout:  c.Timeout,
		Insecure: c.Insecure,
	}
}
