package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/fabito/boundary-purger/pkg/boundary"
	"github.com/fabito/boundary-purger/pkg/config"
	"github.com/spf13/viper"
)

// newClient resolves the configuration and builds an API client. It fails
// before any request is made when a credential is missing.
func newClient() (*config.Config, *boundary.Client, error) {
	c, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	api, err := boundary.NewClient(c.ClientConfig())
	if err != nil {
		return nil, nil, err
	}
	return c, api, nil
}

// interruptible returns a context cancelled by SIGINT
func interruptible(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
