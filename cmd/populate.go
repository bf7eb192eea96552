package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fabito/boundary-purger/pkg/populator"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	populateCount   int
	populateWorkers int
)

// populateCmd represents the populate command
var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Add dummy events to the organization",
	Long:  `This is used for testing the purge command`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if populateCount < 1 {
			return errors.Errorf("--count must be positive, got %d", populateCount)
		}
		_, api, err := newClient()
		if err != nil {
			return err
		}

		ctx, stop := interruptible(context.Background())
		defer stop()

		hostname, err := os.Hostname()
		if err != nil {
			logrus.Debugf("No hostname, using the default event source: %v", err)
		}
		p := populator.NewEventPopulator(api, populateWorkers, hostname)
		result, err := p.Populate(ctx, populateCount)
		logrus.Debugf("Metrics:\n%s", p.Metrics())
		if err != nil {
			return err
		}
		for _, location := range result.Locations {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", location)
		}
		logrus.Info(result)
		if result.Failed > 0 {
			return errors.Errorf("%d event(s) could not be created", result.Failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(populateCmd)
	populateCmd.Flags().IntVar(&populateCount, "count", 10, "Number of events to create")
	populateCmd.Flags().IntVar(&populateWorkers, "num-workers", 4, "Number of concurrent requests")
}
