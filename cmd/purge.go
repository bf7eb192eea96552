package cmd

import (
	"context"

	"github.com/fabito/boundary-purger/pkg/purger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// purgeCmd represents the purge command
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Deletes every event of the organization",
	Long: `Fetches the events of the organization, deletes each of them and fetches
again until the API reports zero events. Gives up after --max-iterations rounds
or --max-duration.`,
	Args: cobra.NoArgs,
	RunE: runPurge,
}

func runPurge(cmd *cobra.Command, args []string) error {
	c, api, err := newClient()
	if err != nil {
		return err
	}

	ctx, stop := interruptible(context.Background())
	defer stop()

	logrus.Infof("Starting purge of %s", api.EventsURL())
	p := purger.NewEventPurger(api, purger.Options{
		MaxIterations: c.MaxIterations,
		MaxDuration:   c.MaxDuration,
		DryRun:        c.DryRun,
		Out:           cmd.OutOrStdout(),
	})

	result, err := p.PurgeEvents(ctx)
	logrus.Debugf("Metrics:\n%s", p.Metrics())
	if err != nil {
		return errors.Wrapf(err, "purge stopped (%s)", result)
	}
	logrus.Info(result)

	if result.FailedCount > 0 {
		return errors.Errorf("%d event(s) could not be deleted", result.FailedCount)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}
