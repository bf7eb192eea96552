package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fabito/boundary-purger/pkg/purger"
	"github.com/fabito/boundary-purger/pkg/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	metersSince string
	metersForce bool
)

// metersCmd groups the meter maintenance commands
var metersCmd = &cobra.Command{
	Use:   "meters",
	Short: "Find and delete meters that stopped reporting",
}

var metersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the meters not connected since --since",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := findStaleMeters(cmd)
		return err
	},
}

var metersPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Deletes the meters not connected since --since",
	Long: `Lists the meters whose last status is disconnected and older than --since,
then deletes them after confirmation. --force skips the confirmation.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := findStaleMeters(cmd)
		if err != nil {
			return err
		}
		sel := p.selection
		if len(sel.Stale) == 0 {
			logrus.Info("No meter to delete")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleting %d meter(s)!\n", len(sel.Stale))
		if !metersForce && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to delete these meters? [y/N] ") {
			logrus.Info("Nothing deleted")
			return nil
		}

		ctx, stop := interruptible(context.Background())
		defer stop()

		result, err := p.DeleteStale(ctx, sel.Stale)
		logrus.Debugf("Metrics:\n%s", p.Metrics())
		if err != nil {
			return errors.Wrapf(err, "meter purge stopped (%s)", result)
		}
		logrus.Info(result)
		if result.FailedCount > 0 {
			return errors.Errorf("%d meter(s) could not be deleted", result.FailedCount)
		}
		return nil
	},
}

type staleMeters struct {
	*purger.MeterPurger
	selection purger.MeterSelection
}

func findStaleMeters(cmd *cobra.Command) (*staleMeters, error) {
	since, err := util.ParseSince(metersSince)
	if err != nil {
		return nil, err
	}
	_, api, err := newClient()
	if err != nil {
		return nil, err
	}

	ctx, stop := interruptible(context.Background())
	defer stop()

	p := purger.NewMeterPurger(api, cmd.OutOrStdout())
	sel, err := p.FindStale(ctx, since)
	if err != nil {
		return nil, err
	}
	return &staleMeters{MeterPurger: p, selection: sel}, nil
}

// confirm asks a yes/no question on out and reads the answer from in.
// Anything but y or yes, including end of input, is a no.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(metersCmd)
	metersCmd.AddCommand(metersListCmd, metersPurgeCmd)

	metersCmd.PersistentFlags().StringVar(&metersSince, "since", "0s", "How long ago is the cutoff for disconnected meters, format is \\d+[wdhms]")
	metersPurgeCmd.Flags().BoolVar(&metersForce, "force", false, "Do not ask for confirmation before deleting")
}
