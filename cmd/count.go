package cmd

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// countCmd represents the count command
var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Prints how many events the organization has",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, api, err := newClient()
		if err != nil {
			return err
		}

		ctx, stop := interruptible(context.Background())
		defer stop()

		page, err := api.ListEvents(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s event(s)\n", humanize.Comma(page.Total))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
}
