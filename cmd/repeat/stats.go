package main

import (
	"time"

	"github.com/phrazzld/repeat/internal/domain"
	"github.com/spf13/cobra"
)

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals for the local collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.reviews.GetStats(cmd.Context(), domain.LocalUserID)
			if err != nil {
				return err
			}

			c.printStatus(c.out, "Cards", "%d", stats.TotalCards)
			c.printStatus(c.out, "New", "%d", stats.NewCards)
			c.printStatus(c.out, "Reviewed", "%d", stats.ReviewedCards)
			c.printStatus(c.out, "Due now", "%d", stats.DueNow())
			c.printStatus(c.out, "Reviews", "%d", stats.TotalReviews)
			if stats.NextDueAt != nil {
				c.printStatus(c.out, "Next due", "%s", formatDue(*stats.NextDueAt))
			}
			return nil
		},
	}
}

func formatDue(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
