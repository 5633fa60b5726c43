// ABOUTME: CLI command for the 7-day dashboard summary.
// ABOUTME: Stats come from the remote aggregate with a local fallback.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show 7-day stats and food safety counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		if err := dashStore.Fetch(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch dashboard: %w", err)
		}

		stats := dashStore.Stats()
		if stats == nil {
			fmt.Println("No dashboard data yet")
			return nil
		}

		fmt.Println("Last 7 days:")
		fmt.Printf("  symptoms logged   %d\n", stats.TotalSymptoms)
		fmt.Printf("  avg intensity     %.1f\n", stats.AvgIntensity)
		fmt.Println("Food safety:")
		color.Green("  safe              %d", stats.SafeFoods)
		color.Yellow("  moderate          %d", stats.ModerateFoods)
		color.Red("  avoid             %d", stats.AvoidFoods)
		if stats.LatestReport != nil {
			fmt.Printf("Latest report:      %s (risk %d)\n",
				shortID(stats.LatestReport.ID), stats.LatestReport.RiskScore)
		}
		if stats.UnreadInsights > 0 || stats.UnreadNotifications > 0 {
			fmt.Printf("Unread:             %d insights, %d notifications\n",
				stats.UnreadInsights, stats.UnreadNotifications)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
