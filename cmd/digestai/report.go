// ABOUTME: CLI commands for AI-generated reports: list and generate.
// ABOUTME: Generation runs remotely and may take a while on large histories.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/store"
)

var reportDays int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate and browse intolerance reports",
}

var reportListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List generated reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		if err := reportStore.Fetch(cmd.Context()); err != nil {
			if reportStore.Len() == 0 {
				return fmt.Errorf("failed to fetch reports: %w", err)
			}
			color.Yellow("! Showing cached data (refresh failed: %v)", err)
		}

		items := reportStore.Items()
		if len(items) == 0 {
			fmt.Println("No reports yet — run 'digestai report generate'")
			return nil
		}

		for _, rec := range items {
			fmt.Printf("%s  %s to %s  risk %.0f\n",
				color.New(color.Faint).Sprint(shortID(recStr(rec, "id"))),
				formatWhen(rec, "period_start"),
				formatWhen(rec, "period_end"),
				recNum(rec, "risk_score"))
			if summary := recStr(rec, "summary"); summary != "" {
				fmt.Printf("    %s\n", summary)
			}
		}
		return nil
	},
}

var reportGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new intolerance report",
	Long: `Generate a new report from your symptom and food history. The analysis
runs remotely and covers the last N days.

Examples:
  digestai report generate
  digestai report generate --days 90`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		days := reportDays
		if days <= 0 {
			days = store.DefaultReportPeriodDays
		}
		fmt.Printf("Generating report for the last %d days...\n", days)

		if err := reportStore.Generate(cmd.Context(), days); err != nil {
			return fmt.Errorf("report generation failed: %w", err)
		}

		color.Green("✓ Report generated")
		items := reportStore.Items()
		if len(items) > 0 {
			rec := items[0]
			fmt.Printf("  %s risk %.0f\n",
				color.New(color.Faint).Sprint(shortID(recStr(rec, "id"))),
				recNum(rec, "risk_score"))
			if summary := recStr(rec, "summary"); summary != "" {
				fmt.Printf("  %s\n", summary)
			}
		}
		return nil
	},
}

func init() {
	reportGenerateCmd.Flags().IntVar(&reportDays, "days", store.DefaultReportPeriodDays, "period to analyze, in days")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportGenerateCmd)
	rootCmd.AddCommand(reportCmd)
}
