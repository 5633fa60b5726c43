// ABOUTME: CLI commands for per-user preferences: show and set.
// ABOUTME: Updates are partial; unset flags keep their current values.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/store"
)

var (
	prefsTheme        string
	prefsAlert        string
	prefsRestrictions string
	prefsAllergies    string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show and change preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		if err := prefsStore.Fetch(cmd.Context()); err != nil {
			color.Yellow("! Showing defaults (fetch failed: %v)", err)
		}

		p := prefsStore.Preferences()
		fmt.Printf("theme            %s\n", p.Theme)
		fmt.Printf("alert intensity  %s\n", p.AlertIntensity)
		fmt.Printf("restrictions     %s\n", orNone(p.DietaryRestrictions))
		fmt.Printf("allergies        %s\n", orNone(p.Allergies))
		ns := p.NotificationSettings
		fmt.Println("notifications:")
		fmt.Printf("  symptom reminder  %v\n", ns.SymptomReminder)
		fmt.Printf("  new insights      %v\n", ns.NewInsights)
		fmt.Printf("  reports ready     %v\n", ns.ReportsReady)
		fmt.Printf("  daily tips        %v\n", ns.DailyTips)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change preferences",
	Long: `Change one or more preferences. Only the flags you pass are updated.

Examples:
  digestai prefs set --theme dark
  digestai prefs set --restrictions gluten_free,lactose_free
  digestai prefs set --allergies "" --alert high`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		var patch store.PreferencesPatch
		if cmd.Flags().Changed("theme") {
			switch models.Theme(prefsTheme) {
			case models.ThemeLight, models.ThemeDark, models.ThemeAuto:
			default:
				return fmt.Errorf("unknown theme: %s (light, dark, auto)", prefsTheme)
			}
			t := models.Theme(prefsTheme)
			patch.Theme = &t
		}
		if cmd.Flags().Changed("alert") {
			switch models.AlertIntensity(prefsAlert) {
			case models.AlertHigh, models.AlertMedium, models.AlertLow:
			default:
				return fmt.Errorf("unknown alert intensity: %s (high, medium, low)", prefsAlert)
			}
			a := models.AlertIntensity(prefsAlert)
			patch.AlertIntensity = &a
		}
		if cmd.Flags().Changed("restrictions") {
			list := splitList(prefsRestrictions)
			patch.DietaryRestrictions = &list
		}
		if cmd.Flags().Changed("allergies") {
			list := splitList(prefsAllergies)
			patch.Allergies = &list
		}
		if patch == (store.PreferencesPatch{}) {
			return fmt.Errorf("nothing to change: pass at least one flag")
		}

		// Merge over the stored record, not the compiled-in defaults.
		if err := prefsStore.Fetch(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch preferences: %w", err)
		}
		if _, err := prefsStore.Update(cmd.Context(), patch); err != nil {
			return fmt.Errorf("failed to update preferences: %w", err)
		}
		color.Green("✓ Preferences updated")
		return nil
	},
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func orNone(list []string) string {
	if len(list) == 0 {
		return "(none)"
	}
	return strings.Join(list, ", ")
}

func init() {
	prefsSetCmd.Flags().StringVar(&prefsTheme, "theme", "", "color theme: light, dark, auto")
	prefsSetCmd.Flags().StringVar(&prefsAlert, "alert", "", "alert intensity: high, medium, low")
	prefsSetCmd.Flags().StringVar(&prefsRestrictions, "restrictions", "", "comma-separated dietary restrictions")
	prefsSetCmd.Flags().StringVar(&prefsAllergies, "allergies", "", "comma-separated allergies")

	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}
