// ABOUTME: CLI commands for symptom entries: add, list, delete.
// ABOUTME: Types are comma-separated; intensity runs 1-10.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

var (
	symptomAt       string
	symptomDuration string
	symptomLocation string
	symptomNotes    string
	symptomLimit    int
)

var symptomCmd = &cobra.Command{
	Use:     "symptom",
	Aliases: []string{"sym"},
	Short:   "Track digestive symptoms",
}

var symptomAddCmd = &cobra.Command{
	Use:   "add <type>[,<type>...] <intensity>",
	Short: "Log a symptom entry",
	Long: `Log a symptom entry. Multiple types share one entry and intensity.

Types: abdominal_pain, bloating, gas, diarrhea, constipation, nausea,
heartburn, vomiting, cramps, other

Examples:
  digestai symptom add bloating 6
  digestai symptom add bloating,gas 7 --duration 2h --notes "after pizza"
  digestai symptom add abdominal_pain 8 --location lower_left --at "2026-08-30 14:00"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		var types []models.SymptomType
		for _, raw := range strings.Split(args[0], ",") {
			t := strings.TrimSpace(raw)
			if !models.IsValidSymptomType(t) {
				return fmt.Errorf("unknown symptom type: %s\nValid types: %s", t, symptomTypeList())
			}
			types = append(types, models.SymptomType(t))
		}

		intensity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid intensity: %s", args[1])
		}

		sym := models.NewSymptom("", types, intensity)
		if symptomAt != "" {
			t, err := parseTime(symptomAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", symptomAt)
			}
			sym.WithDatetime(t)
		}
		if symptomDuration != "" {
			sym.WithDuration(symptomDuration)
		}
		if symptomLocation != "" {
			sym.WithPainLocation(symptomLocation)
		}
		if symptomNotes != "" {
			sym.WithNotes(symptomNotes)
		}

		rec, err := symptomStore.Create(cmd.Context(), sym)
		if err != nil {
			return fmt.Errorf("failed to log symptom: %w", err)
		}

		color.Green("✓ Logged %s", args[0])
		fmt.Printf("  %s intensity %d\n",
			color.New(color.Faint).Sprint(shortID(recStr(rec, "id"))),
			intensity)
		return nil
	},
}

var symptomListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent symptom entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		if err := symptomStore.Fetch(cmd.Context()); err != nil {
			if symptomStore.Len() == 0 {
				return fmt.Errorf("failed to fetch symptoms: %w", err)
			}
			color.Yellow("! Showing cached data (refresh failed: %v)", err)
		}

		items := symptomStore.Items()
		if len(items) == 0 {
			fmt.Println("No symptoms logged yet")
			return nil
		}
		if symptomLimit > 0 && len(items) > symptomLimit {
			items = items[:symptomLimit]
		}

		for _, rec := range items {
			printSymptom(rec)
		}
		return nil
	},
}

var symptomDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a symptom entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		if err := symptomStore.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete symptom: %w", err)
		}
		color.Green("✓ Deleted %s", shortID(args[0]))
		return nil
	},
}

func printSymptom(rec normalize.Record) {
	when := recStr(rec, "datetime")
	if t, err := time.Parse(time.RFC3339, when); err == nil {
		when = t.Local().Format("2006-01-02 15:04")
	}

	var types []string
	if raw, ok := rec["types"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				types = append(types, s)
			}
		}
	}

	fmt.Printf("%s  %s  %s intensity %.0f",
		color.New(color.Faint).Sprint(shortID(recStr(rec, "id"))),
		when,
		strings.Join(types, ","),
		recNum(rec, "intensity"))
	if notes := recStr(rec, "notes"); notes != "" {
		fmt.Printf("  %s", color.New(color.Faint).Sprint(notes))
	}
	fmt.Println()
}

func symptomTypeList() string {
	parts := make([]string, len(models.AllSymptomTypes))
	for i, t := range models.AllSymptomTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func init() {
	symptomAddCmd.Flags().StringVar(&symptomAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	symptomAddCmd.Flags().StringVar(&symptomDuration, "duration", "", "duration label like 30min or 2h")
	symptomAddCmd.Flags().StringVar(&symptomLocation, "location", "", "pain location tag")
	symptomAddCmd.Flags().StringVar(&symptomNotes, "notes", "", "notes for the entry")
	symptomListCmd.Flags().IntVar(&symptomLimit, "limit", 20, "max entries to show")

	symptomCmd.AddCommand(symptomAddCmd)
	symptomCmd.AddCommand(symptomListCmd)
	symptomCmd.AddCommand(symptomDeleteCmd)
	rootCmd.AddCommand(symptomCmd)
}
