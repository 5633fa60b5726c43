// ABOUTME: CLI commands for food: intake log, catalog search, safety statuses.
// ABOUTME: Safety scores come from the remote scoring procedure.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
)

var (
	foodAt       string
	foodPortion  string
	foodNotes    string
	foodCategory string
	foodLimit    int
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Track food intake and safety",
}

var foodLogCmd = &cobra.Command{
	Use:   "log <name> <meal>",
	Short: "Log a food intake entry",
	Long: `Log a food intake entry for a meal slot.

Meals: breakfast, lunch, dinner, snack

Examples:
  digestai food log "oatmeal" breakfast
  digestai food log "lentil soup" lunch --portion "1 bowl"
  digestai food log "cheese" snack --notes "small piece" --at "2026-08-30 16:00"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		meal := strings.ToLower(args[1])
		if !models.IsValidMealType(meal) {
			return fmt.Errorf("unknown meal type: %s\nValid meals: breakfast, lunch, dinner, snack", args[1])
		}

		fl := models.NewFoodLog("", args[0], models.MealType(meal))
		if foodAt != "" {
			t, err := parseTime(foodAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", foodAt)
			}
			fl.WithDatetime(t)
		}
		if foodPortion != "" {
			fl.WithPortion(foodPortion)
		}
		if foodNotes != "" {
			fl.WithNotes(foodNotes)
		}

		rec, err := foodLogStore.Create(cmd.Context(), fl)
		if err != nil {
			return fmt.Errorf("failed to log food: %w", err)
		}

		color.Green("✓ Logged %s (%s)", args[0], meal)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(recStr(rec, "id"))))
		return nil
	},
}

var foodListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent food entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		if err := foodLogStore.Fetch(cmd.Context()); err != nil {
			if foodLogStore.Len() == 0 {
				return fmt.Errorf("failed to fetch food logs: %w", err)
			}
			color.Yellow("! Showing cached data (refresh failed: %v)", err)
		}

		items := foodLogStore.Items()
		if len(items) == 0 {
			fmt.Println("No food entries logged yet")
			return nil
		}
		if foodLimit > 0 && len(items) > foodLimit {
			items = items[:foodLimit]
		}

		for _, rec := range items {
			fmt.Printf("%s  %s  %-10s %s",
				color.New(color.Faint).Sprint(shortID(recStr(rec, "id"))),
				formatWhen(rec, "datetime"),
				recStr(rec, "meal_type"),
				recStr(rec, "food_name"))
			if portion := recStr(rec, "portion_size"); portion != "" {
				fmt.Printf("  (%s)", portion)
			}
			fmt.Println()
		}
		return nil
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a food entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		if err := foodLogStore.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete food entry: %w", err)
		}
		color.Green("✓ Deleted %s", shortID(args[0]))
		return nil
	},
}

var foodSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the food catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		foods, err := foodStore.Search(cmd.Context(), args[0], foodCategory)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if len(foods) == 0 {
			fmt.Printf("No foods matching %q\n", args[0])
			return nil
		}
		for _, f := range foods {
			fmt.Printf("%s  %s", color.New(color.Faint).Sprint(shortID(f.ID)), f.Name)
			if f.Category != "" {
				fmt.Printf("  [%s]", f.Category)
			}
			fmt.Println()
		}
		return nil
	},
}

var foodStatusesCmd = &cobra.Command{
	Use:   "statuses",
	Short: "Show per-food safety statuses, best first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		if err := foodStore.FetchStatuses(cmd.Context()); err != nil {
			if foodStore.Len() == 0 {
				return fmt.Errorf("failed to fetch statuses: %w", err)
			}
			color.Yellow("! Showing cached data (refresh failed: %v)", err)
		}

		statuses := foodStore.Statuses()
		if len(statuses) == 0 {
			fmt.Println("No food statuses yet — log some meals first")
			return nil
		}

		for _, rec := range statuses {
			name := recStr(rec, "food_id")
			if food, ok := rec["food"].(map[string]any); ok {
				if n, ok := food["name"].(string); ok && n != "" {
					name = n
				}
			}
			status := recStr(rec, "status")
			line := fmt.Sprintf("%-24s %-9s score %.1f", name, status, recNum(rec, "safety_score"))
			switch models.FoodStatus(status) {
			case models.FoodSafe:
				color.Green("%s", line)
			case models.FoodAvoid:
				color.Red("%s", line)
			default:
				color.Yellow("%s", line)
			}
		}
		return nil
	},
}

var foodRescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Recompute food safety scores from your logged data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		if err := foodStore.RecomputeScores(cmd.Context()); err != nil {
			return fmt.Errorf("rescore failed: %w", err)
		}
		color.Green("✓ Safety scores recomputed")
		return nil
	},
}

func init() {
	foodLogCmd.Flags().StringVar(&foodAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	foodLogCmd.Flags().StringVar(&foodPortion, "portion", "", "portion label like '1 cup' or '200g'")
	foodLogCmd.Flags().StringVar(&foodNotes, "notes", "", "notes for the entry")
	foodListCmd.Flags().IntVar(&foodLimit, "limit", 20, "max entries to show")
	foodSearchCmd.Flags().StringVar(&foodCategory, "category", "", "filter by category")

	foodCmd.AddCommand(foodLogCmd)
	foodCmd.AddCommand(foodListCmd)
	foodCmd.AddCommand(foodDeleteCmd)
	foodCmd.AddCommand(foodSearchCmd)
	foodCmd.AddCommand(foodStatusesCmd)
	foodCmd.AddCommand(foodRescoreCmd)
	rootCmd.AddCommand(foodCmd)
}
