// ABOUTME: CLI command backing the app-install prompt flag.
// ABOUTME: A dismissal suppresses the prompt for seven days.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var promptDismiss bool

var installPromptCmd = &cobra.Command{
	Use:    "install-prompt",
	Short:  "Check or dismiss the app install prompt",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if localCache == nil {
			return fmt.Errorf("local cache unavailable")
		}

		if promptDismiss {
			if err := localCache.DismissInstallPrompt(time.Now()); err != nil {
				return fmt.Errorf("failed to record dismissal: %w", err)
			}
			color.Green("✓ Install prompt dismissed for 7 days")
			return nil
		}

		show, err := localCache.ShouldShowInstallPrompt(time.Now())
		if err != nil {
			return fmt.Errorf("failed to read prompt state: %w", err)
		}
		if show {
			fmt.Println("show")
		} else {
			fmt.Println("hide")
		}
		return nil
	},
}

func init() {
	installPromptCmd.Flags().BoolVar(&promptDismiss, "dismiss", false, "dismiss the prompt for 7 days")
	rootCmd.AddCommand(installPromptCmd)
}
