// ABOUTME: CLI command for setting the profile avatar.
// ABOUTME: Uploads the image to the host, then points the profile at the URL.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var avatarCmd = &cobra.Command{
	Use:   "avatar <image-file>",
	Short: "Upload a profile picture",
	Long: `Upload an image and set it as your profile picture. JPEG, PNG, WebP,
and GIF are accepted; large images are scaled down before upload.

Examples:
  digestai avatar ~/Pictures/me.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}

		up, err := imgClient.Upload(cmd.Context(), filepath.Base(args[0]), data)
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}

		if _, err := client.UpdateUserMetadata(cmd.Context(), map[string]any{"avatar_url": up.URL}); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		if _, err := sess.RefreshUser(cmd.Context()); err != nil {
			log.Warn().Err(err).Msg("profile refresh failed")
		}

		color.Green("✓ Avatar updated")
		fmt.Printf("  %s\n", up.URL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(avatarCmd)
}
