// ABOUTME: CLI commands for signing in and out.
// ABOUTME: The password comes from a flag or is read from stdin.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/store"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in to your account",
	Long: `Sign in with your email and password. The session is persisted so
subsequent commands run without signing in again.

Examples:
  digestai login you@example.com
  digestai login you@example.com --password secret`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]

		password := loginPassword
		if password == "" {
			fmt.Print("Password: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimSpace(line)
		}
		if password == "" {
			return fmt.Errorf("password required")
		}

		user, err := sess.Login(cmd.Context(), email, password)
		if err != nil {
			if errors.Is(err, store.ErrInvalidCredentials) {
				return fmt.Errorf("invalid email or password")
			}
			return fmt.Errorf("login failed: %w", err)
		}

		name := user.FullName
		if name == "" {
			name = user.Email
		}
		color.Green("✓ Signed in as %s", name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sess.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}
		color.Green("✓ Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user := sess.CurrentUser()
		if user == nil {
			fmt.Println("Not signed in")
			return nil
		}
		fmt.Printf("%s <%s>\n", user.FullName, user.Email)
		if user.AvatarURL != nil {
			fmt.Printf("  avatar: %s\n", *user.AvatarURL)
		}
		if user.Weight != nil {
			fmt.Printf("  weight: %.1f kg\n", *user.Weight)
		}
		if user.Height != nil {
			fmt.Printf("  height: %.0f cm\n", *user.Height)
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password (read from stdin if omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
