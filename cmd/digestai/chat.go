// ABOUTME: CLI command for talking to the AI assistant.
// ABOUTME: Both sides of the exchange are persisted to the conversation.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/ai"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
)

var (
	chatNew     bool
	chatHistory bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Ask the AI assistant about your digestive health",
	Long: `Send a message to the AI assistant. The conversation persists across
invocations; use --new to start over.

Examples:
  digestai chat "what foods should I avoid?"
  digestai chat --new "let's start fresh"
  digestai chat --history`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		if chatNew {
			if err := chatStore.NewConversation(cmd.Context()); err != nil {
				return fmt.Errorf("failed to start conversation: %w", err)
			}
		} else if chatStore.ConversationID() == "" {
			if err := chatStore.Init(cmd.Context()); err != nil {
				return fmt.Errorf("failed to open conversation: %w", err)
			}
		}

		if chatHistory {
			for _, msg := range chatStore.Messages() {
				printMessage(msg)
			}
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("nothing to send: pass a message or use --history")
		}
		message := strings.Join(args, " ")

		if _, err := chatStore.AddMessage(cmd.Context(), models.RoleUser, message); err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}

		user := sess.CurrentUser()
		userContext := ai.FormatUserContext(user, prefsStore.Preferences())
		reply, err := aiGateway.Chat(cmd.Context(), user.ID, chatStore.ConversationID(), message, userContext)
		if err != nil {
			return fmt.Errorf("assistant unavailable: %w", err)
		}

		if _, err := chatStore.AddMessage(cmd.Context(), models.RoleAssistant, reply.Text); err != nil {
			log.Warn().Err(err).Msg("failed to persist assistant reply")
		}

		fmt.Println(reply.Text)
		if len(reply.Suggestions) > 0 {
			fmt.Println()
			for _, s := range reply.Suggestions {
				fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint("→"), s)
			}
		}
		return nil
	},
}

func printMessage(msg models.Message) {
	label := "you"
	if msg.Role == models.RoleAssistant {
		label = "ai"
	}
	fmt.Printf("%s %s\n", color.New(color.Faint).Sprintf("[%s]", label), msg.Content)
}

func init() {
	chatCmd.Flags().BoolVar(&chatNew, "new", false, "start a new conversation")
	chatCmd.Flags().BoolVar(&chatHistory, "history", false, "show the conversation history")
	rootCmd.AddCommand(chatCmd)
}
