// ABOUTME: Conversation and Message models for the AI chat.
// ABOUTME: Every new conversation is seeded with a fixed assistant welcome message.
package models

import "time"

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValidRole checks if a string is a valid message role.
func IsValidRole(s string) bool {
	return s == string(RoleUser) || s == string(RoleAssistant)
}

// WelcomeMessage is the assistant greeting seeded into every new conversation.
const WelcomeMessage = "Hi! I'm DigestAI, your digestive health assistant. 👋\n\n" +
	"I'm here to help you understand your digestive system, identify possible " +
	"food intolerances, and build a personalized eating plan.\n\n" +
	"How can I help you today?"

// DefaultConversationTitle is the title given to freshly created conversations.
const DefaultConversationTitle = "New conversation"

// Message is a single chat message within a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation groups an ordered sequence of messages for one user.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
