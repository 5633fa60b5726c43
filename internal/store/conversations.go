// ABOUTME: Conversation store: active conversation resolution and messages.
// ABOUTME: Every fresh conversation is seeded with the assistant welcome message.
package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

const (
	conversationsTable = "conversations"
	messagesTable      = "messages"
)

// ConversationStore owns the active conversation and its message history.
// Exactly one conversation is active per identity at a time.
type ConversationStore struct {
	client  *Client
	session Identity
	log     zerolog.Logger
	unsub   func()

	mu             sync.RWMutex
	conversationID string
	messages       []models.Message
	loading        bool
	err            error
}

// NewConversationStore creates the store and subscribes it to identity
// changes: conversation init on login, clear on logout.
func NewConversationStore(client *Client, sess Identity, log zerolog.Logger) *ConversationStore {
	s := &ConversationStore{
		client:  client,
		session: sess,
		log:     log.With().Str("store", "conversations").Logger(),
	}
	s.unsub = sess.Subscribe(func(u *models.User) {
		if u != nil {
			_ = s.Init(context.Background())
		} else {
			s.clear()
		}
	})
	return s
}

// Close unsubscribes the store from identity changes.
func (s *ConversationStore) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

// ConversationID returns the active conversation id, or "".
func (s *ConversationStore) ConversationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversationID
}

// Messages returns a copy of the active conversation's messages, oldest first.
func (s *ConversationStore) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Loading reports whether conversation init or a reload is in flight.
func (s *ConversationStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last operation error, if any.
func (s *ConversationStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *ConversationStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationID = ""
	s.messages = nil
	s.loading = false
	s.err = nil
}

func (s *ConversationStore) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

func (s *ConversationStore) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Init resolves the most-recently-updated conversation for the user,
// creating and seeding one when none exists, then loads its history.
func (s *ConversationStore) Init(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	rows, err := s.client.SelectRows(ctx, conversationsTable, Query{
		Select:  "id",
		Filters: []Filter{Eq("user_id", user.ID)},
		OrderBy: "updated_at",
		Desc:    true,
		Limit:   1,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("conversation lookup failed")
		s.setErr(err)
		return err
	}

	var convID string
	if len(rows) > 0 {
		convID = recordString(rows[0], "id")
	} else {
		convID, err = s.createSeeded(ctx, user.ID)
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.conversationID = convID
	s.mu.Unlock()

	return s.loadMessages(ctx, convID)
}

// Refetch reloads the active conversation's history.
func (s *ConversationStore) Refetch(ctx context.Context) error {
	convID := s.ConversationID()
	if convID == "" {
		return nil
	}
	return s.loadMessages(ctx, convID)
}

// AddMessage appends a message to the active conversation. The caller is
// responsible for persisting both sides of an AI exchange.
func (s *ConversationStore) AddMessage(ctx context.Context, role models.Role, content string) (*models.Message, error) {
	convID := s.ConversationID()
	if convID == "" {
		return nil, ErrNotAuthenticated
	}

	stored, err := s.client.InsertRow(ctx, messagesTable, normalize.Record{
		"conversation_id": convID,
		"role":            string(role),
		"content":         content,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn().Err(err).Msg("add message failed")
		s.setErr(err)
		return nil, err
	}

	msg := messageFromRecord(stored)
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.err = nil
	s.mu.Unlock()
	return &msg, nil
}

// NewConversation creates a fresh conversation, makes it active, and seeds
// the welcome message. The prior conversation is never deleted.
func (s *ConversationStore) NewConversation(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	convID, err := s.createSeeded(ctx, user.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conversationID = convID
	s.messages = nil
	s.err = nil
	s.mu.Unlock()

	return s.loadMessages(ctx, convID)
}

func (s *ConversationStore) createSeeded(ctx context.Context, userID string) (string, error) {
	conv, err := s.client.InsertRow(ctx, conversationsTable, normalize.Record{
		"user_id": userID,
		"title":   models.DefaultConversationTitle,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.log.Warn().Err(err).Msg("create conversation failed")
		s.setErr(err)
		return "", err
	}
	convID := recordString(conv, "id")

	_, err = s.client.InsertRow(ctx, messagesTable, normalize.Record{
		"conversation_id": convID,
		"role":            string(models.RoleAssistant),
		"content":         models.WelcomeMessage,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.log.Warn().Err(err).Msg("seed welcome message failed")
		s.setErr(err)
		return "", err
	}
	return convID, nil
}

func (s *ConversationStore) loadMessages(ctx context.Context, convID string) error {
	rows, err := s.client.SelectRows(ctx, messagesTable, Query{
		Filters: []Filter{Eq("conversation_id", convID)},
		OrderBy: "created_at",
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("load messages failed")
		s.setErr(err)
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	msgs := make([]models.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, messageFromRecord(row))
	}

	s.mu.Lock()
	s.messages = msgs
	s.err = nil
	s.mu.Unlock()
	return nil
}

func messageFromRecord(rec normalize.Record) models.Message {
	return models.Message{
		ID:        recordString(rec, "id"),
		Role:      models.Role(recordString(rec, "role")),
		Content:   recordString(rec, "content"),
		Timestamp: recordTime(rec, "created_at"),
	}
}
