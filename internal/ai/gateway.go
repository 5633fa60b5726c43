// ABOUTME: AI webhook gateway: typed requests, retry policy, reply normalization.
// ABOUTME: An empty webhook URL selects the built-in mock responder.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
)

// Defaults for the webhook retry policy.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// Config controls the webhook endpoint and its retry policy. MaxRetries
// counts retries after the initial attempt.
type Config struct {
	WebhookURL string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	return c
}

// Request is the webhook payload.
type Request struct {
	Message        string `json:"message"`
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId,omitempty"`
	Context        string `json:"context,omitempty"`
}

// Insight is one structured observation attached to a reply.
type Insight struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
}

// response is the raw webhook answer. The text may arrive under either
// the output or the message key depending on the workflow version.
type response struct {
	Output      string         `json:"output"`
	Message     string         `json:"message"`
	Suggestions []string       `json:"suggestions"`
	Insights    []Insight      `json:"insights"`
	Metadata    map[string]any `json:"metadata"`
}

// Reply is the normalized webhook answer. Text is plain text with
// markdown stripped.
type Reply struct {
	Text        string
	Suggestions []string
	Insights    []Insight
	Metadata    map[string]any
}

// Gateway talks to the AI webhook.
type Gateway struct {
	cfg  Config
	http *resty.Client
	log  zerolog.Logger
}

// New creates a gateway. An empty webhook URL yields mock answers, which
// keeps the chat usable without a configured workflow.
func New(cfg Config, log zerolog.Logger) *Gateway {
	cfg = cfg.withDefaults()
	return &Gateway{
		cfg:  cfg,
		http: resty.New().SetTimeout(cfg.Timeout),
		log:  log.With().Str("component", "ai").Logger(),
	}
}

// Mock reports whether the gateway answers from the mock responder.
func (g *Gateway) Mock() bool {
	return g.cfg.WebhookURL == ""
}

// Send posts the request to the webhook and normalizes the answer.
// Transport failures and non-success statuses are retried alike with a
// fixed delay up to MaxRetries times.
func (g *Gateway) Send(ctx context.Context, req Request) (*Reply, error) {
	if g.Mock() {
		return mockReply(req), nil
	}

	var raw []byte
	attempt := 0
	op := func() error {
		attempt++
		resp, err := g.http.R().SetContext(ctx).SetBody(req).Post(g.cfg.WebhookURL)
		if err != nil {
			g.log.Debug().Err(err).Int("attempt", attempt).Msg("webhook call failed")
			return err
		}
		if resp.IsError() {
			err := fmt.Errorf("webhook: status %d", resp.StatusCode())
			g.log.Debug().Err(err).Int("attempt", attempt).Msg("webhook call failed")
			return err
		}
		raw = resp.Body()
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(g.cfg.RetryDelay), uint64(g.cfg.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, fmt.Errorf("ai webhook: %w", err)
	}

	return normalizeReply(raw), nil
}

// normalizeReply maps the raw body to a Reply: output wins over message,
// and a body under neither key passes through untouched.
func normalizeReply(raw []byte) *Reply {
	var resp response
	_ = json.Unmarshal(raw, &resp)

	reply := &Reply{
		Suggestions: resp.Suggestions,
		Insights:    resp.Insights,
		Metadata:    resp.Metadata,
	}
	switch {
	case resp.Output != "":
		reply.Text = CleanMarkdown(resp.Output)
	case resp.Message != "":
		reply.Text = CleanMarkdown(resp.Message)
	default:
		reply.Text = strings.TrimSpace(string(raw))
	}
	return reply
}

// Chat sends a free-form user message within a conversation.
func (g *Gateway) Chat(ctx context.Context, userID, conversationID, message, userContext string) (*Reply, error) {
	return g.Send(ctx, Request{
		Message:        message,
		UserID:         userID,
		ConversationID: conversationID,
		Context:        userContext,
	})
}

// AnalyzeSymptoms asks for an analysis of the user's recent symptoms.
func (g *Gateway) AnalyzeSymptoms(ctx context.Context, userID, summary string) (*Reply, error) {
	return g.Send(ctx, Request{
		Message: "Analyze my recent digestive symptoms and point out likely triggers.",
		UserID:  userID,
		Context: summary,
	})
}

// FoodRecommendations asks for meal suggestions, phrased per meal slot.
func (g *Gateway) FoodRecommendations(ctx context.Context, userID string, meal models.MealType, userContext string) (*Reply, error) {
	var msg string
	switch meal {
	case models.MealBreakfast:
		msg = "Suggest breakfast options that are gentle on my digestion."
	case models.MealLunch:
		msg = "Suggest lunch options that are gentle on my digestion."
	case models.MealDinner:
		msg = "Suggest dinner options that are gentle on my digestion."
	case models.MealSnack:
		msg = "Suggest snacks that are gentle on my digestion."
	default:
		msg = "Suggest foods that are gentle on my digestion."
	}
	return g.Send(ctx, Request{Message: msg, UserID: userID, Context: userContext})
}

// SummarizeReport asks for a plain-language summary of a generated report.
func (g *Gateway) SummarizeReport(ctx context.Context, userID, reportContext string) (*Reply, error) {
	return g.Send(ctx, Request{
		Message: "Summarize my latest intolerance report in plain language.",
		UserID:  userID,
		Context: reportContext,
	})
}

// FormatUserContext renders the profile and preferences into the context
// string sent alongside chat messages.
func FormatUserContext(user *models.User, prefs models.Preferences) string {
	if user == nil {
		return ""
	}
	var b strings.Builder
	if user.FullName != "" {
		fmt.Fprintf(&b, "Name: %s\n", user.FullName)
	}
	if user.Weight != nil {
		fmt.Fprintf(&b, "Weight: %.1f kg\n", *user.Weight)
	}
	if user.Height != nil {
		fmt.Fprintf(&b, "Height: %.0f cm\n", *user.Height)
	}
	if len(prefs.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "Dietary restrictions: %s\n", strings.Join(prefs.DietaryRestrictions, ", "))
	}
	if len(prefs.Allergies) > 0 {
		fmt.Fprintf(&b, "Allergies: %s\n", strings.Join(prefs.Allergies, ", "))
	}
	return strings.TrimSpace(b.String())
}
