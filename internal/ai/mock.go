// ABOUTME: Canned AI answers used when no webhook is configured.
// ABOUTME: Keyword-matched so the chat stays demonstrable offline.
package ai

import "strings"

// mockReply picks a canned answer by keyword. It mirrors the normalized
// reply shape so callers cannot tell the paths apart.
func mockReply(req Request) *Reply {
	msg := strings.ToLower(req.Message)
	switch {
	case strings.Contains(msg, "symptom"):
		return &Reply{
			Text: "Based on your recent entries, bloating and abdominal pain cluster " +
				"within a few hours of dairy-heavy meals. Consider a short elimination " +
				"trial and keep logging so the pattern can be confirmed.",
			Suggestions: []string{"Try a 2-week dairy elimination", "Log symptoms within 2h of meals"},
		}
	case strings.Contains(msg, "breakfast"):
		return &Reply{
			Text:        "Gentle breakfast ideas: oatmeal with banana, scrambled eggs, or rice porridge. Avoid citrus and coffee on an empty stomach for now.",
			Suggestions: []string{"Oatmeal with banana", "Scrambled eggs", "Rice porridge"},
		}
	case strings.Contains(msg, "lunch"), strings.Contains(msg, "dinner"), strings.Contains(msg, "snack"), strings.Contains(msg, "food"):
		return &Reply{
			Text:        "Lean proteins, white rice, and cooked vegetables tend to sit well. Keep portions moderate and note how you feel afterwards.",
			Suggestions: []string{"Grilled chicken with rice", "Steamed vegetables"},
		}
	case strings.Contains(msg, "report"):
		return &Reply{
			Text: "Your latest report flags lactose as a likely intolerance with moderate " +
				"confidence. Gluten looks tolerable so far. Keep logging to sharpen the analysis.",
		}
	default:
		return &Reply{
			Text: "I can help you analyze symptoms, review your food logs, or suggest " +
				"meals that suit your digestion. What would you like to look at?",
		}
	}
}
