// ABOUTME: Markdown stripping for AI webhook responses.
// ABOUTME: Produces plain text suitable for chat display and TTS.
package ai

import (
	"regexp"
	"strings"
)

var (
	reHeader     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reBold       = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)
	reCodeFence  = regexp.MustCompile("(?s)```.*?```")
	reCodeSpan   = regexp.MustCompile("`([^`]+)`")
	reImage      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	reListMarker = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	reOrdered    = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	reBlockquote = regexp.MustCompile(`(?m)^>\s?`)
	reHRule      = regexp.MustCompile(`(?m)^(\*{3,}|-{3,}|_{3,})\s*$`)
	reNewlines   = regexp.MustCompile(`\n{3,}`)
)

// CleanMarkdown strips markdown syntax from text, keeping the content.
// Fenced code blocks and images are dropped entirely; inline code and
// links keep their content.
func CleanMarkdown(text string) string {
	out := text
	out = reCodeFence.ReplaceAllString(out, "")
	out = reCodeSpan.ReplaceAllString(out, "$1")
	out = reImage.ReplaceAllString(out, "")
	out = reLink.ReplaceAllString(out, "$1")
	out = reHeader.ReplaceAllString(out, "")
	out = reBold.ReplaceAllString(out, "$1$2")
	out = reItalic.ReplaceAllString(out, "$1$2")
	out = reHRule.ReplaceAllString(out, "")
	out = reListMarker.ReplaceAllString(out, "")
	out = reOrdered.ReplaceAllString(out, "")
	out = reBlockquote.ReplaceAllString(out, "")
	out = reNewlines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
