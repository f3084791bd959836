package middleware

import (
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/gofiber/fiber/v3"

	"github.com/voxarena/arena-go/internal/model"
)

// Field length limits matching database schema constraints.
const (
	MaxTextLen      = 1000 // votes.text upper bound for a single prompt
	MaxScriptLines  = 10
	MaxLineLen      = 500
	MaxUserAgentLen = 255 // votes.user_agent VARCHAR(255)
	MaxAccountIDLen = 100 // accounts.account_id VARCHAR(100)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateText checks a prompt for the single-utterance arena: required,
// bounded length, and detectably English. Short prompts that the language
// detector cannot classify reliably are given the benefit of the doubt.
func ValidateText(text string) (string, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "text is required"
	}
	if len(text) > MaxTextLen {
		return "", fmt.Sprintf("text must be at most %d characters", MaxTextLen)
	}
	if !isEnglish(text) {
		return "", "only English text is supported"
	}
	return text, ""
}

// ValidateScript checks a conversational script: bounded line count and
// line lengths, valid speaker ids, and detectably English dialogue.
func ValidateScript(script []model.ScriptLine) ([]model.ScriptLine, string) {
	if len(script) == 0 {
		return nil, "script is required"
	}
	if len(script) > MaxScriptLines {
		return nil, fmt.Sprintf("script must have at most %d lines", MaxScriptLines)
	}

	out := make([]model.ScriptLine, 0, len(script))
	var joined strings.Builder
	for i, line := range script {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			return nil, fmt.Sprintf("script line %d is empty", i+1)
		}
		if len(text) > MaxLineLen {
			return nil, fmt.Sprintf("script line %d exceeds %d characters", i+1, MaxLineLen)
		}
		if line.SpeakerID != 1 && line.SpeakerID != 2 {
			return nil, fmt.Sprintf("script line %d has an invalid speaker id", i+1)
		}
		out = append(out, model.ScriptLine{Text: text, SpeakerID: line.SpeakerID})
		joined.WriteString(text)
		joined.WriteString(" ")
	}

	if !isEnglish(joined.String()) {
		return nil, "only English scripts are supported"
	}
	return out, ""
}

// ValidateUserAgent trims and truncates user agent to DB limits.
func ValidateUserAgent(ua string) string {
	ua = strings.TrimSpace(ua)
	if len(ua) > MaxUserAgentLen {
		ua = ua[:MaxUserAgentLen]
	}
	return ua
}

// isEnglish runs language detection, treating unreliable results as
// English rather than rejecting short prompts the detector cannot place.
func isEnglish(text string) bool {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return true
	}
	return info.Lang == whatlanggo.Eng
}
