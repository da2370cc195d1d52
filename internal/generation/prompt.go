package generation

import (
	"strconv"
	"strings"

	"github.com/jonathan/postsphere/internal/platform"
	"github.com/jonathan/postsphere/internal/prompts"
)

const promptFile = "social.json"

// BuildPrompt interpolates a platform's rules and the user's theme into the
// post-generation template. An empty theme falls back to a generic topic.
func BuildPrompt(rules platform.Rules, theme string) string {
	if strings.TrimSpace(theme) == "" {
		theme = prompts.MustGet(promptFile, "default-theme")
	}

	return prompts.Format(prompts.MustGet(promptFile, "platform-post"), map[string]string{
		"PlatformName": rules.Name,
		"MaxLength":    strconv.Itoa(rules.MaxLength),
		"HashtagLimit": strconv.Itoa(rules.HashtagLimit),
		"Guidelines":   strings.Join(rules.ContentGuidelines, ", "),
		"Theme":        theme,
		"Emoji":        choose(rules.Formatting.EmojiRecommended, "Yes", "Sparingly"),
		"LineBreaks":   choose(rules.Formatting.LineBreaksAllowed, "Allowed", "Minimal"),
		"Mentions":     choose(rules.Formatting.MentionsAllowed, "Allowed", "Avoid"),
	})
}

func choose(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
