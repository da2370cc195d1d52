// Package platform defines the per-network posting rules and the normalizer
// that reshapes generated text to fit each network's conventions.
package platform

// ID identifies a social network.
type ID string

// Known platform identifiers.
const (
	Twitter   ID = "twitter"
	Instagram ID = "instagram"
	Facebook  ID = "facebook"
)

// Formatting describes the structural conventions of a platform.
type Formatting struct {
	LineBreaksAllowed bool `json:"line_breaks_allowed"`
	EmojiRecommended  bool `json:"emoji_recommended"`
	MentionsAllowed   bool `json:"mentions_allowed"`
}

// Rules is the static configuration for one platform.
// MaxLength and HashtagLimit are advisory: they feed the generation prompt
// and the preview report, the normalizer never enforces them.
type Rules struct {
	ID                ID         `json:"id"`
	Name              string     `json:"name"`
	MaxLength         int        `json:"max_length"`
	HashtagLimit      int        `json:"hashtag_limit"`
	Formatting        Formatting `json:"formatting"`
	ContentGuidelines []string   `json:"content_guidelines"`
}

// order is the display order used by IDs and All.
var order = []ID{Twitter, Instagram, Facebook}

var rules = map[ID]Rules{
	Twitter: {
		ID:           Twitter,
		Name:         "Twitter (X)",
		MaxLength:    280,
		HashtagLimit: 3,
		Formatting: Formatting{
			LineBreaksAllowed: true,
			EmojiRecommended:  true,
			MentionsAllowed:   true,
		},
		ContentGuidelines: []string{
			"Short and concise",
			"Use relevant hashtags",
			"Engage with questions",
			"Include call-to-actions",
		},
	},
	Instagram: {
		ID:           Instagram,
		Name:         "Instagram",
		MaxLength:    2200,
		HashtagLimit: 30,
		Formatting: Formatting{
			LineBreaksAllowed: true,
			EmojiRecommended:  true,
			MentionsAllowed:   true,
		},
		ContentGuidelines: []string{
			"Visual-first description",
			"Use line breaks for readability",
			"Group hashtags at the end",
			"Include emojis for engagement",
		},
	},
	Facebook: {
		ID:           Facebook,
		Name:         "Facebook",
		MaxLength:    63206,
		HashtagLimit: 5,
		Formatting: Formatting{
			LineBreaksAllowed: true,
			EmojiRecommended:  false,
			MentionsAllowed:   true,
		},
		ContentGuidelines: []string{
			"Longer, more detailed content",
			"Focus on storytelling",
			"Minimal hashtag usage",
			"Include rich context",
		},
	},
}

// Lookup returns a copy of the rules for id.
func Lookup(id ID) (Rules, bool) {
	r, ok := rules[id]
	if !ok {
		return Rules{}, false
	}
	r.ContentGuidelines = append([]string(nil), r.ContentGuidelines...)
	return r, true
}

// Known reports whether id is a supported platform.
func Known(id ID) bool {
	_, ok := rules[id]
	return ok
}

// IDs returns the supported platforms in display order.
func IDs() []ID {
	return append([]ID(nil), order...)
}

// All returns copies of every platform's rules in display order.
func All() []Rules {
	out := make([]Rules, 0, len(order))
	for _, id := range order {
		r, _ := Lookup(id)
		out = append(out, r)
	}
	return out
}
