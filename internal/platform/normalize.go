package platform

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// sectionBreak matches a blank-line separator: two or more consecutive newlines.
var sectionBreak = regexp.MustCompile(`\n{2,}`)

// hashtagPattern matches a hashtag token such as #golang or #día_1.
var hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// SplitSections splits text on blank-line separators.
// Sections keep their internal single line breaks; empty sections are retained.
func SplitSections(text string) []string {
	return sectionBreak.Split(text, -1)
}

// Normalize reshapes generated text for the given platform.
//
// Twitter keeps only the first section with non-blank content, Instagram joins
// the non-empty sections with a blank line, Facebook joins them with a single
// newline. Unknown platforms get the text back unchanged. Length and hashtag
// limits are not enforced here.
//
// Normalize is not idempotent for Instagram and Facebook: re-splitting joined
// output can detect a different number of sections.
func Normalize(rawText string, id ID) string {
	switch id {
	case Twitter:
		for _, section := range SplitSections(rawText) {
			if strings.TrimFunc(section, isBlank) != "" {
				return section
			}
		}
		return ""
	case Instagram:
		return strings.Join(nonEmpty(SplitSections(rawText)), "\n\n")
	case Facebook:
		return strings.Join(nonEmpty(SplitSections(rawText)), "\n")
	default:
		return rawText
	}
}

// isBlank reports whitespace and the byte order mark, which models
// occasionally emit at the start of a reply.
func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// nonEmpty drops zero-length sections. Whitespace-only sections are kept.
func nonEmpty(sections []string) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Report is an advisory summary of a post measured against a platform's rules.
type Report struct {
	Platform        ID   `json:"platform"`
	Characters      int  `json:"characters"`
	MaxLength       int  `json:"max_length,omitempty"`
	Hashtags        int  `json:"hashtags"`
	HashtagLimit    int  `json:"hashtag_limit,omitempty"`
	OverLength      bool `json:"over_length"`
	TooManyHashtags bool `json:"too_many_hashtags"`
}

// Analyze measures text against the rules for id without modifying it.
// Unknown platforms produce a report with counts only.
func Analyze(text string, id ID) Report {
	report := Report{
		Platform:   id,
		Characters: utf8.RuneCountInString(text),
		Hashtags:   len(hashtagPattern.FindAllString(text, -1)),
	}
	r, ok := rules[id]
	if !ok {
		return report
	}
	report.MaxLength = r.MaxLength
	report.HashtagLimit = r.HashtagLimit
	report.OverLength = report.Characters > r.MaxLength
	report.TooManyHashtags = report.Hashtags > r.HashtagLimit
	return report
}
