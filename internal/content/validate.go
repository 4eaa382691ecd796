package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Format invariants for generated content.
const (
	MaxTitleChars = 60
	MinDescWords  = 100
	MaxDescWords  = 300
	HashtagCount  = 5
)

// hashtagPattern accepts a # followed by letters, digits, and underscores.
var hashtagPattern = regexp.MustCompile(`^#[A-Za-z0-9_]+$`)

// Validate checks generated content against the format invariants: title
// non-empty and at most 60 characters, description 100-300 words, exactly
// five well-formed hashtags. Overlong hashtags (>30 characters) produce a
// warning rather than an error. Validate never mutates its input.
func Validate(c GeneratedContent) ValidationOutcome {
	var out ValidationOutcome

	switch {
	case c.Title == "":
		out.Errors = append(out.Errors, "title cannot be empty")
	case utf8.RuneCountInString(c.Title) > MaxTitleChars:
		out.Errors = append(out.Errors, fmt.Sprintf(
			"title must be at most %d characters (current: %d)", MaxTitleChars, utf8.RuneCountInString(c.Title)))
	}

	if strings.TrimSpace(c.Description) == "" {
		out.Errors = append(out.Errors, "description cannot be empty")
	} else {
		words := c.WordCount()
		if words < MinDescWords {
			out.Errors = append(out.Errors, fmt.Sprintf(
				"description must be at least %d words (current: %d)", MinDescWords, words))
		} else if words > MaxDescWords {
			out.Errors = append(out.Errors, fmt.Sprintf(
				"description must be at most %d words (current: %d)", MaxDescWords, words))
		}
	}

	if len(c.Hashtags) != HashtagCount {
		out.Errors = append(out.Errors, fmt.Sprintf(
			"must have exactly %d hashtags (current: %d)", HashtagCount, len(c.Hashtags)))
	} else {
		for i, tag := range c.Hashtags {
			switch {
			case !strings.HasPrefix(tag, "#"):
				out.Errors = append(out.Errors, fmt.Sprintf("hashtag %d must start with '#'", i+1))
			case utf8.RuneCountInString(tag) < 2:
				out.Errors = append(out.Errors, fmt.Sprintf("hashtag %d is too short", i+1))
			case utf8.RuneCountInString(tag) > 30:
				out.Warnings = append(out.Warnings, fmt.Sprintf("hashtag %d is very long (>30 characters)", i+1))
			case !hashtagPattern.MatchString(tag):
				out.Errors = append(out.Errors, fmt.Sprintf(
					"hashtag %d contains invalid characters (only letters, numbers, and underscores allowed)", i+1))
			}
		}
	}

	out.Valid = len(out.Errors) == 0
	return out
}
