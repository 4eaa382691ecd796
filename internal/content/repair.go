package content

import (
	"strings"
	"unicode/utf8"
)

// fillerWords is the fixed vocabulary used to pad short descriptions up to
// the minimum word count. The padding cycles through this list in order, so
// repaired output is fully deterministic.
var fillerWords = []string{
	"This", "product", "offers", "excellent", "quality", "and", "value", "for", "customers", "looking",
	"for", "reliable", "solutions.", "It", "features", "premium", "materials", "and", "advanced", "technology",
	"to", "deliver", "outstanding", "performance.", "The", "design", "is", "both", "functional", "and",
	"aesthetically", "pleasing,", "making", "it", "perfect", "for", "both", "personal", "and", "professional",
	"use.", "With", "its", "durable", "construction", "and", "innovative", "features,", "this", "product",
	"stands", "out", "in", "the", "market.", "Customers", "appreciate", "its", "reliability", "and",
	"ease", "of", "use.", "The", "product", "comes", "with", "comprehensive", "support", "and", "warranty",
	"coverage.", "Whether", "you're", "a", "beginner", "or", "an", "expert,", "this", "product", "will",
	"meet", "your", "needs", "and", "exceed", "your", "expectations.", "Order", "now", "and", "experience",
	"the", "difference", "quality", "makes.", "Available", "now", "with", "fast", "shipping", "worldwide.",
}

// genericHashtags tops up hashtag lists that came back short.
var genericHashtags = []string{"#product", "#quality", "#ecommerce", "#shopping", "#new"}

// Repair deterministically fixes the common invariant violations in generated
// content without discarding useful material: missing titles get a generic
// default, overlong titles are truncated
// with an ellipsis, short descriptions are padded to exactly the minimum word
// count from the filler vocabulary, long ones are cut at the maximum, and the
// hashtag list is topped up from the generic set or trimmed to exactly five,
// with disallowed characters stripped from every tag.
// Repair is total and idempotent: repairing already-valid content returns it
// unchanged, and Repair(Repair(c)) == Repair(c).
func Repair(c GeneratedContent) GeneratedContent {
	if c.Title == "" {
		c.Title = "Product Title"
	}
	if utf8.RuneCountInString(c.Title) > MaxTitleChars {
		c.Title = string([]rune(c.Title)[:MaxTitleChars-3]) + "..."
	}

	words := strings.Fields(c.Description)
	if len(words) < MinDescWords {
		needed := MinDescWords - len(words)
		padding := make([]string, 0, needed)
		for i := 0; i < needed; i++ {
			padding = append(padding, fillerWords[i%len(fillerWords)])
		}
		c.Description += " " + strings.Join(padding, " ")
	} else if len(words) > MaxDescWords {
		c.Description = strings.Join(words[:MaxDescWords], " ")
	}

	tags := make([]string, 0, HashtagCount)
	tags = append(tags, c.Hashtags...)
	if len(tags) < HashtagCount {
		for _, generic := range genericHashtags {
			if len(tags) >= HashtagCount {
				break
			}
			if !containsTag(tags, generic) {
				tags = append(tags, generic)
			}
		}
	} else if len(tags) > HashtagCount {
		tags = tags[:HashtagCount]
	}
	for i, tag := range tags {
		tags[i] = normalizeTag(tag)
	}
	// Tags with no usable characters left are swapped for an unused generic.
	// With exactly five slots at least one generic is always free.
	for i, tag := range tags {
		if tag != "#" {
			continue
		}
		for _, generic := range genericHashtags {
			if !containsTag(tags, generic) {
				tags[i] = generic
				break
			}
		}
	}
	c.Hashtags = tags

	return c
}

// normalizeTag rebuilds a hashtag as "#" followed by only the characters the
// format allows (letters, digits, underscores), dropping everything else.
func normalizeTag(tag string) string {
	var b strings.Builder
	for _, r := range tag {
		if r == '_' || (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			b.WriteRune(r)
		}
	}
	return "#" + b.String()
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
