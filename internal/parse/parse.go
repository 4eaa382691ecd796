// Package parse turns raw model replies into candidate content fields. LLM
// responses are requested as JSON but arrive wrapped in markdown code fences,
// embedded in prose, or mangled outright, so parsing proceeds in stages:
// fence stripping, structured JSON decoding, and a prioritized regex fallback
// that salvages whatever fields it can.
package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Fields is the raw field set extracted from one model reply. It has been
// normalized (trimmed strings, #-prefixed hashtags) but not yet validated
// against length or count invariants.
type Fields struct {
	Title       string
	Description string
	Hashtags    []string
}

// Default values substituted for fields the fallback extractor could not
// recover. Repair downstream always has something to work with.
var (
	defaultTitle       = "Product Title"
	defaultDescription = "Product description not available."
	defaultHashtags    = []string{"#product", "#ecommerce", "#shopping", "#quality", "#new"}
)

// ParseError reports a reply from which no field could be extracted by any
// strategy. It carries a truncated preview of the reply for debugging.
type ParseError struct {
	Reason  string
	Preview string
}

func (e *ParseError) Error() string {
	if e.Preview == "" {
		return "could not parse model response: " + e.Reason
	}
	return fmt.Sprintf("could not parse model response: %s (text: %s)", e.Reason, e.Preview)
}

// Response extracts content fields from a raw model reply. It strips a
// wrapping markdown code fence, attempts JSON decoding, and falls back to
// pattern extraction when decoding fails or required fields are absent.
// It returns a ParseError only when no strategy recovered any of title,
// description, or hashtags; otherwise missing fields receive safe defaults.
func Response(raw string) (Fields, error) {
	text := StripMarkdownFences(raw)

	var decoded map[string]any
	if err := json.Unmarshal([]byte(text), &decoded); err == nil {
		if fields, ok := fieldsFromJSON(decoded); ok {
			return fields, nil
		}
	}

	return extractWithPatterns(text)
}

// StripMarkdownFences removes a ```json ... ``` or ``` ... ``` wrapping from
// text. Returns the content between the fences, or the original text if no
// fence is found.
func StripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// fieldsFromJSON pulls the three required fields out of a decoded JSON
// object. Non-string scalars are coerced to strings the way lenient models
// sometimes require (numeric titles, unquoted hashtags). Returns ok=false
// when any required field is missing or hashtags is not an array, in which
// case the caller falls back to pattern extraction.
func fieldsFromJSON(m map[string]any) (Fields, bool) {
	titleVal, hasTitle := m["title"]
	descVal, hasDesc := m["description"]
	tagsVal, hasTags := m["hashtags"]
	if !hasTitle || !hasDesc || !hasTags {
		return Fields{}, false
	}

	tagList, ok := tagsVal.([]any)
	if !ok {
		return Fields{}, false
	}

	fields := Fields{
		Title:       strings.TrimSpace(coerceString(titleVal)),
		Description: strings.TrimSpace(coerceString(descVal)),
	}
	for _, tag := range tagList {
		s := strings.TrimSpace(coerceString(tag))
		if !strings.HasPrefix(s, "#") {
			s = "#" + s
		}
		fields.Hashtags = append(fields.Hashtags, s)
	}
	return fields, true
}

func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Pattern lists are ordered by priority: quoted JSON-style fragments first,
// then labeled lines.
var (
	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)"title":\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)title:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)title:\s*([^\n]+)`),
	}
	descPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)"description":\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)description:\s*"([^"]+)"`),
	}
	// descLabelPattern grabs everything after a "Description:" label; the
	// match is then cut at the first blank line, hashtag list, or hashtag
	// token (RE2 has no lookahead, so the terminator is applied manually).
	descLabelPattern = regexp.MustCompile(`(?is)description:\s*(.+)`)
	descTerminators  = []string{"\n\n", "\nhashtags", "\n#"}

	hashtagListPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)"hashtags":\s*\[(.*?)\]`),
		regexp.MustCompile(`(?is)hashtags:\s*\[(.*?)\]`),
		regexp.MustCompile(`(?i)hashtags:\s*([^\n]+)`),
	}
	hashtagToken = regexp.MustCompile(`#\w+`)
)

// extractWithPatterns is the fallback parsing method for replies that are
// not valid JSON. Each field is searched for independently; a ParseError is
// returned only when nothing at all could be recovered.
func extractWithPatterns(text string) (Fields, error) {
	var fields Fields

	for _, p := range titlePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			fields.Title = strings.TrimSpace(m[1])
			break
		}
	}

	for _, p := range descPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			fields.Description = strings.TrimSpace(m[1])
			break
		}
	}
	if fields.Description == "" {
		if m := descLabelPattern.FindStringSubmatch(text); m != nil {
			fields.Description = strings.TrimSpace(cutAtTerminator(m[1]))
		}
	}

	fields.Hashtags = extractHashtags(text)

	if fields.Title == "" && fields.Description == "" && len(fields.Hashtags) == 0 {
		preview := text
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return Fields{}, &ParseError{Reason: "no valid content could be extracted", Preview: preview}
	}

	if fields.Title == "" {
		fields.Title = defaultTitle
	}
	if fields.Description == "" {
		fields.Description = defaultDescription
	}
	if len(fields.Hashtags) == 0 {
		fields.Hashtags = append([]string(nil), defaultHashtags...)
	}
	return fields, nil
}

func cutAtTerminator(s string) string {
	lower := strings.ToLower(s)
	cut := len(s)
	for _, term := range descTerminators {
		if idx := strings.Index(lower, term); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return s[:cut]
}

// extractHashtags finds hashtag candidates, preferring bracketed or labeled
// lists and falling back to every #word token in the reply. Comma-separated
// bare words inside a matched list are promoted to hashtags.
func extractHashtags(text string) []string {
	for _, p := range hashtagListPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if tags := hashtagToken.FindAllString(m[1], -1); len(tags) > 0 {
			return tags
		}
		if strings.Contains(m[1], ",") {
			var tags []string
			for _, part := range strings.Split(m[1], ",") {
				part = strings.Trim(strings.TrimSpace(part), `"'`)
				if part != "" {
					tags = append(tags, "#"+strings.TrimPrefix(part, "#"))
				}
			}
			if len(tags) > 0 {
				return tags
			}
		}
	}
	return hashtagToken.FindAllString(text, -1)
}
