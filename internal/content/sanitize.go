package content

import (
	"regexp"
	"strings"
)

// The sanitizer strips markup that has no business inside a prompt. Input
// rows come from arbitrary spreadsheets, which in practice means pasted web
// content, so script tags and inline event handlers do show up.
var (
	scriptTagPattern    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
	javascriptPattern   = regexp.MustCompile(`(?i)javascript:\s*`)
	eventHandlerPattern = regexp.MustCompile(`(?i)on\w+\s*=\s*[^>\s]*`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// Sanitize removes script blocks, HTML tags, javascript: URLs, and inline
// event handlers from text, then collapses runs of whitespace to a single
// space and trims the result.
func Sanitize(text string) string {
	text = scriptTagPattern.ReplaceAllString(text, "")
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = javascriptPattern.ReplaceAllString(text, "")
	text = eventHandlerPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
