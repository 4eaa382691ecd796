package generator

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fpang/ai-commerce-copy/internal/content"
)

var titleCaser = cases.Title(language.English)

// ProductInfo renders a record as sanitized "key: value" lines for prompt
// embedding. Image data is noted but not analyzed; attributes keep their
// input order.
func ProductInfo(rec content.ProductRecord) string {
	var parts []string

	if rec.Name != "" {
		parts = append(parts, "Product Name: "+content.Sanitize(rec.Name))
	}
	if len(rec.ImageData) > 0 {
		parts = append(parts, "Image: Product image provided for visual analysis")
	}
	for _, attr := range rec.Attributes {
		parts = append(parts, content.Sanitize(attr.Key)+": "+content.Sanitize(attr.Value))
	}

	if len(parts) == 0 {
		return "Product information not provided"
	}
	return strings.Join(parts, "\n")
}

// BuildPrompt renders the tone-specific generation prompt. The structural
// requirements (title length, description word range, hashtag count, JSON
// shape) are stated explicitly so that well-behaved models need no repair.
// The output is deterministic for a given info/tone/profile triple.
func BuildPrompt(info, tone string, profile ToneProfile) string {
	return fmt.Sprintf(`You are an expert e-commerce content generator. Create compelling product content based on the following information:

%s

TONE OF VOICE: %s - %s
Style: Write in a %s manner.
Keywords to consider: %s

REQUIREMENTS:
1. Generate an SEO-optimized product title (maximum 60 characters)
2. Create a compelling product description (100-300 words)
3. Generate exactly 5 relevant Instagram hashtags

FORMAT YOUR RESPONSE AS JSON:
{
    "title": "Your SEO-optimized title here (<=60 chars)",
    "description": "Your compelling product description here (100-300 words)",
    "hashtags": ["#hashtag1", "#hashtag2", "#hashtag3", "#hashtag4", "#hashtag5"]
}

GUIDELINES:
- Title: Focus on key benefits, include relevant keywords, stay under 60 characters
- Description: Highlight features, benefits, and use cases. Make it engaging and informative.
- Hashtags: Use popular, relevant hashtags that match the product and tone. Include # symbol.
- Tone: Maintain the %s tone throughout all content
- SEO: Include relevant keywords naturally without keyword stuffing

Generate the content now:`,
		info,
		titleCaser.String(tone), profile.Description,
		profile.Style,
		strings.Join(profile.Keywords, ", "),
		tone,
	)
}
