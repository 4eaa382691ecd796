package generator

import (
	"strings"
	"testing"

	"github.com/fpang/ai-commerce-copy/internal/content"
)

func TestProductInfo(t *testing.T) {
	rec := content.ProductRecord{
		Name:      "Ceramic Coffee Mug",
		ImageData: []byte{0xFF},
		Attributes: []content.Attribute{
			{Key: "material", Value: "ceramic"},
			{Key: "color", Value: "blue"},
		},
	}

	got := ProductInfo(rec)
	want := "Product Name: Ceramic Coffee Mug\n" +
		"Image: Product image provided for visual analysis\n" +
		"material: ceramic\n" +
		"color: blue"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestProductInfoEmptyRecord(t *testing.T) {
	got := ProductInfo(content.ProductRecord{})
	if got != "Product information not provided" {
		t.Errorf("unexpected fallback text %q", got)
	}
}

func TestProductInfoSanitizesHTML(t *testing.T) {
	rec := content.ProductRecord{
		Name: `Mug <script>alert("x")</script>`,
		Attributes: []content.Attribute{
			{Key: "note", Value: "<b>bold</b> claim"},
		},
	}

	got := ProductInfo(rec)
	if strings.Contains(got, "<script>") || strings.Contains(got, "<b>") {
		t.Errorf("HTML not sanitized: %q", got)
	}
	if !strings.Contains(got, "bold claim") {
		t.Errorf("inner text lost during sanitization: %q", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	profile := DefaultCatalogue().Get("casual")
	prompt := BuildPrompt("Product Name: Mug", "casual", profile)

	for _, fragment := range []string{
		"Product Name: Mug",
		"TONE OF VOICE: Casual - Friendly, conversational tone",
		"Write in a friendly and approachable manner",
		"great, awesome, perfect, love, enjoy",
		"maximum 60 characters",
		"100-300 words",
		"exactly 5 relevant Instagram hashtags",
		"FORMAT YOUR RESPONSE AS JSON",
		"Maintain the casual tone throughout",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	profile := DefaultCatalogue().Get("luxury")
	a := BuildPrompt("Product Name: Watch", "luxury", profile)
	b := BuildPrompt("Product Name: Watch", "luxury", profile)
	if a != b {
		t.Error("expected identical prompts for identical input")
	}
}
