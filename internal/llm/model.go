package llm

import (
	"os"
	"strings"
)

// Gemini model IDs used for copy generation.
const (
	// ModelGemini25Pro is stable, for high-reasoning tasks.
	ModelGemini25Pro = "gemini-2.5-pro"

	// ModelGemini25Flash is stable, balanced performance.
	ModelGemini25Flash = "gemini-2.5-flash"

	// ModelGemini25FlashLite is for high-throughput, lowest cost.
	ModelGemini25FlashLite = "gemini-2.5-flash-lite"
)

// DefaultModelName is the model used when no override is configured. Copy
// generation is a short structured-output task, so the balanced Flash tier
// is the right default.
const DefaultModelName = ModelGemini25Flash

// ModelName returns the Gemini model to use, resolved from the COPYGEN_MODEL
// environment variable when set, falling back to DefaultModelName.
func ModelName() string {
	if m := strings.TrimSpace(os.Getenv("COPYGEN_MODEL")); m != "" {
		return m
	}
	return DefaultModelName
}
