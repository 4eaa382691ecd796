package llm

import "testing"

func TestModelName(t *testing.T) {
	t.Setenv("COPYGEN_MODEL", "")
	if got := ModelName(); got != DefaultModelName {
		t.Errorf("expected default model %q, got %q", DefaultModelName, got)
	}

	t.Setenv("COPYGEN_MODEL", "gemini-2.5-pro")
	if got := ModelName(); got != ModelGemini25Pro {
		t.Errorf("expected override, got %q", got)
	}

	t.Setenv("COPYGEN_MODEL", "  gemini-2.5-flash-lite  ")
	if got := ModelName(); got != ModelGemini25FlashLite {
		t.Errorf("expected trimmed override, got %q", got)
	}
}

func TestNewClientRejectsEmptyKey(t *testing.T) {
	if _, err := NewClient(t.Context(), "   ", ""); err == nil {
		t.Error("expected error for empty API key")
	}
}
