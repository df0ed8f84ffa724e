package config

import (
	"os"
	"testing"
)

func TestNewValidProvider(t *testing.T) {
	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "gemini" {
		t.Errorf("expected provider 'gemini', got %q", settings.LLM.Provider)
	}
}

func TestNewWithAlias(t *testing.T) {
	settings, err := New("google")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "gemini" {
		t.Errorf("expected provider 'gemini' (normalized from 'google'), got %q", settings.LLM.Provider)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("unknown_provider")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestReflectDefaults(t *testing.T) {
	for _, key := range []string{"REFLECT_STEPS", "REFLECT_MAX_ITERATIONS", "REFLECT_RELEVANCE_THRESHOLD", "REFLECT_QUALITY_THRESHOLD"} {
		original := os.Getenv(key)
		os.Unsetenv(key)
		defer os.Setenv(key, original)
	}

	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Reflect.Steps != 3 {
		t.Errorf("expected default steps 3, got %d", settings.Reflect.Steps)
	}
	if settings.Reflect.MaxIterations != 5 {
		t.Errorf("expected default max iterations 5, got %d", settings.Reflect.MaxIterations)
	}
	if settings.Reflect.RelevanceThreshold != 0.7 {
		t.Errorf("expected default relevance threshold 0.7, got %v", settings.Reflect.RelevanceThreshold)
	}
	if settings.Reflect.QualityThreshold != 0.6 {
		t.Errorf("expected default quality threshold 0.6, got %v", settings.Reflect.QualityThreshold)
	}
}

func TestAPIKeyForValidProvider(t *testing.T) {
	original := os.Getenv("GEMINI_API_KEY")
	os.Setenv("GEMINI_API_KEY", "test-key")
	defer os.Setenv("GEMINI_API_KEY", original)

	key, err := APIKeyFor("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "test-key" {
		t.Errorf("expected 'test-key', got %q", key)
	}
}

func TestAPIKeyForMissing(t *testing.T) {
	original := os.Getenv("GEMINI_API_KEY")
	os.Unsetenv("GEMINI_API_KEY")
	defer os.Setenv("GEMINI_API_KEY", original)

	_, err := APIKeyFor("gemini")
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestAPIKeyForUnknownProvider(t *testing.T) {
	_, err := APIKeyFor("unknown")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestModelFor(t *testing.T) {
	model, err := ModelFor("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model == "" {
		t.Error("expected non-empty model")
	}
}

func TestNewWithInvalidEnvVar(t *testing.T) {
	original := os.Getenv("REFLECT_STEPS")
	os.Setenv("REFLECT_STEPS", "not-a-number")
	defer os.Setenv("REFLECT_STEPS", original)

	_, err := New("gemini")
	if err == nil {
		t.Error("expected error for invalid REFLECT_STEPS")
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown provider")
		}
	}()
	MustNew("unknown_provider")
}

func TestSupportedProviders(t *testing.T) {
	providers := SupportedProviders()
	if len(providers) == 0 {
		t.Error("expected at least one supported provider")
	}
}
