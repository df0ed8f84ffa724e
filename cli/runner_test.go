package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadPromptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.txt")
	content := "first prompt\n\n  second prompt  \n\t\nthird prompt\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	prompts, err := readPromptFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"first prompt", "second prompt", "third prompt"}
	if len(prompts) != len(want) {
		t.Fatalf("expected %d prompts, got %d", len(want), len(prompts))
	}
	for i := range want {
		if prompts[i] != want[i] {
			t.Errorf("prompt %d = %q, want %q", i, prompts[i], want[i])
		}
	}
}

func TestReadPromptFileMissing(t *testing.T) {
	if _, err := readPromptFile("/no/such/file"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCreateProviderMissingKey(t *testing.T) {
	original := os.Getenv("GEMINI_API_KEY")
	os.Unsetenv("GEMINI_API_KEY")
	defer os.Setenv("GEMINI_API_KEY", original)

	_, _, err := createProvider(Options{Provider: "gemini"})
	if err == nil {
		t.Error("expected configuration error for missing API key")
	}
}

func TestCreateProviderUnknown(t *testing.T) {
	if _, _, err := createProvider(Options{Provider: "mystery"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	if got := truncate("a longer string entirely", 8); got != "a longer..." {
		t.Errorf("unexpected truncation: %q", got)
	}
}
