package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubProvider struct {
	content string
	err     error
	last    []ChatMessage
}

func (p *stubProvider) Name() string  { return "stub" }
func (p *stubProvider) Model() string { return "stub-model" }

func (p *stubProvider) Chat(_ context.Context, messages []ChatMessage) (LLMResponse, error) {
	p.last = messages
	if p.err != nil {
		return LLMResponse{}, p.err
	}
	return LLMResponse{Content: p.content}, nil
}

func TestClientGenerate(t *testing.T) {
	provider := &stubProvider{content: "generated text"}
	client := NewClient(provider)

	got, err := client.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "generated text" {
		t.Errorf("expected 'generated text', got %q", got)
	}
	if len(provider.last) != 1 || provider.last[0].Role != "user" {
		t.Errorf("expected single user message, got %v", provider.last)
	}
	if provider.last[0].Content != "hello" {
		t.Errorf("expected prompt 'hello', got %q", provider.last[0].Content)
	}
}

func TestClientGenerateWrapsError(t *testing.T) {
	cause := errors.New("connection refused")
	client := NewClient(&stubProvider{err: cause})

	_, err := client.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %T", err)
	}
	if genErr.Provider != "stub" {
		t.Errorf("expected provider 'stub', got %q", genErr.Provider)
	}
	if !errors.Is(err, cause) {
		t.Error("expected error chain to include the cause")
	}
	if !strings.Contains(err.Error(), "stub generation failed") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestClientChat(t *testing.T) {
	client := NewClient(&stubProvider{content: "reply"})

	got, err := client.Chat(context.Background(), []ChatMessage{
		SystemMessage("be brief"),
		UserMessage("question"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "reply" {
		t.Errorf("expected 'reply', got %q", got)
	}
}

func TestParseProviderType(t *testing.T) {
	cases := map[string]ProviderType{
		"gemini":    ProviderGemini,
		"google":    ProviderGemini,
		"OpenAI":    ProviderOpenAI,
		"claude":    ProviderAnthropic,
		"anthropic": ProviderAnthropic,
		"deepseek":  ProviderDeepSeek,
	}
	for input, want := range cases {
		got, err := ParseProviderType(input)
		if err != nil {
			t.Errorf("ParseProviderType(%q) error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseProviderType(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := ParseProviderType("cohere"); err == nil {
		t.Error("expected error for unknown provider")
	}
}
