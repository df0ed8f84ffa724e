package scoring

import (
	"math"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreQualityEmpty(t *testing.T) {
	if got := ScoreQuality(""); got != 0.0 {
		t.Errorf("expected 0.0 for empty response, got %v", got)
	}
}

func TestScoreQualityUnderLength(t *testing.T) {
	if got := ScoreQuality("short"); got != 0.0 {
		t.Errorf("expected 0.0 for under-length response, got %v", got)
	}
	// Whitespace padding does not count toward the floor.
	if got := ScoreQuality("short" + strings.Repeat(" ", 100)); got != 0.0 {
		t.Errorf("expected 0.0 for padded short response, got %v", got)
	}
}

func TestScoreQualityClean(t *testing.T) {
	response := "Machine learning is a branch of computer science concerned with algorithms that improve through experience."
	if got := ScoreQuality(response); got != 1.0 {
		t.Errorf("expected 1.0 for clean response, got %v", got)
	}
}

func TestScoreQualitySingleMetaPhrase(t *testing.T) {
	response := "Thank you for the feedback. Here is a longer passage about container orchestration and scheduling."
	if got := ScoreQuality(response); !almostEqual(got, 0.7) {
		t.Errorf("expected 0.7 for one meta phrase, got %v", got)
	}
}

func TestScoreQualityFloorsAtZero(t *testing.T) {
	// Four distinct meta phrases; penalty would be 1.2 without the floor.
	response := "Please improve the document and revise the introduction. " +
		"This response is excellent. Why this revised response works is explained below."
	if got := ScoreQuality(response); got != 0.0 {
		t.Errorf("expected 0.0 floor, got %v", got)
	}
}

func TestScoreQualityTwoMetaPhrases(t *testing.T) {
	response := "Please improve the document and then revise the conclusion with more detail about deployment."
	if got := ScoreQuality(response); !almostEqual(got, 0.4) {
		t.Errorf("expected 0.4 for two meta phrases, got %v", got)
	}
}

func TestScoreRelevanceEmptyPrompt(t *testing.T) {
	// Fewer than one non-stopword token longer than 3 characters.
	for _, prompt := range []string{"", "the and or", "it is was"} {
		if got := ScoreRelevance(prompt, "anything at all about any topic whatsoever"); got != 1.0 {
			t.Errorf("ScoreRelevance(%q, ...) = %v, want 1.0", prompt, got)
		}
	}
}

func TestScoreRelevanceFullOverlap(t *testing.T) {
	prompt := "kubernetes container orchestration"
	candidate := "Kubernetes handles container orchestration across clusters."
	if got := ScoreRelevance(prompt, candidate); got != 1.0 {
		t.Errorf("expected capped score 1.0, got %v", got)
	}
}

func TestScoreRelevanceBoostedPartialOverlap(t *testing.T) {
	// 1 of 2 prompt keywords present: 0.5 * 1.5 = 0.75.
	prompt := "kubernetes deployment"
	candidate := "This text discusses kubernetes and nothing else of note."
	if got := ScoreRelevance(prompt, candidate); !almostEqual(got, 0.75) {
		t.Errorf("expected 0.75, got %v", got)
	}
}

func TestScoreRelevanceNoOverlap(t *testing.T) {
	if got := ScoreRelevance("kubernetes deployment", "gardening tips about roses"); got != 0.0 {
		t.Errorf("expected 0.0, got %v", got)
	}
}

func TestScoreRelevanceDirectional(t *testing.T) {
	// Divides by the first argument's keyword count only.
	a := "kubernetes"
	b := "kubernetes deployment scaling monitoring"
	ab := ScoreRelevance(a, b) // 1/1 * 1.5 capped -> 1.0
	ba := ScoreRelevance(b, a) // 1/4 * 1.5 -> 0.375
	if ab == ba {
		t.Errorf("expected asymmetric scores, got %v both ways", ab)
	}
	if !almostEqual(ba, 0.375) {
		t.Errorf("expected 0.375, got %v", ba)
	}
}

func TestPasses(t *testing.T) {
	cases := []struct {
		relevance, quality float64
		want               bool
	}{
		{0.7, 0.6, true},
		{1.0, 1.0, true},
		{0.69, 1.0, false},
		{1.0, 0.59, false},
		{0.0, 0.0, false},
	}
	for _, c := range cases {
		if got := Passes(c.relevance, c.quality); got != c.want {
			t.Errorf("Passes(%v, %v) = %v, want %v", c.relevance, c.quality, got, c.want)
		}
	}
}
