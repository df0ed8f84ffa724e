package scoring

import "strings"

// Default validation thresholds for a refinement round.
const (
	// DefaultRelevanceThreshold is the minimum relevance score for a round to pass.
	DefaultRelevanceThreshold = 0.7
	// DefaultQualityThreshold is the minimum quality score for a round to pass.
	DefaultQualityThreshold = 0.6
)

// relevanceBoost forgives partial keyword overlap between prompt and response.
const relevanceBoost = 1.5

// minSubstantialLength is the character floor below which a response scores zero.
const minSubstantialLength = 50

// metaPhrasePenalty is deducted per matched meta-commentary phrase.
const metaPhrasePenalty = 0.3

// metaPhrases are signs the model drifted into discussing feedback about the
// improvement process instead of producing content.
var metaPhrases = []string{
	"feedback",
	"suggestion",
	"improve the document",
	"revise the",
	"thank you for the feedback",
	"this response is excellent",
	"minor suggestions",
	"why this revised response",
}

// ScoreRelevance measures topical overlap between the original prompt and a
// candidate response. Returns 1.0 when the prompt yields no keywords (nothing
// to violate); otherwise a boosted overlap ratio capped at 1.0.
//
// The score is directional: it divides by the prompt's keyword count only,
// so ScoreRelevance(a, b) and ScoreRelevance(b, a) generally differ.
func ScoreRelevance(originalPrompt, candidate string) float64 {
	originalKeywords := ExtractKeywords(strings.ToLower(originalPrompt))
	if len(originalKeywords) == 0 {
		return 1.0
	}

	candidateKeywords := ExtractKeywords(strings.ToLower(candidate))

	common := 0
	for word := range originalKeywords {
		if _, ok := candidateKeywords[word]; ok {
			common++
		}
	}

	score := float64(common) / float64(len(originalKeywords)) * relevanceBoost
	if score > 1.0 {
		return 1.0
	}
	return score
}

// ScoreQuality inspects a candidate response for minimum length and
// meta-commentary phrases. Under-length responses score 0.0; each matched
// phrase deducts 0.3 from a perfect 1.0, flooring at 0.0.
func ScoreQuality(candidate string) float64 {
	if len(strings.TrimSpace(candidate)) < minSubstantialLength {
		return 0.0
	}

	lower := strings.ToLower(candidate)
	var matched []string
	for _, phrase := range metaPhrases {
		if strings.Contains(lower, phrase) {
			matched = append(matched, phrase)
		}
	}

	// A phrase contained in a longer matched phrase is the same occurrence,
	// not an extra penalty ("feedback" inside "thank you for the feedback").
	matches := 0
	for _, phrase := range matched {
		contained := false
		for _, other := range matched {
			if other != phrase && strings.Contains(other, phrase) {
				contained = true
				break
			}
		}
		if !contained {
			matches++
		}
	}

	if matches == 0 {
		return 1.0
	}

	score := 1.0 - float64(matches)*metaPhrasePenalty
	if score < 0.0 {
		return 0.0
	}
	return score
}

// Passes reports whether the given scores meet the default thresholds.
func Passes(relevance, quality float64) bool {
	return relevance >= DefaultRelevanceThreshold && quality >= DefaultQualityThreshold
}
