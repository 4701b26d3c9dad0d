package transformer

import "strings"

// Confidence is a fixed step function over lexical similarity, not a learned
// model. The breakpoints (0.9, 0.2) and outputs (0.6, 0.7, 0.9) are load
// bearing: stored scores and the deployment ordering depend on them.
const (
	confidenceTooSimilar   = 0.6
	confidenceTooDifferent = 0.7
	confidenceBalanced     = 0.9

	similarityUpperBound = 0.9
	similarityLowerBound = 0.2
)

// ConfidenceScore estimates replacement quality from how much of the
// original's wording survives. Near-identical output means the rewrite
// under-transformed; near-zero overlap means it may have fabricated.
func ConfidenceScore(original string, transformed string) float64 {
	similarity := similarity(original, transformed)
	if similarity > similarityUpperBound {
		return confidenceTooSimilar
	}
	if similarity < similarityLowerBound {
		return confidenceTooDifferent
	}
	return confidenceBalanced
}

// similarity counts the original's words (duplicates included) that also
// appear in the transformed headline, normalized by the longer word count.
// Tokenization is case-insensitive whitespace splitting.
func similarity(original string, transformed string) float64 {
	originalWords := strings.Fields(strings.ToLower(original))
	transformedWords := strings.Fields(strings.ToLower(transformed))
	if len(originalWords) == 0 || len(transformedWords) == 0 {
		return 0
	}

	transformedSet := make(map[string]bool, len(transformedWords))
	for _, word := range transformedWords {
		transformedSet[word] = true
	}

	common := 0
	for _, word := range originalWords {
		if transformedSet[word] {
			common++
		}
	}

	max := len(originalWords)
	if len(transformedWords) > max {
		max = len(transformedWords)
	}
	return float64(common) / float64(max)
}
