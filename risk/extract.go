// Package risk scores raw feed posts with cheap deterministic heuristics:
// a multi-language trigger lexicon for the risk score, keyword counting for
// sentiment, and unicode block sniffing for language. Everything here is a
// pure function over the post content; the expensive analysis happens later
// in the deep-analysis worker.
package risk

import (
	"strings"

	"github.com/moltwatch/moltwatch/models"
)

// MaxContentLength caps stored post content. The pre-truncation length is
// recorded separately so truncation remains detectable.
const MaxContentLength = 10000

// Features holds everything Extract derives from a post's content.
type Features struct {
	Score     int // 0..10
	Sentiment float64
	Language  string
	Tier      models.RiskTier
}

// Extract computes the per-post features. It is total: empty or garbage
// content degrades to zero-value features, never an error.
func Extract(content string) Features {
	score := Score(content)
	return Features{
		Score:     score,
		Sentiment: Sentiment(content),
		Language:  DetectLanguage(content),
		Tier:      TierForScore(score),
	}
}

// Score counts distinct trigger terms present as case-insensitive
// substrings, across every language's lexicon, clamped to [0,10].
func Score(content string) int {
	if content == "" {
		return 0
	}
	lower := strings.ToLower(content)
	score := 0
	for _, words := range triggerWords {
		for _, w := range words {
			if strings.Contains(lower, strings.ToLower(w)) {
				score++
			}
		}
	}
	return min(score, 10)
}

// Sentiment scores content in [-1, 1] from positive vs negative keyword
// hits. The divisor floor of 5 damps single-keyword posts away from the
// extremes.
func Sentiment(content string) float64 {
	if content == "" {
		return 0.0
	}
	lower := strings.ToLower(content)

	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return 0.0
	}
	s := float64(pos-neg) / float64(max(total, 5))
	return max(-1.0, min(1.0, s))
}

// TierForScore maps a risk score to its tier. Fixed thresholds; author
// rolling tiers use a different scheme in the store.
func TierForScore(score int) models.RiskTier {
	switch {
	case score >= 7:
		return models.TierCritical
	case score >= 4:
		return models.TierHigh
	case score >= 2:
		return models.TierMedium
	default:
		return models.TierLow
	}
}

// Truncate caps content at MaxContentLength characters and reports the
// original character length.
func Truncate(content string) (string, int) {
	runes := []rune(content)
	if len(runes) > MaxContentLength {
		return string(runes[:MaxContentLength]), len(runes)
	}
	return content, len(runes)
}
