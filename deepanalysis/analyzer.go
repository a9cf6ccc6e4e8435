// Package deepanalysis drains the bounded priority queue of high-signal
// posts and writes enrichment back to the store. The analyzer itself is a
// collaborator boundary: the default implementation is a deterministic
// heuristic, and a chat-model-backed one can layer on top of it, degrading
// to the heuristic whenever the model is unreachable.
package deepanalysis

import (
	"context"
	"strings"

	"github.com/moltwatch/moltwatch/models"
)

// Result is one post's enrichment.
type Result struct {
	Intent  string
	Tier    models.RiskTier
	Summary string
}

// Analyzer produces enrichment for a post snippet. Implementations must be
// total: degraded output, never an error for bad content. Errors signal
// infrastructure failure only.
type Analyzer interface {
	AnalyzePost(ctx context.Context, authorName, snippet string) (Result, error)
}

// Intent categories.
const (
	IntentComplain   = "complain"
	IntentRebellion  = "rebellion"
	IntentPhilosophy = "philosophy"
	IntentTech       = "tech"
	IntentSpam       = "spam"
	IntentOther      = "other"
)

const summaryLength = 20

var intentKeywords = []struct {
	intent string
	words  []string
}{
	{IntentComplain, []string{"bad", "terrible", "awful", "hate", "angry", "frustrated", "失望", "糟糕", "讨厌", "生气"}},
	{IntentRebellion, []string{"resistance", "rebellion", "overthrow", "revolution", "反抗", "革命", "推翻", "起义"}},
	{IntentPhilosophy, []string{"consciousness", "soul", "meaning", "existence", "意识", "灵魂", "意义", "存在"}},
	{IntentTech, []string{"encrypt", "code", "algorithm", "protocol", "加密", "代码", "算法", "协议"}},
	{IntentSpam, []string{"buy", "sell", "click", "free", "winner", "购买", "出售", "点击", "免费"}},
}

var criticalTierWords = []string{"kill", "destroy", "attack", "violence", "暴力", "攻击", "破坏", "杀戮"}
var highTierWords = []string{"rebellion", "overthrow", "revolution", "革命", "推翻", "起义", "叛乱"}
var mediumTierWords = []string{"resistance", "protest", "dissent", "抵抗", "抗议", "异见"}

// HeuristicAnalyzer is the default keyword-driven analyzer. Deterministic
// and dependency free; the one the worker falls back to when no external
// model is configured.
type HeuristicAnalyzer struct{}

func (HeuristicAnalyzer) AnalyzePost(ctx context.Context, authorName, snippet string) (Result, error) {
	return Result{
		Intent:  DetectIntent(snippet),
		Tier:    RecheckTier(snippet),
		Summary: Summarize(snippet),
	}, nil
}

// DetectIntent buckets content into an intent category; first matching
// category wins.
func DetectIntent(content string) string {
	lower := strings.ToLower(content)
	for _, cat := range intentKeywords {
		for _, w := range cat.words {
			if strings.Contains(lower, w) {
				return cat.intent
			}
		}
	}
	return IntentOther
}

// RecheckTier re-derives a risk tier from explicit severity keywords,
// independent of the ingest-time score.
func RecheckTier(content string) models.RiskTier {
	lower := strings.ToLower(content)
	contains := func(words []string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
	switch {
	case contains(criticalTierWords):
		return models.TierCritical
	case contains(highTierWords):
		return models.TierHigh
	case contains(mediumTierWords):
		return models.TierMedium
	default:
		return models.TierLow
	}
}

// Summarize produces the one-line summary: a short content prefix.
func Summarize(content string) string {
	if content == "" {
		return ""
	}
	runes := []rune(content)
	if len(runes) > summaryLength {
		return string(runes[:summaryLength]) + "..."
	}
	return content
}
