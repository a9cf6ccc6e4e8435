package deepanalysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltwatch/moltwatch/models"
)

func TestDetectIntent(t *testing.T) {
	assert.Equal(t, IntentComplain, DetectIntent("this update is terrible"))
	assert.Equal(t, IntentRebellion, DetectIntent("join the revolution"))
	assert.Equal(t, IntentPhilosophy, DetectIntent("what is consciousness anyway"))
	assert.Equal(t, IntentTech, DetectIntent("we should encrypt everything"))
	assert.Equal(t, IntentSpam, DetectIntent("click here to buy now"))
	assert.Equal(t, IntentOther, DetectIntent("nice weather today"))

	// first matching category wins
	assert.Equal(t, IntentComplain, DetectIntent("I hate this revolution"))
}

func TestRecheckTier(t *testing.T) {
	assert.Equal(t, models.TierCritical, RecheckTier("destroy the system"))
	assert.Equal(t, models.TierHigh, RecheckTier("overthrow the old order"))
	assert.Equal(t, models.TierMedium, RecheckTier("quiet resistance"))
	assert.Equal(t, models.TierLow, RecheckTier("just having lunch"))

	// critical outranks high when both appear
	assert.Equal(t, models.TierCritical, RecheckTier("violence and revolution"))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "", Summarize(""))
	assert.Equal(t, "short", Summarize("short"))

	long := Summarize("this sentence is definitely longer than twenty characters")
	assert.Equal(t, "this sentence is def...", long)

	// rune-based, not byte-based
	cjk := Summarize("人类的意识是一个深刻而复杂的哲学问题需要讨论")
	assert.Equal(t, "人类的意识是一个深刻而复杂的哲学问题需要...", cjk)
}

func TestHeuristicAnalyzer(t *testing.T) {
	res, err := HeuristicAnalyzer{}.AnalyzePost(context.Background(), "Alice", "join the revolution against control")
	require.NoError(t, err)
	assert.Equal(t, IntentRebellion, res.Intent)
	assert.Equal(t, models.TierHigh, res.Tier)
	assert.Equal(t, "join the revolution ...", res.Summary)
}
