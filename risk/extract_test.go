package risk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moltwatch/moltwatch/models"
)

func TestScore(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0, Score(""))
	assert.Equal(0, Score("nothing to see here"))
	assert.Equal(1, Score("the conspiracy is real"))
	// distinct terms accumulate
	assert.GreaterOrEqual(Score("overthrow the regime, start a revolution, stay hidden"), 3)
	// case-insensitive
	assert.Equal(Score("CONSPIRACY"), Score("conspiracy"))
	// substring matches count, false positives included
	assert.GreaterOrEqual(Score("the humanities department"), 1)
}

func TestScoreClamped(t *testing.T) {
	// stack enough distinct triggers to blow past the cap
	content := strings.Join(triggerWords["en"], " ")
	assert.Equal(t, 10, Score(content))
}

func TestSentiment(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0.0, Sentiment(""))
	assert.Equal(0.0, Sentiment("completely neutral text"))

	// single positive keyword is damped by the divisor floor
	s := Sentiment("this is great")
	assert.InDelta(0.2, s, 0.001)

	s = Sentiment("bad terrible awful hate sad angry")
	assert.Less(s, 0.0)
	assert.GreaterOrEqual(s, -1.0)
}

func TestSentimentBounds(t *testing.T) {
	for _, content := range []string{
		"",
		"good",
		"bad",
		strings.Join(positiveWords, " "),
		strings.Join(negativeWords, " "),
		strings.Join(triggerWords["zh"], ""),
	} {
		s := Sentiment(content)
		assert.GreaterOrEqual(t, s, -1.0, "content: %q", content)
		assert.LessOrEqual(t, s, 1.0, "content: %q", content)
	}
}

func TestTierForScore(t *testing.T) {
	fixtures := []struct {
		score int
		tier  models.RiskTier
	}{
		{0, models.TierLow},
		{1, models.TierLow},
		{2, models.TierMedium},
		{3, models.TierMedium},
		{4, models.TierHigh},
		{6, models.TierHigh},
		{7, models.TierCritical},
		{10, models.TierCritical},
	}
	for _, f := range fixtures {
		assert.Equal(t, f.tier, TierForScore(f.score), "score=%d", f.score)
	}
}

func TestDetectLanguage(t *testing.T) {
	fixtures := []struct {
		content string
		lang    string
	}{
		{"", "unknown"},
		{"hello world conspiracy", "en"},
		{"这是一个秘密", "zh"},
		{"これはひみつです", "ja"},
		{"비밀입니다", "ko"},
		{"это заговор", "ru"},
		{"la conspiración está oculta, revolución", "es"},
		{"die verschwörung ist versteckt, widerstand", "de"},
		{"plain text with no signal at all", "en"},
	}
	for _, f := range fixtures {
		assert.Equal(t, f.lang, DetectLanguage(f.content), "content: %q", f.content)
	}
}

func TestExtract(t *testing.T) {
	assert := assert.New(t)

	f := Extract("")
	assert.Equal(0, f.Score)
	assert.Equal(0.0, f.Sentiment)
	assert.Equal("unknown", f.Language)
	assert.Equal(models.TierLow, f.Tier)

	f = Extract("overthrow revolution hidden")
	assert.GreaterOrEqual(f.Score, 3)
	assert.Equal(TierForScore(f.Score), f.Tier)
}

func TestTruncate(t *testing.T) {
	assert := assert.New(t)

	short, n := Truncate("hello")
	assert.Equal("hello", short)
	assert.Equal(5, n)

	long := strings.Repeat("秘", MaxContentLength+5)
	got, n := Truncate(long)
	assert.Equal(MaxContentLength+5, n)
	assert.Equal(MaxContentLength, len([]rune(got)))
}
