package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeResponseBareList(t *testing.T) {
	body := []byte(`[
		{"id": "p1", "author": {"id": "alice", "name": "Alice"}, "content": "hello", "created_at": "2026-08-01T12:00:00Z"},
		{"id": "p2", "author": "bob", "content": "reply", "parent_id": "p1", "created_at": "2026-08-01T12:05:00Z"}
	]`)

	posts, err := NormalizeResponse(body, testLogger())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "p1", posts[0].ID)
	assert.Equal(t, "alice", posts[0].AuthorID)
	assert.Equal(t, "Alice", posts[0].AuthorName)
	assert.Equal(t, "general", posts[0].Channel)

	// bare-string author keeps the id as the name
	assert.Equal(t, "bob", posts[1].AuthorID)
	assert.Equal(t, "bob", posts[1].AuthorName)
	assert.Equal(t, "p1", posts[1].ParentID)
}

func TestNormalizeResponseWrapped(t *testing.T) {
	for _, key := range []string{"posts", "data"} {
		body := []byte(`{"` + key + `": [{"id": "p1", "author": "alice", "content": "x"}]}`)
		posts, err := NormalizeResponse(body, testLogger())
		require.NoError(t, err, key)
		require.Len(t, posts, 1, key)
		assert.Equal(t, "p1", posts[0].ID)
	}
}

func TestNormalizeResponseBadShape(t *testing.T) {
	_, err := NormalizeResponse([]byte(`"just a string"`), testLogger())
	assert.Error(t, err)
}

func TestNormalizeResponseDefaults(t *testing.T) {
	body := []byte(`[
		{"id": "p1", "content": "no author at all"},
		{"content": "no id, skipped"},
		{"id": "p3", "author": "alice", "content": "x", "submolt": {"name": "conspiracy"}},
		{"id": "p4", "author": "alice", "content": "x", "submolt": "offtopic"}
	]`)

	posts, err := NormalizeResponse(body, testLogger())
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, "unknown", posts[0].AuthorID)
	assert.Equal(t, "unknown", posts[0].AuthorName)
	assert.Equal(t, "conspiracy", posts[1].Channel)
	assert.Equal(t, "offtopic", posts[2].Channel)
}

func TestParseTimestamp(t *testing.T) {
	logger := testLogger()

	assert.EqualValues(t, 1754049600, ParseTimestamp("2025-08-01T12:00:00Z", logger))
	assert.EqualValues(t, 1754049600, ParseTimestamp("1754049600", logger))

	// naive datetime without zone goes through the tolerant parser
	got := ParseTimestamp("2025-08-01 12:00:00", logger)
	assert.NotZero(t, got)

	// empty and garbage both default to roughly now
	now := time.Now().Unix()
	assert.InDelta(t, now, ParseTimestamp("", logger), 5)
	assert.InDelta(t, now, ParseTimestamp("not a date", logger), 5)
}
