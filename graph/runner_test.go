package graph

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltwatch/moltwatch/models"
)

type fakeStore struct {
	edges []models.Interaction

	gotCentrality  map[string]float64
	gotCommunities map[string]int
	updates        int
}

func (f *fakeStore) ListInteractions(ctx context.Context) ([]models.Interaction, error) {
	return f.edges, nil
}

func (f *fakeStore) UpdateAuthorScores(ctx context.Context, centrality map[string]float64, communities map[string]int) error {
	f.gotCentrality = centrality
	f.gotCommunities = communities
	f.updates++
	return nil
}

func TestRunnerRunOnce(t *testing.T) {
	st := &fakeStore{edges: []models.Interaction{
		{SourceID: "a", TargetID: "b", PostID: "p1", Weight: 1},
		{SourceID: "b", TargetID: "a", PostID: "p2", Weight: 1},
		{SourceID: "c", TargetID: "d", PostID: "p3", Weight: 1},
		{SourceID: "d", TargetID: "c", PostID: "p4", Weight: 1},
	}}

	r := NewRunner(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, r.RunOnce(context.Background()))

	require.Equal(t, 1, st.updates)
	assert.Len(t, st.gotCentrality, 4)
	assert.Equal(t, st.gotCommunities["a"], st.gotCommunities["b"])
	assert.NotEqual(t, st.gotCommunities["a"], st.gotCommunities["c"])

	var sum float64
	for _, v := range st.gotCentrality {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 0.01)
}

func TestRunnerEmptyGraph(t *testing.T) {
	st := &fakeStore{}
	r := NewRunner(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, r.RunOnce(context.Background()))
	assert.Equal(t, 1, st.updates)
	assert.Empty(t, st.gotCentrality)
}
