package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agency-os/research-core/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleRun(kind model.RunKind, queries ...string) *model.ResearchRun {
	return &model.ResearchRun{
		Kind:    kind,
		Queries: queries,
		Results: []*model.ProviderResult{
			{
				Source:      "github_api",
				Reliability: model.ReliabilityHigh,
				Payload:     map[string]any{"stars": float64(231000)},
			},
		},
	}
}

func TestSaveRunAssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)

	run := sampleRun(model.RunKindLibraries, "react")
	require.NoError(t, s.SaveRun(context.Background(), run))

	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestSaveRunGetRunRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := sampleRun(model.RunKindLibraries, "react", "axios")
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, model.RunKindLibraries, got.Kind)
	assert.Equal(t, []string{"react", "axios"}, got.Queries)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "github_api", got.Results[0].Source)
	assert.Equal(t, model.ReliabilityHigh, got.Results[0].Reliability)
	assert.Equal(t, float64(231000), got.Results[0].Payload["stars"])
}

func TestGetRunNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestListRunsFiltersByKind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, sampleRun(model.RunKindLibraries, "react")))
	require.NoError(t, s.SaveRun(ctx, sampleRun(model.RunKindSearch, "crm vendors")))
	require.NoError(t, s.SaveRun(ctx, sampleRun(model.RunKindLibraries, "axios")))

	libs, err := s.ListRuns(ctx, RunFilter{Kind: model.RunKindLibraries})
	require.NoError(t, err)
	assert.Len(t, libs, 2)
	for _, r := range libs {
		assert.Equal(t, model.RunKindLibraries, r.Kind)
	}

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListRunsLimitAndOffset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveRun(ctx, sampleRun(model.RunKindSearch, "q")))
	}

	page, err := s.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := s.ListRuns(ctx, RunFilter{Limit: 10, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestListRunsOffsetWithoutLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.SaveRun(ctx, sampleRun(model.RunKindSearch, "q")))
	}

	rest, err := s.ListRuns(ctx, RunFilter{Offset: 1})
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}

func TestListRunsEmpty(t *testing.T) {
	s := newTestStore(t)

	runs, err := s.ListRuns(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}
