package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryRefresher_Refresh_UsesModel(t *testing.T) {
	meta := newMockMetadataStore()
	seedCatalog(t, meta)
	llm := &mockLLMService{generateResult: "Covers HR policies, security practices, and expense rules."}
	refresher := NewSummaryRefresher(meta, llm)
	ctx := context.Background()

	err := refresher.Refresh(ctx, "kb")

	require.NoError(t, err)
	summary, err := meta.GetNamespaceSummary(ctx, "kb")
	require.NoError(t, err)
	assert.Equal(t, "Covers HR policies, security practices, and expense rules.", summary)

	// The prompt carries the per-document digests.
	assert.Contains(t, llm.lastPrompt, "employee-handbook.md")
	assert.Contains(t, llm.lastPrompt, "onboarding")
}

func TestSummaryRefresher_Refresh_ModelFailureFallsBack(t *testing.T) {
	meta := newMockMetadataStore()
	seedCatalog(t, meta)
	llm := &mockLLMService{generateErr: errors.New("model offline")}
	refresher := NewSummaryRefresher(meta, llm)
	ctx := context.Background()

	err := refresher.Refresh(ctx, "kb")

	require.NoError(t, err)
	summary, err := meta.GetNamespaceSummary(ctx, "kb")
	require.NoError(t, err)
	assert.Contains(t, summary, "Contains 3 document(s)")
	assert.Contains(t, summary, "employee-handbook.md")
}

func TestSummaryRefresher_Refresh_EmptyModelOutputFallsBack(t *testing.T) {
	meta := newMockMetadataStore()
	seedCatalog(t, meta)
	llm := &mockLLMService{generateResult: "   "}
	refresher := NewSummaryRefresher(meta, llm)
	ctx := context.Background()

	err := refresher.Refresh(ctx, "kb")

	require.NoError(t, err)
	summary, err := meta.GetNamespaceSummary(ctx, "kb")
	require.NoError(t, err)
	assert.Contains(t, summary, "Contains 3 document(s)")
}

func TestSummaryRefresher_Refresh_NilLLMFallsBack(t *testing.T) {
	meta := newMockMetadataStore()
	seedCatalog(t, meta)
	refresher := NewSummaryRefresher(meta, nil)
	ctx := context.Background()

	err := refresher.Refresh(ctx, "kb")

	require.NoError(t, err)
	summary, err := meta.GetNamespaceSummary(ctx, "kb")
	require.NoError(t, err)
	assert.Contains(t, summary, "Contains 3 document(s)")
}

func TestSummaryRefresher_Refresh_EmptyNamespaceClearsSummary(t *testing.T) {
	meta := newMockMetadataStore()
	ctx := context.Background()
	require.NoError(t, meta.SaveNamespaceSummary(ctx, "kb", "Stale summary."))
	refresher := NewSummaryRefresher(meta, nil)

	err := refresher.Refresh(ctx, "kb")

	require.NoError(t, err)
	summary, err := meta.GetNamespaceSummary(ctx, "kb")
	require.NoError(t, err)
	assert.Empty(t, summary, "no documents means no summary")
}

func TestSummaryRefresher_Refresh_SaveFailure(t *testing.T) {
	meta := newMockMetadataStore()
	seedCatalog(t, meta)
	meta.summaryErr = errors.New("database locked")
	refresher := NewSummaryRefresher(meta, nil)
	ctx := context.Background()

	err := refresher.Refresh(ctx, "kb")

	assert.Error(t, err)
}
