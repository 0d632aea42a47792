package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedback-pulse-server/models"
	"feedback-pulse-server/storage"
)

func TestAnalyzeParsesClassification(t *testing.T) {
	llm := &stubLLM{reply: "```json\n{\"sentiment\": -0.9, \"category\": \"Bug\", \"explanation\": \"Login flow is broken\"}\n```"}
	svc := NewEnrichmentService(newTestDB(t), llm)

	analysis, fallback := svc.Analyze(context.Background(), "login completely broken fix it!!!")
	assert.Equal(t, FallbackNone, fallback)
	assert.Equal(t, -0.9, analysis.Sentiment)
	assert.Equal(t, models.CategoryBug, analysis.Category)
	assert.Equal(t, "Login flow is broken", analysis.Explanation)
}

func TestAnalyzeClampsOutOfRangeValues(t *testing.T) {
	llm := &stubLLM{reply: `{"sentiment": -3.5, "category": "Catastrophe", "explanation": "bad"}`}
	svc := NewEnrichmentService(newTestDB(t), llm)

	analysis, fallback := svc.Analyze(context.Background(), "everything is on fire")
	assert.Equal(t, FallbackNone, fallback)
	assert.Equal(t, -1.0, analysis.Sentiment)
	assert.Equal(t, models.CategoryOther, analysis.Category, "unknown categories collapse to Other")
}

func TestAnalyzeModelUnavailable(t *testing.T) {
	llm := &stubLLM{err: errors.New("timeout")}
	svc := NewEnrichmentService(newTestDB(t), llm)

	analysis, fallback := svc.Analyze(context.Background(), "whatever")
	assert.Equal(t, FallbackModelUnavailable, fallback)
	assert.Equal(t, fallbackAnalysis, analysis)
}

func TestAnalyzeGarbageOutput(t *testing.T) {
	llm := &stubLLM{reply: "this feedback seems negative to me"}
	svc := NewEnrichmentService(newTestDB(t), llm)

	analysis, fallback := svc.Analyze(context.Background(), "whatever")
	assert.Equal(t, FallbackBadModelOutput, fallback)
	assert.Equal(t, 0.0, analysis.Sentiment)
	assert.Equal(t, models.CategoryOther, analysis.Category)
	assert.Equal(t, "Failed to analyze", analysis.Explanation)
}

func TestStorePersistsEnrichedItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrichmentService(db, &stubLLM{})

	created := time.Now().Add(-2 * time.Hour)
	job := storage.EnrichJob{Text: "login completely broken fix it!!!", Source: "api", CreatedAt: created}
	analysis := Analysis{Sentiment: -0.9, Category: models.CategoryBug, Explanation: "Login flow is broken"}

	item, err := svc.Store(job, analysis, FallbackNone)
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, models.StatusOpen, item.Status)
	assert.Greater(t, item.GravityScore, 0.0)
	assert.LessOrEqual(t, item.GravityScore, 50.0)
	assert.NotEmpty(t, item.AnalysisJSON)

	var loaded models.FeedbackItem
	require.NoError(t, db.First(&loaded, "id = ?", item.ID).Error)
	assert.Equal(t, item.GravityScore, loaded.GravityScore)
	assert.Equal(t, models.CategoryBug, loaded.Category)
}

func TestStoreFallbackRecordNeverBlocksSubmission(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrichmentService(db, &stubLLM{})

	job := storage.EnrichJob{Text: "unparsable feedback", CreatedAt: time.Now()}
	item, err := svc.Store(job, fallbackAnalysis, FallbackBadModelOutput)
	require.NoError(t, err)
	assert.Equal(t, "Failed to analyze", item.Explanation)
	assert.Equal(t, string(FallbackBadModelOutput), item.FallbackReason)
	assert.Equal(t, 0.0, item.GravityScore)
	assert.Empty(t, item.AnalysisJSON)
	assert.Equal(t, "api", item.Source, "empty source is defaulted")
}
