package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"feedback-pulse-server/models"
	"feedback-pulse-server/storage"
)

const enrichmentSystemPrompt = `You classify product feedback. Respond with a single JSON object:
{"sentiment": <number in [-1, 1]>, "category": "<Bug|UX|Feature|Other>", "explanation": "<short reason, at most 18 words>"}
Rules:
- If the feedback suggests both a bug and a feature request, classify it as Bug.
- If it is negative but nothing is broken, classify it as UX.
- Otherwise choose Feature or Other based on content.
Return only the JSON object, no other text.`

// Analysis is the classifier's answer for one submission.
type Analysis struct {
	Sentiment   float64 `json:"sentiment"`
	Category    string  `json:"category"`
	Explanation string  `json:"explanation"`
}

// fallbackAnalysis is persisted whenever the model is unreachable or emits
// garbage; a submission is never rejected because of the classifier.
var fallbackAnalysis = Analysis{Sentiment: 0, Category: models.CategoryOther, Explanation: "Failed to analyze"}

// EnrichmentService turns a queued submission into a persisted FeedbackItem.
type EnrichmentService struct {
	db  *gorm.DB
	llm LLMClient
}

func NewEnrichmentService(db *gorm.DB, llm LLMClient) *EnrichmentService {
	return &EnrichmentService{db: db, llm: llm}
}

// Analyze classifies the text. On any failure it returns the fixed fallback
// analysis together with the reason.
func (s *EnrichmentService) Analyze(ctx context.Context, text string) (Analysis, FallbackReason) {
	raw, err := s.llm.Complete(ctx, []Message{
		{Role: "system", Content: enrichmentSystemPrompt},
		{Role: "user", Content: text},
	})
	if err != nil {
		return fallbackAnalysis, FallbackModelUnavailable
	}

	var analysis Analysis
	if err := ExtractJSON(raw, &analysis); err != nil {
		return fallbackAnalysis, FallbackBadModelOutput
	}

	// Clamp to the documented ranges; prompts are advisory, stored values are not.
	if analysis.Sentiment > 1 {
		analysis.Sentiment = 1
	}
	if analysis.Sentiment < -1 {
		analysis.Sentiment = -1
	}
	if !slices.Contains(models.Categories, analysis.Category) {
		analysis.Category = models.CategoryOther
	}
	return analysis, FallbackNone
}

// Store computes the gravity score and persists the enriched record.
func (s *EnrichmentService) Store(job storage.EnrichJob, analysis Analysis, reason FallbackReason) (*models.FeedbackItem, error) {
	createdAt := job.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	source := job.Source
	if source == "" {
		source = "api"
	}

	item := models.FeedbackItem{
		ID:             uuid.NewString(),
		Content:        job.Text,
		Source:         source,
		Sentiment:      analysis.Sentiment,
		Category:       analysis.Category,
		Explanation:    analysis.Explanation,
		GravityScore:   GravityScore(analysis.Sentiment, analysis.Category, createdAt, time.Now()),
		Status:         models.StatusOpen,
		FallbackReason: string(reason),
		CreatedAt:      createdAt,
	}
	if reason == FallbackNone {
		if payload, err := json.Marshal(analysis); err == nil {
			item.AnalysisJSON = datatypes.JSON(payload)
		}
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("store feedback item: %w", err)
	}
	return &item, nil
}
