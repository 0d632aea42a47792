package models

import (
	"time"

	"gorm.io/datatypes"
)

// Feedback categories (closed set). The classifier prompt decides precedence;
// anything outside this set is stored as Other.
const (
	CategoryBug     = "Bug"
	CategoryUX      = "UX"
	CategoryFeature = "Feature"
	CategoryOther   = "Other"
)

// Categories lists every valid category value.
var Categories = []string{CategoryBug, CategoryUX, CategoryFeature, CategoryOther}

// Lifecycle states for a feedback item.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// FeedbackItem is one enriched feedback submission.
// Sentiment is in [-1, 1], GravityScore in [0, 50].
type FeedbackItem struct {
	ID             string         `json:"id" gorm:"primaryKey;size:36"`
	Content        string         `json:"content" gorm:"type:text;not null"`
	Source         string         `json:"source" gorm:"size:100;default:api"`
	Sentiment      float64        `json:"sentiment"`
	Category       string         `json:"category" gorm:"size:20;index"`
	Explanation    string         `json:"explanation" gorm:"size:400"`
	GravityScore   float64        `json:"gravityScore" gorm:"index"`
	Status         string         `json:"status" gorm:"size:20;default:open;index"`
	ClosedAt       *time.Time     `json:"closedAt,omitempty"`
	AnalysisJSON   datatypes.JSON `json:"analysisJSON,omitempty"`                  // raw model output, kept for audit
	FallbackReason string         `json:"fallbackReason,omitempty" gorm:"size:40"` // empty when the model answer parsed cleanly
	CreatedAt      time.Time      `json:"createdAt" gorm:"index"`
}
