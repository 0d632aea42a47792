package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"feedback-pulse-server/models"
)

const (
	defaultBugsWindowHours = 24
	defaultSummaryDays     = 7
)

// QueryExecutor maps a routed intent to one of five fixed lookups. Results are
// ordered by gravity_score desc then created_at desc except summary, which is
// purely chronological (newest first).
type QueryExecutor struct {
	db *gorm.DB
}

func NewQueryExecutor(db *gorm.DB) *QueryExecutor {
	return &QueryExecutor{db: db}
}

// Execute runs the lookup for q. help issues no query and returns nil.
func (e *QueryExecutor) Execute(q IntentQuery) ([]models.FeedbackItem, error) {
	var items []models.FeedbackItem

	switch q.Intent {
	case IntentTopIssues:
		err := e.db.Order("gravity_score DESC, created_at DESC").Limit(10).Find(&items).Error
		return items, wrapQueryErr("top_issues", err)

	case IntentBugsRecent:
		hours := q.Params.Hours
		if hours <= 0 {
			hours = defaultBugsWindowHours
		}
		since := time.Now().Add(-time.Duration(hours) * time.Hour)
		err := e.db.Where("category = ? AND created_at >= ?", models.CategoryBug, since).
			Order("gravity_score DESC, created_at DESC").Limit(10).Find(&items).Error
		return items, wrapQueryErr("bugs_recent", err)

	case IntentSearch:
		term := "%" + strings.ToLower(q.Params.Term) + "%"
		err := e.db.Where("LOWER(content) LIKE ?", term).
			Order("gravity_score DESC, created_at DESC").Limit(10).Find(&items).Error
		return items, wrapQueryErr("search", err)

	case IntentSummary:
		days := q.Params.Days
		if days <= 0 {
			days = defaultSummaryDays
		}
		since := time.Now().AddDate(0, 0, -days)
		err := e.db.Where("created_at >= ?", since).
			Order("created_at DESC").Limit(50).Find(&items).Error
		return items, wrapQueryErr("summary", err)

	case IntentIssueDrilldown:
		err := e.db.Where("id = ?", q.Params.ID).Limit(1).Find(&items).Error
		return items, wrapQueryErr("issue_drilldown", err)

	default:
		// help and anything unknown: no query issued
		return nil, nil
	}
}

func wrapQueryErr(intent string, err error) error {
	if err != nil {
		return fmt.Errorf("%s query: %w", intent, err)
	}
	return nil
}
