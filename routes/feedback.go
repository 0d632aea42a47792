package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"

	"feedback-pulse-server/models"
	"feedback-pulse-server/storage"
	"feedback-pulse-server/utils"
)

// Enqueuer hands a submission to the background enrichment queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, job storage.EnrichJob) error
}

// FeedbackRoutes serves ingest, read views and lifecycle transitions.
type FeedbackRoutes struct {
	DB    *gorm.DB
	Queue Enqueuer
}

func NewFeedbackRoutes(db *gorm.DB, queue Enqueuer) *FeedbackRoutes {
	return &FeedbackRoutes{DB: db, Queue: queue}
}

// GET /api/feedback — paginated listing, highest gravity first
func (r *FeedbackRoutes) ListFeedback(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	if err := r.DB.Model(&models.FeedbackItem{}).Count(&total).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "db_error", "could not count feedback")
		return
	}

	var items []models.FeedbackItem
	if err := r.DB.Order("gravity_score DESC, created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&items).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "db_error", "could not load feedback")
		return
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}

// GET /api/feedback/{id} — single item drilldown
func (r *FeedbackRoutes) GetFeedback(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var item models.FeedbackItem
	if err := r.DB.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(ctx, http.StatusNotFound, "not_found", "feedback item not found")
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "db_error", "could not load feedback item")
		return
	}
	ctx.JSON(iris.Map{"success": true, "feedback": item})
}

// POST /api/feedback/{id}/close — open → closed transition
func (r *FeedbackRoutes) CloseFeedback(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var item models.FeedbackItem
	if err := r.DB.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(ctx, http.StatusNotFound, "not_found", "feedback item not found")
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "db_error", "could not load feedback item")
		return
	}
	if item.Status == models.StatusClosed {
		ctx.JSON(iris.Map{"success": true, "feedback": item})
		return
	}

	now := time.Now()
	item.Status = models.StatusClosed
	item.ClosedAt = &now
	if err := r.DB.Save(&item).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "db_error", "could not close feedback item")
		return
	}
	ctx.JSON(iris.Map{"success": true, "feedback": item})
}
