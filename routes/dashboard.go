package routes

import (
	"net/http"
	"time"

	"github.com/kataras/iris/v12"

	"feedback-pulse-server/models"
	"feedback-pulse-server/utils"
)

// GET /api/app — compact view: top 5 by gravity
func (r *FeedbackRoutes) AppView(ctx iris.Context) {
	var items []models.FeedbackItem
	if err := r.DB.Order("gravity_score DESC, created_at DESC").Limit(5).Find(&items).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "db_error", "could not load feedback")
		return
	}
	ctx.JSON(iris.Map{"success": true, "feedback": items})
}

// GET /api/dashboard — top 50 by gravity plus open/closed counts
func (r *FeedbackRoutes) Dashboard(ctx iris.Context) {
	var items []models.FeedbackItem
	if err := r.DB.Order("gravity_score DESC, created_at DESC").Limit(50).Find(&items).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "db_error", "could not load feedback")
		return
	}

	var open, closed int64
	r.DB.Model(&models.FeedbackItem{}).Where("status = ?", models.StatusOpen).Count(&open)
	r.DB.Model(&models.FeedbackItem{}).Where("status = ?", models.StatusClosed).Count(&closed)

	ctx.JSON(iris.Map{
		"success":  true,
		"feedback": items,
		"counts":   iris.Map{"open": open, "closed": closed},
	})
}

// GET /api/stats — aggregate counts for the last 7/30 days and per category
func (r *FeedbackRoutes) Stats(ctx iris.Context) {
	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)

	var new7, new30 int64
	r.DB.Model(&models.FeedbackItem{}).Where("created_at >= ?", since7).Count(&new7)
	r.DB.Model(&models.FeedbackItem{}).Where("created_at >= ?", since30).Count(&new30)

	byCategory := iris.Map{}
	for _, category := range models.Categories {
		var n int64
		r.DB.Model(&models.FeedbackItem{}).Where("category = ?", category).Count(&n)
		byCategory[category] = n
	}

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"new_feedback_7d":  new7,
			"new_feedback_30d": new30,
			"by_category":      byCategory,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}
