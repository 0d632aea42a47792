package routes

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"feedback-pulse-server/models"
)

func seedFeedback(t *testing.T, db *gorm.DB, gravity float64) models.FeedbackItem {
	t.Helper()
	item := models.FeedbackItem{
		ID:           uuid.NewString(),
		Content:      "something happened",
		Source:       "api",
		Sentiment:    -0.5,
		Category:     models.CategoryBug,
		Explanation:  "A bug was reported",
		GravityScore: gravity,
		Status:       models.StatusOpen,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestGetFeedbackDrilldown(t *testing.T) {
	db := newRouteTestDB(t)
	app := buildIngestApp(t, db, &fakeQueue{})
	item := seedFeedback(t, db, 10)

	resp := doJSON(app, http.MethodGet, "/api/feedback/"+item.ID, "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Feedback models.FeedbackItem `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, item.ID, body.Feedback.ID)
}

func TestGetFeedbackNotFound(t *testing.T) {
	app := buildIngestApp(t, newRouteTestDB(t), &fakeQueue{})
	resp := doJSON(app, http.MethodGet, "/api/feedback/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCloseFeedbackTransition(t *testing.T) {
	db := newRouteTestDB(t)
	app := buildIngestApp(t, db, &fakeQueue{})
	item := seedFeedback(t, db, 10)

	resp := doJSON(app, http.MethodPost, "/api/feedback/"+item.ID+"/close", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	var loaded models.FeedbackItem
	require.NoError(t, db.First(&loaded, "id = ?", item.ID).Error)
	assert.Equal(t, models.StatusClosed, loaded.Status)
	require.NotNil(t, loaded.ClosedAt)

	// closing twice is a no-op
	resp = doJSON(app, http.MethodPost, "/api/feedback/"+item.ID+"/close", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAppViewTopFiveByGravity(t *testing.T) {
	db := newRouteTestDB(t)
	app := buildIngestApp(t, db, &fakeQueue{})
	for i := 0; i < 7; i++ {
		seedFeedback(t, db, float64(i))
	}

	resp := doJSON(app, http.MethodGet, "/api/app", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Feedback []models.FeedbackItem `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Feedback, 5)
	assert.Equal(t, 6.0, body.Feedback[0].GravityScore)
}

func TestListFeedbackPagination(t *testing.T) {
	db := newRouteTestDB(t)
	app := buildIngestApp(t, db, &fakeQueue{})
	for i := 0; i < 5; i++ {
		seedFeedback(t, db, float64(i))
	}

	resp := doJSON(app, http.MethodGet, "/api/feedback?page=2&per_page=2", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Data []models.FeedbackItem `json:"data"`
		Meta struct {
			Page    int   `json:"page"`
			PerPage int   `json:"per_page"`
			Total   int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, int64(5), body.Meta.Total)
	assert.Equal(t, 2, body.Meta.Page)
	// page 2 of gravity-desc ordering: scores 2 and 1
	assert.Equal(t, 2.0, body.Data[0].GravityScore)
}

func TestDashboardCounts(t *testing.T) {
	db := newRouteTestDB(t)
	app := buildIngestApp(t, db, &fakeQueue{})
	seedFeedback(t, db, 5)
	closedItem := seedFeedback(t, db, 7)
	now := time.Now()
	closedItem.Status = models.StatusClosed
	closedItem.ClosedAt = &now
	require.NoError(t, db.Save(&closedItem).Error)

	resp := doJSON(app, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Counts struct {
			Open   int64 `json:"open"`
			Closed int64 `json:"closed"`
		} `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Counts.Open)
	assert.Equal(t, int64(1), body.Counts.Closed)
}
