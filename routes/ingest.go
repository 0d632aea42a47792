package routes

import (
	"net/http"
	"time"

	"github.com/kataras/iris/v12"

	"feedback-pulse-server/storage"
	"feedback-pulse-server/utils"
)

type ingestInput struct {
	Text      string `json:"text"`
	Source    string `json:"source" validate:"omitempty,max=100"`
	CreatedAt string `json:"createdAt" validate:"omitempty"`
}

// POST /api/ingest — accept a submission and queue it for enrichment.
// Responds immediately with an acknowledgment; the enriched record appears in
// reads once the background worker has processed it. Empty text substitutes a
// canned sample so the pipeline can always be demoed.
func (r *FeedbackRoutes) Ingest(ctx iris.Context) {
	var input ingestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	text := input.Text
	sampled := false
	if text == "" {
		text = utils.RandomSampleFeedback()
		sampled = true
	}
	source := input.Source
	if source == "" {
		source = "api"
	}
	if sampled && input.Source == "" {
		source = "random-generator"
	}

	createdAt := time.Now()
	if input.CreatedAt != "" {
		parsed, err := time.Parse(time.RFC3339, input.CreatedAt)
		if err != nil {
			utils.JSONError(ctx, http.StatusBadRequest, "invalid_payload", "createdAt must be RFC3339")
			return
		}
		createdAt = parsed
	}

	job := storage.EnrichJob{Text: text, Source: source, CreatedAt: createdAt}
	if err := r.Queue.Enqueue(ctx.Request().Context(), job); err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "queue_error", "could not queue submission")
		return
	}

	ctx.StatusCode(http.StatusAccepted)
	ctx.JSON(iris.Map{"success": true, "queued": true, "sampled": sampled})
}
