package routes

import (
	"log"
	"net/http"

	"github.com/kataras/iris/v12"

	"feedback-pulse-server/services"
	"feedback-pulse-server/utils"
)

type chatInput struct {
	Query string `json:"query"`
}

// ChatRoutes runs Intent Router → Query Executor → Answer Composer.
type ChatRoutes struct {
	Router   *services.IntentRouter
	Executor *services.QueryExecutor
	Composer *services.AnswerComposer
}

func NewChatRoutes(router *services.IntentRouter, executor *services.QueryExecutor, composer *services.AnswerComposer) *ChatRoutes {
	return &ChatRoutes{Router: router, Executor: executor, Composer: composer}
}

// POST /api/chat — answer a natural-language question about the feedback.
// Model failures never surface as errors: routing falls back to help and
// composition falls back to a fixed apology, so the body is always well
// formed. Only a store failure returns a 500.
func (c *ChatRoutes) Chat(ctx iris.Context) {
	var input chatInput
	if err := ctx.ReadJSON(&input); err != nil {
		// Missing or malformed query defaults the intent to help.
		input.Query = ""
	}

	reqCtx := ctx.Request().Context()

	routed, routeFallback := c.Router.Route(reqCtx, input.Query)
	if routeFallback != services.FallbackNone {
		log.Printf("⚠️  CHAT: intent routing fell back to help (%s)", routeFallback)
	}

	if routed.Intent == services.IntentHelp {
		answer := c.Composer.Help()
		ctx.JSON(iris.Map{"success": true, "intent": routed.Intent, "answer": answer.Answer,
			"headline": answer.Headline, "followUp": answer.FollowUp})
		return
	}

	items, err := c.Executor.Execute(routed)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "db_error", "could not query feedback")
		return
	}

	answer, composeFallback := c.Composer.Compose(reqCtx, input.Query, items)
	if composeFallback != services.FallbackNone {
		log.Printf("⚠️  CHAT: composer fell back (%s)", composeFallback)
	}

	ctx.JSON(iris.Map{
		"success":  true,
		"intent":   routed.Intent,
		"answer":   answer.Answer,
		"headline": answer.Headline,
		"stats":    answer.Stats,
		"cards":    answer.Cards,
		"followUp": answer.FollowUp,
	})
}
