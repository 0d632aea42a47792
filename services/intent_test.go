package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteValidIntent(t *testing.T) {
	llm := &stubLLM{reply: `{"intent": "bugs_recent", "params": {"hours": 24, "days": 0, "term": "", "id": ""}}`}
	router := NewIntentRouter(llm)

	routed, fallback := router.Route(context.Background(), "any bugs today?")
	assert.Equal(t, FallbackNone, fallback)
	assert.Equal(t, IntentBugsRecent, routed.Intent)
	assert.Equal(t, 24, routed.Params.Hours)
}

func TestRouteEmptyQueryDefaultsToHelp(t *testing.T) {
	llm := &stubLLM{reply: `{"intent": "top_issues", "params": {}}`}
	router := NewIntentRouter(llm)

	routed, fallback := router.Route(context.Background(), "")
	assert.Equal(t, FallbackNone, fallback)
	assert.Equal(t, IntentHelp, routed.Intent)
	assert.Zero(t, routed.Params)
	assert.Equal(t, 0, llm.calls, "empty query must not reach the model")
}

func TestRouteModelErrorFallsBackToHelp(t *testing.T) {
	llm := &stubLLM{err: errors.New("connection refused")}
	router := NewIntentRouter(llm)

	routed, fallback := router.Route(context.Background(), "top issues")
	assert.Equal(t, FallbackModelUnavailable, fallback)
	assert.Equal(t, helpFallback, routed)
}

func TestRouteGarbageOutputFallsBackToHelp(t *testing.T) {
	llm := &stubLLM{reply: "I think you want the top issues."}
	router := NewIntentRouter(llm)

	routed, fallback := router.Route(context.Background(), "top issues")
	assert.Equal(t, FallbackBadModelOutput, fallback)
	assert.Equal(t, helpFallback, routed)
}

func TestRouteUnknownIntentFallsBackToHelp(t *testing.T) {
	llm := &stubLLM{reply: `{"intent": "delete_everything", "params": {}}`}
	router := NewIntentRouter(llm)

	routed, fallback := router.Route(context.Background(), "wipe the database")
	assert.Equal(t, FallbackBadModelOutput, fallback)
	assert.Equal(t, helpFallback, routed)
}

func TestRouteMissingIntentKeyFallsBackToHelp(t *testing.T) {
	llm := &stubLLM{reply: `{"params": {"term": "login"}}`}
	router := NewIntentRouter(llm)

	routed, fallback := router.Route(context.Background(), "search login")
	assert.Equal(t, FallbackBadModelOutput, fallback)
	assert.Equal(t, helpFallback, routed)
}
