package services

import (
	"context"
	"encoding/json"
	"fmt"

	"feedback-pulse-server/models"
)

// StatChip is one small aggregate shown alongside the answer.
type StatChip struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// IssueCard is one ranked feedback item in the structured answer. Cards are
// built in code from the retrieved records, never by the model, so they cannot
// reference anything outside the result set.
type IssueCard struct {
	ID           string  `json:"id"`
	Category     string  `json:"category"`
	Explanation  string  `json:"explanation"`
	GravityScore float64 `json:"gravityScore"`
	Sentiment    float64 `json:"sentiment"`
}

// ChatAnswer is the chat endpoint's response body. Answer is always non-empty,
// even under total model failure.
type ChatAnswer struct {
	Answer   string      `json:"answer"`
	Headline string      `json:"headline,omitempty"`
	Stats    []StatChip  `json:"stats,omitempty"`
	Cards    []IssueCard `json:"cards,omitempty"`
	FollowUp string      `json:"followUp,omitempty"`
}

const composerSystemPrompt = `You summarize product feedback for a team dashboard. You are given the user's question and a JSON list of feedback records. Treat the records as the only source of truth: never invent ids, counts, or facts that are not in the list. Respond with a single JSON object:
{"answer": "<grounded summary answering the question>", "headline": "<one short headline>", "follow_up": "<one natural follow-up question the user might ask next>"}
Return only the JSON object.`

const (
	emptyResultAnswer = "No matching feedback was found for that question. Try a wider time window, a different search term, or ask for the top issues."
	composerErrAnswer = "Sorry, I couldn't analyze the feedback data just now. Please try again in a moment."
	helpAnswer        = "I can answer questions about collected feedback: try \"what are the top issues\", \"any bugs today\", \"search for checkout\", \"summarize this week\", or ask about a specific feedback id."
)

type composerModelReply struct {
	Answer   string `json:"answer"`
	Headline string `json:"headline"`
	FollowUp string `json:"follow_up"`
}

// AnswerComposer turns retrieved records plus the original question into a
// grounded response.
type AnswerComposer struct {
	llm LLMClient
}

func NewAnswerComposer(llm LLMClient) *AnswerComposer {
	return &AnswerComposer{llm: llm}
}

// Help returns the fixed capabilities reply for the help intent.
func (c *AnswerComposer) Help() ChatAnswer {
	return ChatAnswer{
		Answer:   helpAnswer,
		Headline: "What I can do",
		FollowUp: "What are the top issues right now?",
	}
}

// Compose builds the answer for a non-help intent. An empty result set is
// reported explicitly with a refinement suggestion and no model call; a model
// or parse failure yields the fixed apology payload, never an error.
func (c *AnswerComposer) Compose(ctx context.Context, query string, items []models.FeedbackItem) (ChatAnswer, FallbackReason) {
	if len(items) == 0 {
		return ChatAnswer{
			Answer:   emptyResultAnswer,
			Headline: "No matching feedback",
			FollowUp: "Would you like the top issues instead?",
		}, FallbackNone
	}

	stats := buildStats(items)
	cards := buildCards(items)

	grounding, err := json.Marshal(items)
	if err != nil {
		return ChatAnswer{Answer: composerErrAnswer, Stats: stats, Cards: cards}, FallbackBadModelOutput
	}

	userMsg := fmt.Sprintf("Question: %s\n\nFeedback records:\n%s", query, grounding)
	raw, err := c.llm.Complete(ctx, []Message{
		{Role: "system", Content: composerSystemPrompt},
		{Role: "user", Content: userMsg},
	})
	if err != nil {
		return ChatAnswer{Answer: composerErrAnswer, Stats: stats, Cards: cards}, FallbackModelUnavailable
	}

	var reply composerModelReply
	if err := ExtractJSON(raw, &reply); err != nil || reply.Answer == "" {
		return ChatAnswer{Answer: composerErrAnswer, Stats: stats, Cards: cards}, FallbackBadModelOutput
	}

	return ChatAnswer{
		Answer:   reply.Answer,
		Headline: reply.Headline,
		Stats:    stats,
		Cards:    cards,
		FollowUp: reply.FollowUp,
	}, FallbackNone
}

func buildStats(items []models.FeedbackItem) []StatChip {
	counts := map[string]int{}
	sentimentSum := 0.0
	for _, item := range items {
		counts[item.Category]++
		sentimentSum += item.Sentiment
	}
	topCategory := ""
	topCount := 0
	for _, category := range models.Categories {
		if counts[category] > topCount {
			topCategory, topCount = category, counts[category]
		}
	}
	return []StatChip{
		{Label: "items", Value: fmt.Sprintf("%d", len(items))},
		{Label: "avg sentiment", Value: fmt.Sprintf("%.2f", sentimentSum/float64(len(items)))},
		{Label: "top category", Value: topCategory},
	}
}

func buildCards(items []models.FeedbackItem) []IssueCard {
	limit := len(items)
	if limit > 5 {
		limit = 5
	}
	cards := make([]IssueCard, 0, limit)
	for _, item := range items[:limit] {
		cards = append(cards, IssueCard{
			ID:           item.ID,
			Category:     item.Category,
			Explanation:  item.Explanation,
			GravityScore: item.GravityScore,
			Sentiment:    item.Sentiment,
		})
	}
	return cards
}
