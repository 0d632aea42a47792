package services

import (
	"context"

	"golang.org/x/exp/slices"
)

// Intent is one of the six fixed chat-query intents.
type Intent string

const (
	IntentTopIssues      Intent = "top_issues"
	IntentBugsRecent     Intent = "bugs_recent"
	IntentSearch         Intent = "search"
	IntentSummary        Intent = "summary"
	IntentIssueDrilldown Intent = "issue_drilldown"
	IntentHelp           Intent = "help"
)

var intents = []Intent{
	IntentTopIssues, IntentBugsRecent, IntentSearch,
	IntentSummary, IntentIssueDrilldown, IntentHelp,
}

// IntentParams carries the parameter slots; unused fields stay zero/empty.
type IntentParams struct {
	Hours int    `json:"hours"`
	Days  int    `json:"days"`
	Term  string `json:"term"`
	ID    string `json:"id"`
}

// IntentQuery is the routed form of one chat question. Ephemeral, never persisted.
type IntentQuery struct {
	Intent Intent       `json:"intent"`
	Params IntentParams `json:"params"`
}

const intentSystemPrompt = `You route questions about product feedback to exactly one intent. Respond with a single JSON object:
{"intent": "<top_issues|bugs_recent|search|summary|issue_drilldown|help>", "params": {"hours": 0, "days": 0, "term": "", "id": ""}}
Guidance:
- top_issues: highest-priority feedback right now.
- bugs_recent: bug reports in a recent window; "today" or "yesterday" means hours=24.
- search: look up feedback mentioning a term; put the term in params.term.
- summary: overview of a period; "this week" means days=7.
- issue_drilldown: a question about one specific feedback id; put it in params.id.
- help: anything else, greetings, or questions you cannot map.
Leave unused params at 0 or "". Return only the JSON object.`

// helpFallback is the total-mapping guarantee: every query routes somewhere.
var helpFallback = IntentQuery{Intent: IntentHelp}

// IntentRouter maps a free-text query to an IntentQuery via the model.
type IntentRouter struct {
	llm LLMClient
}

func NewIntentRouter(llm LLMClient) *IntentRouter {
	return &IntentRouter{llm: llm}
}

// Route never fails: model errors, unparsable output and unknown intents all
// resolve to help with zero params.
func (r *IntentRouter) Route(ctx context.Context, query string) (IntentQuery, FallbackReason) {
	if query == "" {
		return helpFallback, FallbackNone
	}

	raw, err := r.llm.Complete(ctx, []Message{
		{Role: "system", Content: intentSystemPrompt},
		{Role: "user", Content: query},
	})
	if err != nil {
		return helpFallback, FallbackModelUnavailable
	}

	var routed IntentQuery
	if err := ExtractJSON(raw, &routed); err != nil {
		return helpFallback, FallbackBadModelOutput
	}
	// A missing or unrecognized intent key counts as a parse failure.
	if !slices.Contains(intents, routed.Intent) {
		return helpFallback, FallbackBadModelOutput
	}
	return routed, FallbackNone
}
