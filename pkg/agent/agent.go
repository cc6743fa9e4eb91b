// Package agent wraps the external deep-research collaborator behind a
// single Invoke operation so commands and tests can substitute
// implementations freely.
package agent

import "context"

// Invoker performs one blocking research invocation. Timeout and loop
// control are the collaborator's concern; callers only pass a context.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Response, error)
}

// Message is a single conversational message on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the invocation contract of the research graph.
type Request struct {
	Messages                []Message `json:"messages"`
	MaxResearchLoops        int       `json:"max_research_loops"`
	InitialSearchQueryCount int       `json:"initial_search_query_count"`
	ReasoningModel          string    `json:"reasoning_model"`
}

// Response is the graph's final state. The last message carries the report.
type Response struct {
	Messages []Message `json:"messages"`
}

// Last returns the content of the final message, or "" and false when the
// response carries no messages.
func (r *Response) Last() (string, bool) {
	if r == nil || len(r.Messages) == 0 {
		return "", false
	}
	return r.Messages[len(r.Messages)-1].Content, true
}
