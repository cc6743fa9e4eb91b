package report

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dealscope/dealscope/internal/model"
	"github.com/dealscope/dealscope/pkg/agent"
)

// ErrAgentFailure reports an invocation that returned no usable result. No
// partial output is rendered for such a run; the user is asked to retry.
var ErrAgentFailure = eris.New("report: agent returned no usable result")

// Generator turns a validated report request into a finished report by way
// of the injected research agent.
type Generator struct {
	agent agent.Invoker
}

// NewGenerator wires a Generator to its research collaborator.
func NewGenerator(inv agent.Invoker) *Generator {
	return &Generator{agent: inv}
}

// Generate blocks on a single agent invocation and post-processes its
// response. Validation failures never reach the agent.
func (g *Generator) Generate(ctx context.Context, req model.ReportRequest, portfolio *model.Portfolio, deal *model.Deal) (*model.ReportResult, error) {
	if portfolio == nil || deal == nil {
		return nil, eris.New("report: portfolio and deal are required")
	}

	prompt, err := BuildPrompt(req, portfolio, deal)
	if err != nil {
		return nil, err
	}

	queries, loops := req.Depth.Params()
	zap.L().Info("invoking research agent",
		zap.String("report_type", string(req.Type)),
		zap.String("company", deal.TargetCompanyName),
		zap.String("model", req.Model),
		zap.Int("initial_queries", queries),
		zap.Int("max_loops", loops),
	)

	resp, err := g.agent.Invoke(ctx, agent.Request{
		Messages:                []agent.Message{{Role: "user", Content: prompt}},
		MaxResearchLoops:        loops,
		InitialSearchQueryCount: queries,
		ReasoningModel:          req.Model,
	})
	if err != nil {
		return nil, eris.Wrap(err, "report: invoke agent")
	}

	body, ok := resp.Last()
	if !ok {
		return nil, ErrAgentFailure
	}

	return &model.ReportResult{
		Title: ExtractTitle(body, portfolio.Investor, deal.TargetCompanyName),
		Body:  body,
	}, nil
}
