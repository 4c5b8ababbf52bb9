package workflow

import (
	"context"
	"time"

	"github.com/dyike/ScoutGo/internal/agents"
	"github.com/dyike/ScoutGo/internal/logger"
	"github.com/dyike/ScoutGo/internal/models"
)

// RefusalMessage is the fixed reply for out-of-domain requests. It ships with
// success semantics: rejection is a routing outcome, not an error.
const RefusalMessage = "I can only help with company, business, finance, and stock-related questions—please try another question."

// NewsStep runs research-backed extraction steps.
type NewsStep interface {
	Research(ctx context.Context, competitorName string, keywords []string) (agents.StepResult[models.NewsResearchResult], error)
	QuickAnswer(ctx context.Context, question, entity, focusedQuery string) (agents.StepResult[models.QuickAnswerResult], error)
}

// FinanceStep runs the financial analysis step.
type FinanceStep interface {
	Analyze(ctx context.Context, competitorName, ticker string) (agents.StepResult[models.FinancialAnalysisResult], error)
}

// ReportStep runs the memo synthesis step.
type ReportStep interface {
	Write(ctx context.Context, state *models.WorkflowState) (agents.StepResult[models.ReportMemo], error)
}

// Result is the orchestrator's uniform output contract: accumulated state
// plus the rendered document, regardless of which path ran.
type Result struct {
	State    *models.WorkflowState
	Document string
}

// Orchestrator sequences one request through the workflow: domain gate,
// intent routing, then either the quick-answer step or the full report
// chain. Steps run strictly sequentially; state writes are additive only.
type Orchestrator struct {
	Caller    agents.Caller
	News      NewsStep
	Finance   FinanceStep
	Report    ReportStep
	Extractor agents.PromptExtractor // primary prompt extractor, may be nil
}

// New wires the production orchestrator.
func New(caller agents.Caller, news NewsStep, finance FinanceStep, report ReportStep) *Orchestrator {
	return &Orchestrator{
		Caller:    caller,
		News:      news,
		Finance:   finance,
		Report:    report,
		Extractor: &agents.LLMExtractor{Caller: caller},
	}
}

// Run executes the workflow for one inbound message.
func (o *Orchestrator) Run(ctx context.Context, message string) (*Result, error) {
	decision := agents.ClassifyDomain(ctx, message, o.Caller)
	logger.Log.Infof("domain gate: domain=%s category=%s reason=%s", decision.Domain, decision.Category, decision.Reason)

	if !decision.InDomain() {
		// Strict gate: no specialist step runs for out-of-domain messages.
		state := models.NewWorkflowState(models.Unknown, models.ParsedPrompt{CompetitorName: models.Unknown})
		return &Result{State: state, Document: RefusalMessage}, nil
	}

	intent := agents.DetectIntent(message)
	logger.Log.Infof("detected intent=%s", intent)

	if intent == agents.IntentQuickAnswer {
		return o.runQuickAnswer(ctx, message)
	}
	return o.runFullReport(ctx, message)
}

func (o *Orchestrator) runQuickAnswer(ctx context.Context, message string) (*Result, error) {
	entity := agents.ExtractEntity(message)
	focusedQuery := agents.FocusedQuery(message, entity)
	logger.Log.Infof("quick answer routing: entity=%q focused_query=%q", entity, focusedQuery)

	res, err := o.News.QuickAnswer(ctx, message, entity, focusedQuery)
	if err != nil {
		return nil, err
	}

	qa, err := agents.EnsureOutput("QuickAnswer", res)
	if err != nil {
		return nil, err
	}
	logger.Log.Infof("quick answer: query_used=%q source_url=%q confidence=%q", qa.QueryUsed, qa.SourceURL, qa.Confidence)

	answer := PolishAnswer(qa.Answer, qa.SourceURL)

	// Minimal state keeps the output contract uniform with the report path.
	state := models.NewWorkflowState(
		models.OrUnknown(entity),
		models.ParsedPrompt{CompetitorName: models.Unknown},
	)
	return &Result{State: state, Document: answer}, nil
}

func (o *Orchestrator) runFullReport(ctx context.Context, message string) (*Result, error) {
	parsed := agents.ParsePrompt(ctx, message, o.Extractor, &agents.RegexExtractor{})
	logger.Log.Infof("parsed prompt: competitor=%q ticker=%q keywords=%v", parsed.CompetitorName, parsed.Ticker, parsed.Keywords)

	state := models.NewWorkflowState(parsed.CompetitorName, parsed)

	// News research, with at most one targeted second pass.
	newsRes, err := o.News.Research(ctx, parsed.CompetitorName, parsed.Keywords)
	if err != nil {
		return nil, err
	}
	news, err := agents.EnsureOutput("NewsResearch", newsRes)
	if err != nil {
		return nil, err
	}

	if NeedsSecondSearch(news.CompanyOverview) {
		logger.Log.Warn("news results incomplete, running targeted second search")
		keywords := append(append([]string{}, parsed.Keywords...), secondPassKeywords...)
		secondRes, err := o.News.Research(ctx, parsed.CompetitorName, keywords)
		if err != nil {
			return nil, err
		}
		news, err = agents.EnsureOutput("NewsResearch", secondRes)
		if err != nil {
			return nil, err
		}
	}

	state.CompanyOverview = &news.CompanyOverview
	state.RecentDevelopments = &news.RecentDevelopments
	state.ProductsPricing = &news.ProductsPricing
	state.AddSources(news.Sources)

	// Financial analysis.
	finRes, err := o.Finance.Analyze(ctx, parsed.CompetitorName, parsed.Ticker)
	if err != nil {
		return nil, err
	}
	fin, err := agents.EnsureOutput("FinancialAnalysis", finRes)
	if err != nil {
		return nil, err
	}

	state.FinancialOverview = &fin.FinancialOverview
	state.AddSources(fin.Sources)

	// Report synthesis.
	reportRes, err := o.Report.Write(ctx, state)
	if err != nil {
		return nil, err
	}
	memo, err := agents.EnsureOutput("ReportMemo", reportRes)
	if err != nil {
		return nil, err
	}

	if memo.DateLabel == "" {
		memo.DateLabel = time.Now().Format("January 2006")
	}
	if memo.CompetitorName == "" {
		memo.CompetitorName = parsed.CompetitorName
	}

	return &Result{State: state, Document: memo.RenderMarkdown()}, nil
}
