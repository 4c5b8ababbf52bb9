package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/dyike/ScoutGo/internal/logger"
	"github.com/dyike/ScoutGo/internal/models"
)

// Searcher is the web-search provider boundary.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]models.Source, error)
}

// NewsResearcher gathers web sources and extracts structured findings with
// explicit unknowns.
type NewsResearcher struct {
	Caller   Caller
	Searcher Searcher
}

const resultsPerQuery = 6
const quickAnswerResults = 8

// gatherSources fans out over multiple focused queries for better coverage;
// the orchestrator can trigger a second pass with extra keywords if the
// result is incomplete. URLs are deduplicated within this fetch.
func (nr *NewsResearcher) gatherSources(ctx context.Context, companyName string, keywords []string) ([]models.Source, error) {
	queries := []string{
		fmt.Sprintf("%s company overview headquarters CEO founded employees", companyName),
		fmt.Sprintf("%s product launch pricing plans", companyName),
		fmt.Sprintf("%s partnership acquisition layoff reorg press release", companyName),
		fmt.Sprintf("%s news 2024 2025", companyName),
	}
	if len(keywords) > 0 {
		queries = append([]string{companyName + " " + strings.Join(keywords, " ")}, queries...)
	}

	seen := map[string]bool{}
	var sources []models.Source
	for _, q := range queries {
		results, err := nr.Searcher.Search(ctx, q, resultsPerQuery)
		if err != nil {
			return nil, err
		}
		for _, s := range results {
			if seen[s.URL] {
				continue
			}
			seen[s.URL] = true
			sources = append(sources, s)
		}
	}
	return sources, nil
}

const newsResearchSchema = `{
  "company_overview": {"description": "string", "founded": "string", "hq_location": "string", "employees": "string", "executives": ["string"]},
  "recent_developments": {"product_news": ["string"], "partnerships_and_deals": ["string"], "org_changes": ["string"]},
  "products_pricing": {"core_products": ["string"], "pricing_model": "string", "competitive_differentiation": ["string"]},
  "sources": [{"title": "string", "url": "string", "snippet": "string", "published_date": "string"}]
}`

// Research runs the full multi-query research step for a report.
func (nr *NewsResearcher) Research(ctx context.Context, competitorName string, keywords []string) (StepResult[models.NewsResearchResult], error) {
	sources, err := nr.gatherSources(ctx, competitorName, keywords)
	if err != nil {
		return StepResult[models.NewsResearchResult]{}, fmt.Errorf("news research: %w", err)
	}
	logger.Log.Infof("news research gathered %d sources for %s", len(sources), competitorName)

	sourcesJSON, _ := json.MarshalIndent(sources, "", "  ")
	keywordsJSON, _ := json.Marshal(keywords)

	prompt := fmt.Sprintf(`You are the NewsResearcher.

Using ONLY the sources list below (web search results), extract structured information.

Return ONLY valid JSON that matches this schema:
%s

Rules:
- Return JSON ONLY (no markdown, no backticks, no trailing commentary).
- Prefer last 6-12 months for Recent Developments.
- If data is missing, put 'unknown' (string) or [] for lists.
- Use ONLY double quotes in JSON.

Company: %s
Keywords/context: %s

SOURCES:
%s`, newsResearchSchema, competitorName, keywordsJSON, sourcesJSON)

	messages := []*schema.Message{
		schema.SystemMessage("You are an investigative market researcher. You use web search results and extract structured, factual findings with explicit unknowns."),
		schema.UserMessage(prompt),
	}

	resp, err := nr.Caller.Generate(ctx, messages)
	if err != nil {
		return StepResult[models.NewsResearchResult]{}, fmt.Errorf("news research: %w", err)
	}

	res := StepResult[models.NewsResearchResult]{Raw: resp.Content}
	if parsed, err := DecodeJSON[models.NewsResearchResult](resp.Content); err == nil {
		res.Parsed = parsed
	}
	return res, nil
}

const quickAnswerSchema = `{
  "answer": "string (one sentence)",
  "source_url": "string",
  "confidence": "low|medium|high",
  "query_used": "string"
}`

// QuickAnswer runs the single focused search + one-sentence extraction step.
func (nr *NewsResearcher) QuickAnswer(ctx context.Context, question, entity, focusedQuery string) (StepResult[models.QuickAnswerResult], error) {
	sources, err := nr.Searcher.Search(ctx, focusedQuery, quickAnswerResults)
	if err != nil {
		return StepResult[models.QuickAnswerResult]{}, fmt.Errorf("quick answer: %w", err)
	}

	sourcesJSON, _ := json.MarshalIndent(sources, "", "  ")

	prompt := fmt.Sprintf(`You are the NewsResearcher answering a single factual question.

Using ONLY the sources list below, answer in EXACTLY one sentence.

Return ONLY valid JSON that matches this schema:
%s

Rules:
- The answer must be one factual sentence, no hedging filler.
- Pick the most authoritative source URL you actually used.
- Set confidence to low when the sources disagree or are stale.

QUESTION: %s
ENTITY: %s
QUERY USED: %s

SOURCES:
%s`, quickAnswerSchema, question, entity, focusedQuery, sourcesJSON)

	messages := []*schema.Message{
		schema.SystemMessage("You are an investigative market researcher. You answer short factual questions with one cited sentence."),
		schema.UserMessage(prompt),
	}

	resp, err := nr.Caller.Generate(ctx, messages)
	if err != nil {
		return StepResult[models.QuickAnswerResult]{}, fmt.Errorf("quick answer: %w", err)
	}

	res := StepResult[models.QuickAnswerResult]{Raw: resp.Content}
	if parsed, err := DecodeJSON[models.QuickAnswerResult](resp.Content); err == nil {
		res.Parsed = parsed
	}
	return res, nil
}
