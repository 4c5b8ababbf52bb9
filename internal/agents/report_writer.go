package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/dyike/ScoutGo/internal/models"
)

// ReportWriter synthesizes the accumulated state into the memo.
type ReportWriter struct {
	Caller Caller
}

const reportMemoSchema = `{
  "competitor_name": "string",
  "date_label": "string",
  "executive_summary": ["string"],
  "company_overview": {"description": "string", "founded": "string", "hq_location": "string", "employees": "string", "executives": ["string"]},
  "recent_developments": {"product_news": ["string"], "partnerships_and_deals": ["string"], "org_changes": ["string"]},
  "financial_overview": {"ticker": "string", "market_cap": "string", "revenue": "string", "revenue_growth": "string", "profitability": "string", "burn_rate": "string", "funding_and_valuation": "string", "notes": ["string"]},
  "products_pricing": {"core_products": ["string"], "pricing_model": "string", "competitive_differentiation": ["string"]},
  "swot": {"strengths": ["string"], "weaknesses": ["string"], "opportunities": ["string"], "threats": ["string"]},
  "key_takeaways": ["string"]
}`

// Write runs the report synthesis step over the full workflow state.
func (rw *ReportWriter) Write(ctx context.Context, state *models.WorkflowState) (StepResult[models.ReportMemo], error) {
	stateJSON, _ := json.MarshalIndent(state, "", "  ")

	prompt := fmt.Sprintf(`You are the ReportWriter.

You must create a business memo that strictly follows the required template structure and headings.

Return ONLY valid JSON matching this schema:
%s

Constraints:
- Be concise, factual, and business-oriented.
- If something is unknown, explicitly say so in the relevant field.
- Use lists for bullet sections.

INPUT STATE:
%s`, reportMemoSchema, stateJSON)

	messages := []*schema.Message{
		schema.SystemMessage("You write investment-grade competitor briefs. You are strict about templates and do not invent facts."),
		schema.UserMessage(prompt),
	}

	resp, err := rw.Caller.Generate(ctx, messages)
	if err != nil {
		return StepResult[models.ReportMemo]{}, fmt.Errorf("report writing: %w", err)
	}

	res := StepResult[models.ReportMemo]{Raw: resp.Content}
	if parsed, err := DecodeJSON[models.ReportMemo](resp.Content); err == nil {
		res.Parsed = parsed
	}
	return res, nil
}
