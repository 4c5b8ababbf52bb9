package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/dyike/ScoutGo/internal/dataflows"
	"github.com/dyike/ScoutGo/internal/logger"
	"github.com/dyike/ScoutGo/internal/models"
)

// FinancialAnalyst pulls market data and summarizes financial signals. It
// does not invent numbers: fields the provider lacks stay "unknown".
type FinancialAnalyst struct {
	Caller Caller
	Client *dataflows.AlphaVantageClient
}

// fetchFinancials assembles the provider-side facts before any model call.
// An unresolvable ticker is not an error: private companies simply have no
// market data.
func (fa *FinancialAnalyst) fetchFinancials(ctx context.Context, competitorName, ticker string) (*models.FinancialAnalysisResult, error) {
	resolved := ticker
	if resolved == "" {
		var err error
		resolved, err = fa.Client.ResolveSymbol(ctx, competitorName)
		if err != nil {
			return nil, err
		}
	}

	if resolved == "" {
		return &models.FinancialAnalysisResult{
			FinancialOverview: unknownOverview([]string{
				"Ticker not found via symbol search; treating as private/unknown market data.",
			}),
			Sources: []models.Source{},
		}, nil
	}

	overview, err := fa.Client.CompanyOverview(ctx, resolved)
	if err != nil {
		return nil, err
	}
	income, err := fa.Client.IncomeStatement(ctx, resolved)
	if err != nil {
		return nil, err
	}

	revenue, growth := dataflows.SummarizeRevenueGrowth(income)
	if revenue == models.Unknown {
		if ttm := overviewFloat(overview, "RevenueTTM"); ttm != nil {
			revenue = dataflows.FormatMoney(ttm) + " (TTM)"
		}
	}

	marketCap := models.Unknown
	if mc := overviewFloat(overview, "MarketCapitalization"); mc != nil {
		marketCap = dataflows.FormatMoney(mc)
	}

	profitability := models.Unknown
	profitMargin, _ := overview["ProfitMargin"].(string)
	opMargin, _ := overview["OperatingMarginTTM"].(string)
	if profitMargin != "" || opMargin != "" {
		profitability = fmt.Sprintf("profit margin: %s; operating margin: %s",
			models.OrUnknown(profitMargin), models.OrUnknown(opMargin))
	}

	funding := models.Unknown
	if marketCap != models.Unknown {
		funding = fmt.Sprintf("public markets (market cap %s)", marketCap)
	}

	notes := []string{
		"Provider offers limited fundamentals for some tickers; unknown fields reflect missing data.",
	}
	if cashFlow, err := fa.Client.CashFlow(ctx, resolved); err == nil {
		if fcf := dataflows.SummarizeFreeCashFlow(cashFlow); fcf != models.Unknown {
			notes = append(notes, fcf)
		}
	}

	// Price performance is best effort: a failed series fetch never sinks
	// the step.
	var perf *models.PricePerformance
	if series, err := fa.Client.DailyAdjusted(ctx, resolved); err == nil {
		perf = dataflows.SummarizePricePerformance(series)
	} else {
		logger.Log.Warnf("price series fetch failed for %s: %v", resolved, err)
	}

	return &models.FinancialAnalysisResult{
		FinancialOverview: models.FinancialOverview{
			Ticker:              resolved,
			MarketCap:           marketCap,
			Revenue:             revenue,
			RevenueGrowth:       growth,
			Profitability:       profitability,
			BurnRate:            models.Unknown,
			FundingAndValuation: funding,
			PricePerformance:    perf,
			Notes:               notes,
		},
		// Market data is not a web source; the citation list stays empty.
		Sources: []models.Source{},
	}, nil
}

func unknownOverview(notes []string) models.FinancialOverview {
	return models.FinancialOverview{
		Ticker:              models.Unknown,
		MarketCap:           models.Unknown,
		Revenue:             models.Unknown,
		RevenueGrowth:       models.Unknown,
		Profitability:       models.Unknown,
		BurnRate:            models.Unknown,
		FundingAndValuation: models.Unknown,
		Notes:               notes,
	}
}

func overviewFloat(overview map[string]interface{}, key string) *float64 {
	switch v := overview[key].(type) {
	case float64:
		return &v
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			return &f
		}
	}
	return nil
}

const financialAnalysisSchema = `{
  "financial_overview": {"ticker": "string", "market_cap": "string", "revenue": "string", "revenue_growth": "string", "profitability": "string", "burn_rate": "string", "funding_and_valuation": "string", "price_performance": {"as_of": "string", "last_close": 0, "change_5d_pct": 0, "change_1m_pct": 0, "change_6m_pct": 0}, "notes": ["string"]},
  "sources": [{"title": "string", "url": "string"}]
}`

// Analyze runs the financial analysis step.
func (fa *FinancialAnalyst) Analyze(ctx context.Context, competitorName, ticker string) (StepResult[models.FinancialAnalysisResult], error) {
	data, err := fa.fetchFinancials(ctx, competitorName, ticker)
	if err != nil {
		return StepResult[models.FinancialAnalysisResult]{}, fmt.Errorf("financial analysis: %w", err)
	}

	dataJSON, _ := json.MarshalIndent(data, "", "  ")

	prompt := fmt.Sprintf(`You are the FinancialAnalyst.

Market data has already been pulled programmatically.

Return ONLY valid JSON matching this schema:
%s

Do not add extra keys. Do not invent numbers; keep 'unknown' where the data says so.

COMPANY: %s
TICKER (optional): %s

DATA:
%s`, financialAnalysisSchema, competitorName, ticker, dataJSON)

	messages := []*schema.Message{
		schema.SystemMessage("You are a disciplined financial analyst. You do not invent numbers. If the provider lacks fields, you return 'unknown' and explain."),
		schema.UserMessage(prompt),
	}

	resp, err := fa.Caller.Generate(ctx, messages)
	if err != nil {
		return StepResult[models.FinancialAnalysisResult]{}, fmt.Errorf("financial analysis: %w", err)
	}

	res := StepResult[models.FinancialAnalysisResult]{Raw: resp.Content}
	if parsed, err := DecodeJSON[models.FinancialAnalysisResult](resp.Content); err == nil {
		res.Parsed = parsed
	}
	return res, nil
}
