package models

import "strings"

// Unknown is the canonical placeholder for any string field whose value could
// not be determined. Rendering code treats present and unknown values
// uniformly, so result structs must never carry empty strings instead.
const Unknown = "unknown"

// OrUnknown substitutes the sentinel for blank values.
func OrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}

// IsUnknown reports whether a field carries no usable information.
func IsUnknown(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", Unknown, "n/a":
		return true
	}
	return false
}

// Source is one citable search result. URL doubles as the dedup key within a
// single fetch.
type Source struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Snippet       string `json:"snippet,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
}

// CompanyOverview holds the core company facts the news step extracts.
type CompanyOverview struct {
	Description string   `json:"description"`
	Founded     string   `json:"founded"`
	HQLocation  string   `json:"hq_location"`
	Employees   string   `json:"employees"`
	Executives  []string `json:"executives"`
}

type RecentDevelopments struct {
	ProductNews          []string `json:"product_news"`
	PartnershipsAndDeals []string `json:"partnerships_and_deals"`
	OrgChanges           []string `json:"org_changes"`
}

type ProductsPricing struct {
	CoreProducts               []string `json:"core_products"`
	PricingModel               string   `json:"pricing_model"`
	CompetitiveDifferentiation []string `json:"competitive_differentiation"`
}

// NewsResearchResult is the structured output of the news research step.
type NewsResearchResult struct {
	CompanyOverview    CompanyOverview    `json:"company_overview"`
	RecentDevelopments RecentDevelopments `json:"recent_developments"`
	ProductsPricing    ProductsPricing    `json:"products_pricing"`
	Sources            []Source           `json:"sources"`
}

// PricePerformance summarizes recent price action at fixed lookbacks. Nil
// pointers mean the series was shorter than the lookback.
type PricePerformance struct {
	AsOf        string   `json:"as_of"`
	LastClose   *float64 `json:"last_close"`
	Change5DPct *float64 `json:"change_5d_pct"`
	Change1MPct *float64 `json:"change_1m_pct"`
	Change6MPct *float64 `json:"change_6m_pct"`
}

type FinancialOverview struct {
	Ticker              string            `json:"ticker"`
	MarketCap           string            `json:"market_cap"`
	Revenue             string            `json:"revenue"`
	RevenueGrowth       string            `json:"revenue_growth"`
	Profitability       string            `json:"profitability"`
	BurnRate            string            `json:"burn_rate"`
	FundingAndValuation string            `json:"funding_and_valuation"`
	PricePerformance    *PricePerformance `json:"price_performance,omitempty"`
	Notes               []string          `json:"notes"`
}

// FinancialAnalysisResult is the structured output of the financial step.
type FinancialAnalysisResult struct {
	FinancialOverview FinancialOverview `json:"financial_overview"`
	Sources           []Source          `json:"sources"`
}

// QuickAnswerResult is the structured output of the single-step quick path.
type QuickAnswerResult struct {
	Answer     string `json:"answer"`
	SourceURL  string `json:"source_url"`
	Confidence string `json:"confidence"`
	QueryUsed  string `json:"query_used"`
}

// ParsedPrompt is the structured record extracted once from a full-report
// request. Immutable after extraction.
type ParsedPrompt struct {
	CompetitorName string   `json:"competitor_name"`
	Ticker         string   `json:"ticker,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	Region         string   `json:"region,omitempty"`
	TimeHorizon    string   `json:"time_horizon,omitempty"`
	Keywords       []string `json:"keywords"`
}
