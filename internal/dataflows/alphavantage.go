package dataflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/dyike/ScoutGo/internal/models"
)

// AlphaVantageError is raised when a financial-data request fails for good.
type AlphaVantageError struct {
	Message string
}

func (e *AlphaVantageError) Error() string {
	return fmt.Sprintf("alpha vantage: %s", e.Message)
}

// AlphaVantageClient fetches fundamentals and price data. Responses are
// cached on disk because the provider's per-minute budgets are tight.
type AlphaVantageClient struct {
	client *resty.Client
	cache  *CacheManager
	retry  *RetryConfig
	apiKey string
}

// NewAlphaVantageClient creates a new client. cacheDir may be empty when
// caching is disabled.
func NewAlphaVantageClient(apiKey, cacheDir string, cacheEnabled bool) *AlphaVantageClient {
	cache := NewCacheManager(filepath.Join(cacheDir, "alphavantage"), 6*time.Hour, cacheEnabled)

	client := resty.New()
	client.SetBaseURL("https://www.alphavantage.co")
	client.SetTimeout(25 * time.Second)

	return &AlphaVantageClient{
		client: client,
		cache:  cache,
		retry:  DefaultRetryConfig(),
		apiKey: apiKey,
	}
}

// get issues one query call. The provider embeds soft errors (rate limits,
// informational notices) in 200 responses; daily-quota messages will never
// succeed on retry and fail immediately, everything else is retried.
func (av *AlphaVantageClient) get(ctx context.Context, function, symbol string) (map[string]interface{}, error) {
	if av.apiKey == "" {
		return nil, &AlphaVantageError{Message: "API key not configured"}
	}

	params := map[string]string{"function": function}
	if symbol != "" {
		params["symbol"] = symbol
	}

	var cached map[string]interface{}
	if av.cache.Get("alphavantage", function, params, &cached) {
		return cached, nil
	}

	var data map[string]interface{}
	err := WithRetry(av.retry, func() error {
		// Unmarshal merges into a non-nil map, so a soft-error key from a
		// failed attempt would survive into the next one.
		data = nil

		resp, err := av.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetQueryParam("apikey", av.apiKey).
			Get("/query")

		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}

		if err := json.Unmarshal(resp.Body(), &data); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		if msg := softErrorMessage(data); msg != "" {
			if strings.Contains(strings.ToLower(msg), "per day") {
				return Permanent(&AlphaVantageError{Message: msg})
			}
			return fmt.Errorf("provider notice: %s", msg)
		}
		return nil
	})

	if err != nil {
		var avErr *AlphaVantageError
		if errors.As(err, &avErr) {
			return nil, avErr
		}
		return nil, &AlphaVantageError{Message: fmt.Sprintf("%s request failed: %v", function, err)}
	}

	av.cache.Set("alphavantage", function, params, data)
	return data, nil
}

func softErrorMessage(data map[string]interface{}) string {
	for _, key := range []string{"Information", "Note", "Error Message"} {
		if v, ok := data[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// SymbolMatch is one SYMBOL_SEARCH candidate.
type SymbolMatch struct {
	Symbol     string
	Type       string
	Region     string
	MatchScore float64
}

// CompanyOverview fetches the OVERVIEW function fields.
func (av *AlphaVantageClient) CompanyOverview(ctx context.Context, symbol string) (map[string]interface{}, error) {
	return av.get(ctx, "OVERVIEW", symbol)
}

// IncomeStatement fetches annual and quarterly income reports.
func (av *AlphaVantageClient) IncomeStatement(ctx context.Context, symbol string) (map[string]interface{}, error) {
	return av.get(ctx, "INCOME_STATEMENT", symbol)
}

// CashFlow fetches annual and quarterly cash-flow reports.
func (av *AlphaVantageClient) CashFlow(ctx context.Context, symbol string) (map[string]interface{}, error) {
	return av.get(ctx, "CASH_FLOW", symbol)
}

// DailyAdjusted fetches the adjusted daily price series.
func (av *AlphaVantageClient) DailyAdjusted(ctx context.Context, symbol string) (map[string]interface{}, error) {
	return av.get(ctx, "TIME_SERIES_DAILY_ADJUSTED", symbol)
}

// ResolveSymbol picks the best primary ticker for a company name. The
// provider returns listings across regions; the first result is often a
// foreign cross-listing, so candidates are ranked before picking:
// US equities first, plain symbols (no suffix) next, then match score.
func (av *AlphaVantageClient) ResolveSymbol(ctx context.Context, companyName string) (string, error) {
	matches, err := av.SymbolSearch(ctx, companyName)
	if err != nil {
		return "", err
	}
	return RankSymbolMatches(matches), nil
}

// SymbolSearch returns the provider's candidate listings for a free-text name.
func (av *AlphaVantageClient) SymbolSearch(ctx context.Context, keywords string) ([]SymbolMatch, error) {
	params := map[string]string{"function": "SYMBOL_SEARCH", "keywords": keywords}

	var cached []SymbolMatch
	if av.cache.Get("alphavantage", "symbol_search", params, &cached) {
		return cached, nil
	}

	var matches []SymbolMatch
	err := WithRetry(av.retry, func() error {
		resp, err := av.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetQueryParam("apikey", av.apiKey).
			Get("/query")

		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}

		var parsed struct {
			BestMatches []map[string]string `json:"bestMatches"`
		}
		if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
			return fmt.Errorf("failed to parse symbol search response: %w", err)
		}

		matches = make([]SymbolMatch, 0, len(parsed.BestMatches))
		for _, m := range parsed.BestMatches {
			score, _ := strconv.ParseFloat(strings.TrimSpace(m["9. matchScore"]), 64)
			matches = append(matches, SymbolMatch{
				Symbol:     strings.TrimSpace(m["1. symbol"]),
				Type:       strings.TrimSpace(m["3. type"]),
				Region:     strings.TrimSpace(m["4. region"]),
				MatchScore: score,
			})
		}
		return nil
	})

	if err != nil {
		return nil, &AlphaVantageError{Message: fmt.Sprintf("symbol search failed: %v", err)}
	}

	av.cache.Set("alphavantage", "symbol_search", params, matches)
	return matches, nil
}

// RankSymbolMatches returns the top-ranked symbol, or "" when there are no
// candidates.
func RankSymbolMatches(matches []SymbolMatch) string {
	if len(matches) == 0 {
		return ""
	}

	isUSEquity := func(m SymbolMatch) bool {
		return strings.EqualFold(m.Type, "Equity") && strings.EqualFold(m.Region, "United States")
	}
	isPlainSymbol := func(m SymbolMatch) bool {
		return m.Symbol != "" && !strings.ContainsAny(m.Symbol, "./")
	}

	ranked := make([]SymbolMatch, len(matches))
	copy(ranked, matches)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if isUSEquity(a) != isUSEquity(b) {
			return isUSEquity(a)
		}
		if isPlainSymbol(a) != isPlainSymbol(b) {
			return isPlainSymbol(a)
		}
		return a.MatchScore > b.MatchScore
	})

	return ranked[0].Symbol
}

// SummarizeRevenueGrowth derives latest annual revenue and YoY growth from an
// INCOME_STATEMENT payload. Both come back as the unknown sentinel when fewer
// than two annual reports exist.
func SummarizeRevenueGrowth(incomeStatement map[string]interface{}) (revenue, growth string) {
	revenue, growth = models.Unknown, models.Unknown

	annualRaw, ok := incomeStatement["annualReports"].([]interface{})
	if !ok || len(annualRaw) < 2 {
		return revenue, growth
	}

	rev := func(idx int) *float64 {
		report, ok := annualRaw[idx].(map[string]interface{})
		if !ok {
			return nil
		}
		return safeFloat(report["totalRevenue"])
	}

	r0, r1 := rev(0), rev(1)
	revenue = FormatMoney(r0)
	if g := pctChange(r0, r1); g != nil {
		growth = fmt.Sprintf("%.1f%% YoY", *g)
	}
	return revenue, growth
}

// SummarizeFreeCashFlow computes a simple FCF proxy (operating cash flow
// minus capex) from the latest annual CASH_FLOW report.
func SummarizeFreeCashFlow(cashFlow map[string]interface{}) string {
	annualRaw, ok := cashFlow["annualReports"].([]interface{})
	if !ok || len(annualRaw) == 0 {
		return models.Unknown
	}
	latest, ok := annualRaw[0].(map[string]interface{})
	if !ok {
		return models.Unknown
	}

	ocf := safeFloat(latest["operatingCashflow"])
	capex := safeFloat(latest["capitalExpenditures"])
	if ocf == nil || capex == nil {
		return models.Unknown
	}

	fcf := *ocf - *capex
	return fmt.Sprintf("FCF (annual): %s", FormatMoney(&fcf))
}

// SummarizePricePerformance derives last close and percentage change at
// 5-session, ~1-month (22 sessions) and ~6-month (126 sessions) lookbacks.
// Lookbacks deeper than the available history come back nil. Returns nil when
// the series is empty.
func SummarizePricePerformance(dailyAdjusted map[string]interface{}) *models.PricePerformance {
	seriesRaw, ok := dailyAdjusted["Time Series (Daily)"].(map[string]interface{})
	if !ok || len(seriesRaw) == 0 {
		return nil
	}

	dates := make([]string, 0, len(seriesRaw))
	for d := range seriesRaw {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	closeAt := func(idx int) *float64 {
		if idx >= len(dates) {
			return nil
		}
		row, ok := seriesRaw[dates[idx]].(map[string]interface{})
		if !ok {
			return nil
		}
		if v := safeFloat(row["5. adjusted close"]); v != nil {
			return v
		}
		return safeFloat(row["4. close"])
	}

	last := closeAt(0)
	return &models.PricePerformance{
		AsOf:        dates[0],
		LastClose:   last,
		Change5DPct: pctChange(last, closeAt(5)),
		Change1MPct: pctChange(last, closeAt(22)),
		Change6MPct: pctChange(last, closeAt(126)),
	}
}

// FormatMoney renders a dollar amount with T/B/M/K tiers.
func FormatMoney(v *float64) string {
	if v == nil {
		return models.Unknown
	}

	d := decimal.NewFromFloat(*v)
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1e12)):
		return fmt.Sprintf("$%sT", d.Div(decimal.NewFromInt(1e12)).StringFixed(2))
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1e9)):
		return fmt.Sprintf("$%sB", d.Div(decimal.NewFromInt(1e9)).StringFixed(2))
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1e6)):
		return fmt.Sprintf("$%sM", d.Div(decimal.NewFromInt(1e6)).StringFixed(2))
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1e3)):
		return fmt.Sprintf("$%sK", d.Div(decimal.NewFromInt(1e3)).StringFixed(2))
	default:
		return fmt.Sprintf("$%s", d.StringFixed(0))
	}
}

func pctChange(current, previous *float64) *float64 {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}
	cur := decimal.NewFromFloat(*current)
	prev := decimal.NewFromFloat(*previous)
	pct, _ := cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return &pct
}

func safeFloat(v interface{}) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		s := strings.TrimSpace(t)
		switch s {
		case "", "None", "null", "-":
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
