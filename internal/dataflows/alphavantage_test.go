package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ScoutGo/internal/models"
)

func newTestAlphaVantage(t *testing.T, handler http.HandlerFunc) *AlphaVantageClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	av := NewAlphaVantageClient("test-key", t.TempDir(), false)
	av.client.SetBaseURL(srv.URL)
	av.retry = fastRetry()
	return av
}

func TestGetReturnsPayload(t *testing.T) {
	av := newTestAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OVERVIEW", r.URL.Query().Get("function"))
		assert.Equal(t, "NVDA", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		_ = json.NewEncoder(w).Encode(map[string]string{"Name": "NVIDIA Corporation"})
	})

	data, err := av.CompanyOverview(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, "NVIDIA Corporation", data["Name"])
}

// Daily-quota notices arrive inside HTTP 200 bodies and will never succeed
// on retry, so they fail immediately.
func TestGetDailyQuotaIsPermanent(t *testing.T) {
	calls := 0
	av := newTestAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]string{
			"Information": "You have exceeded your allocation of 25 requests per day.",
		})
	})

	_, err := av.CompanyOverview(context.Background(), "NVDA")
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var avErr *AlphaVantageError
	require.ErrorAs(t, err, &avErr)
	assert.Contains(t, avErr.Message, "per day")
}

// Per-minute notices are transient and retried.
func TestGetMinuteThrottleRetries(t *testing.T) {
	calls := 0
	av := newTestAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_ = json.NewEncoder(w).Encode(map[string]string{
				"Note": "Please consider slowing down your request rate.",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"Name": "NVIDIA Corporation"})
	})

	data, err := av.CompanyOverview(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "NVIDIA Corporation", data["Name"])

	// The throttle notice from the failed attempt must not linger in the
	// payload the successful attempt returns.
	assert.NotContains(t, data, "Note")
}

func TestSymbolSearchParsesMatches(t *testing.T) {
	av := newTestAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SYMBOL_SEARCH", r.URL.Query().Get("function"))
		assert.Equal(t, "Nvidia", r.URL.Query().Get("keywords"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"bestMatches": []map[string]string{
				{"1. symbol": "NVD.F", "3. type": "Equity", "4. region": "Frankfurt", "9. matchScore": "0.8000"},
				{"1. symbol": "NVDA", "3. type": "Equity", "4. region": "United States", "9. matchScore": "0.7500"},
			},
		})
	})

	matches, err := av.SymbolSearch(context.Background(), "Nvidia")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "NVD.F", matches[0].Symbol)
	assert.InDelta(t, 0.75, matches[1].MatchScore, 1e-9)
}

// Ranking prefers US equities over a higher-scoring foreign cross-listing.
func TestRankSymbolMatches(t *testing.T) {
	matches := []SymbolMatch{
		{Symbol: "NVD.F", Type: "Equity", Region: "Frankfurt", MatchScore: 0.9},
		{Symbol: "NVDA", Type: "Equity", Region: "United States", MatchScore: 0.7},
	}
	assert.Equal(t, "NVDA", RankSymbolMatches(matches))
}

func TestRankSymbolMatchesPrefersPlainSymbol(t *testing.T) {
	matches := []SymbolMatch{
		{Symbol: "BRK.B", Type: "Equity", Region: "United States", MatchScore: 0.9},
		{Symbol: "BRK", Type: "Equity", Region: "United States", MatchScore: 0.8},
	}
	assert.Equal(t, "BRK", RankSymbolMatches(matches))
}

func TestRankSymbolMatchesEmpty(t *testing.T) {
	assert.Equal(t, "", RankSymbolMatches(nil))
}

func TestSummarizeRevenueGrowth(t *testing.T) {
	payload := map[string]interface{}{
		"annualReports": []interface{}{
			map[string]interface{}{"totalRevenue": "50000000000"},
			map[string]interface{}{"totalRevenue": "40000000000"},
		},
	}

	revenue, growth := SummarizeRevenueGrowth(payload)
	assert.Equal(t, "$50.00B", revenue)
	assert.Equal(t, "25.0% YoY", growth)
}

func TestSummarizeRevenueGrowthInsufficientData(t *testing.T) {
	revenue, growth := SummarizeRevenueGrowth(map[string]interface{}{})
	assert.Equal(t, models.Unknown, revenue)
	assert.Equal(t, models.Unknown, growth)
}

func TestSummarizeFreeCashFlow(t *testing.T) {
	payload := map[string]interface{}{
		"annualReports": []interface{}{
			map[string]interface{}{
				"operatingCashflow":   "28090000000",
				"capitalExpenditures": "1069000000",
			},
		},
	}
	assert.Equal(t, "FCF (annual): $27.02B", SummarizeFreeCashFlow(payload))
}

func TestSummarizeFreeCashFlowMissingFields(t *testing.T) {
	payload := map[string]interface{}{
		"annualReports": []interface{}{
			map[string]interface{}{"operatingCashflow": "None"},
		},
	}
	assert.Equal(t, models.Unknown, SummarizeFreeCashFlow(payload))
}

func TestSummarizePricePerformance(t *testing.T) {
	// 30 sessions: enough for the 5d and 1m lookbacks, not the 6m one.
	series := map[string]interface{}{}
	day := func(i int) string {
		return time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -i).Format("2006-01-02")
	}
	for i := 0; i < 30; i++ {
		series[day(i)] = map[string]interface{}{
			"5. adjusted close": fmt.Sprintf("%.2f", 100.0+float64(30-i)),
		}
	}

	perf := SummarizePricePerformance(map[string]interface{}{"Time Series (Daily)": series})
	require.NotNil(t, perf)
	assert.Equal(t, day(0), perf.AsOf)
	require.NotNil(t, perf.LastClose)
	assert.InDelta(t, 130.0, *perf.LastClose, 1e-9)

	require.NotNil(t, perf.Change5DPct)
	require.NotNil(t, perf.Change1MPct)
	assert.Nil(t, perf.Change6MPct)
}

func TestSummarizePricePerformanceEmptySeries(t *testing.T) {
	assert.Nil(t, SummarizePricePerformance(map[string]interface{}{}))
}

func TestFormatMoney(t *testing.T) {
	v := func(f float64) *float64 { return &f }
	assert.Equal(t, "$1.50T", FormatMoney(v(1.5e12)))
	assert.Equal(t, "$60.92B", FormatMoney(v(60.922e9)))
	assert.Equal(t, "$413.00M", FormatMoney(v(413e6)))
	assert.Equal(t, "$5.40K", FormatMoney(v(5400)))
	assert.Equal(t, "$42", FormatMoney(v(42)))
	assert.Equal(t, models.Unknown, FormatMoney(nil))
}
