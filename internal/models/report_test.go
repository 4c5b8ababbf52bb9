package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdownEmptyMemo(t *testing.T) {
	memo := &ReportMemo{CompetitorName: "Acme", DateLabel: "August 2026"}
	doc := memo.RenderMarkdown()

	assert.True(t, strings.HasPrefix(doc, "Market Report: **Acme**"))
	assert.Contains(t, doc, "date: **August 2026**")

	// Every section renders even with no data, with the placeholder bullet.
	for _, section := range []string{
		"**Executive Summary**",
		"**Company Overview**",
		"**Recent Developments**",
		"**Financial Overview**",
		"**Products & Pricing**",
		"**SWOT Analysis**",
		"**Key Takeaways**",
	} {
		assert.Contains(t, doc, section)
	}
	assert.Contains(t, doc, "- "+Unknown)
}

func TestRenderMarkdownPopulated(t *testing.T) {
	memo := &ReportMemo{
		CompetitorName:   "Nvidia",
		DateLabel:        "August 2026",
		ExecutiveSummary: []string{"Dominant in AI accelerators"},
		CompanyOverview: CompanyOverview{
			Description: "Designs GPUs",
			Founded:     "1993",
			HQLocation:  "Santa Clara, CA",
			Employees:   "29600",
			Executives:  []string{"Jensen Huang (CEO)"},
		},
		FinancialOverview: FinancialOverview{
			Revenue:       "$60.92B",
			RevenueGrowth: "125.9% YoY",
			Notes:         []string{"FCF (annual): $27.02B"},
		},
		SWOT: map[string][]string{
			"strengths": {"CUDA moat"},
			"threats":   {"Custom silicon from hyperscalers"},
		},
		KeyTakeaways: []string{"Watch datacenter revenue"},
	}

	doc := memo.RenderMarkdown()
	assert.Contains(t, doc, "- Dominant in AI accelerators")
	assert.Contains(t, doc, "Jensen Huang (CEO)")
	assert.Contains(t, doc, "- $60.92B | growth: 125.9% YoY")
	assert.Contains(t, doc, "- FCF (annual): $27.02B")
	assert.Contains(t, doc, "- CUDA moat")

	// Missing SWOT quadrants still render their headings with placeholders.
	assert.Contains(t, doc, "- weaknesses (internal -)")
	assert.Contains(t, doc, "- opportunities (external +)")
}

func TestRenderMarkdownPricePerformance(t *testing.T) {
	last, d5 := 123.45, -2.31
	memo := &ReportMemo{
		CompetitorName: "Nvidia",
		DateLabel:      "August 2026",
		FinancialOverview: FinancialOverview{
			PricePerformance: &PricePerformance{
				AsOf:        "2026-08-28",
				LastClose:   &last,
				Change5DPct: &d5,
			},
		},
	}

	doc := memo.RenderMarkdown()
	assert.Contains(t, doc, "price performance (as of 2026-08-28)")
	assert.Contains(t, doc, "last close 123.45")
	assert.Contains(t, doc, "5d -2.31%")

	// Lookbacks deeper than the price history render the sentinel.
	assert.Contains(t, doc, "6m "+Unknown+"%")
}

// The SWOT quadrants render exactly once each, in the canonical category
// order, with every quadrant present even when the map lacks it.
func TestRenderMarkdownSWOTOrder(t *testing.T) {
	memo := &ReportMemo{CompetitorName: "Acme", DateLabel: "August 2026", SWOT: map[string][]string{"threats": {"new entrants"}}}
	doc := memo.RenderMarkdown()

	last := -1
	for _, cat := range SWOTCategories {
		idx := strings.Index(doc, "- "+cat+" (")
		require.Greater(t, idx, last, "category %s out of order or missing", cat)
		last = idx
	}
	assert.Contains(t, doc, "- new entrants")
}

func TestOrUnknown(t *testing.T) {
	assert.Equal(t, Unknown, OrUnknown(""))
	assert.Equal(t, Unknown, OrUnknown("   "))
	assert.Equal(t, "Nvidia", OrUnknown("Nvidia"))
}

func TestIsUnknown(t *testing.T) {
	assert.True(t, IsUnknown(""))
	assert.True(t, IsUnknown("  "))
	assert.True(t, IsUnknown("unknown"))
	assert.True(t, IsUnknown("Unknown"))
	assert.True(t, IsUnknown("N/A"))
	assert.False(t, IsUnknown("1993"))
}

func TestAddSourcesAppendsOnly(t *testing.T) {
	state := NewWorkflowState("Nvidia", ParsedPrompt{CompetitorName: "Nvidia"})
	state.AddSources([]Source{{Title: "a", URL: "https://a"}})
	state.AddSources([]Source{{Title: "b", URL: "https://b"}, {Title: "a", URL: "https://a"}})

	assert.Len(t, state.Sources, 3)
	assert.Equal(t, "https://a", state.Sources[0].URL)
}
