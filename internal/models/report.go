package models

import (
	"fmt"
	"strings"
)

// SWOT category keys. The memo always renders all four in this order.
var SWOTCategories = []string{"strengths", "weaknesses", "opportunities", "threats"}

var swotHeadings = map[string]string{
	"strengths":     "- strengths (internal +)",
	"weaknesses":    "- weaknesses (internal -)",
	"opportunities": "- opportunities (external +)",
	"threats":       "- threats (external -)",
}

// ReportMemo is the terminal artifact of the full-report path. It is rendered
// once to a flat markdown document and discarded.
type ReportMemo struct {
	CompetitorName     string              `json:"competitor_name"`
	DateLabel          string              `json:"date_label"`
	ExecutiveSummary   []string            `json:"executive_summary"`
	CompanyOverview    CompanyOverview     `json:"company_overview"`
	RecentDevelopments RecentDevelopments  `json:"recent_developments"`
	FinancialOverview  FinancialOverview   `json:"financial_overview"`
	ProductsPricing    ProductsPricing     `json:"products_pricing"`
	SWOT               map[string][]string `json:"swot"`
	KeyTakeaways       []string            `json:"key_takeaways"`
}

func bullets(items []string) string {
	if len(items) == 0 {
		return "- " + Unknown
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown produces the memo document. The template is fixed: every
// list field that is empty renders a literal "- unknown" bullet so the
// document shape is identical regardless of data coverage.
func (m *ReportMemo) RenderMarkdown() string {
	co := m.CompanyOverview
	rd := m.RecentDevelopments
	pp := m.ProductsPricing
	fo := m.FinancialOverview

	var lines []string
	lines = append(lines, fmt.Sprintf("Market Report: **%s**", m.CompetitorName))
	lines = append(lines, fmt.Sprintf("date: **%s**", m.DateLabel))
	lines = append(lines, "")
	lines = append(lines, "**Executive Summary**")
	lines = append(lines, bullets(m.ExecutiveSummary))
	lines = append(lines, "")
	lines = append(lines, "**Company Overview**")
	lines = append(lines, fmt.Sprintf("- description of the business  \n  %s", OrUnknown(co.Description)))
	lines = append(lines, fmt.Sprintf("- founded (year/date)  \n  %s", OrUnknown(co.Founded)))
	lines = append(lines, fmt.Sprintf("- location  \n  %s", OrUnknown(co.HQLocation)))
	lines = append(lines, fmt.Sprintf("- employees (headcount)  \n  %s", OrUnknown(co.Employees)))
	execs := Unknown
	if len(co.Executives) > 0 {
		execs = strings.Join(co.Executives, "; ")
	}
	lines = append(lines, "- executives/leadership (CEO, founders)  \n  "+execs)
	lines = append(lines, "")
	lines = append(lines, "**Recent Developments**")
	lines = append(lines, "- product news/updates / new products")
	lines = append(lines, bullets(rd.ProductNews))
	lines = append(lines, "- partnerships and deals")
	lines = append(lines, bullets(rd.PartnershipsAndDeals))
	lines = append(lines, "- organizational changes")
	lines = append(lines, bullets(rd.OrgChanges))
	lines = append(lines, "")
	lines = append(lines, "**Financial Overview**")
	lines = append(lines, "- revenue & growth")
	lines = append(lines, fmt.Sprintf("- %s | growth: %s", OrUnknown(fo.Revenue), OrUnknown(fo.RevenueGrowth)))
	lines = append(lines, "- funding & valuation")
	lines = append(lines, fmt.Sprintf("- %s", OrUnknown(fo.FundingAndValuation)))
	lines = append(lines, "- profitability & burn rate")
	lines = append(lines, fmt.Sprintf("- profitability: %s | burn rate: %s", OrUnknown(fo.Profitability), OrUnknown(fo.BurnRate)))
	if perf := fo.PricePerformance; perf != nil {
		lines = append(lines, fmt.Sprintf(
			"- price performance (as of %s): last close %s; 5d %s%%; 1m %s%%; 6m %s%%",
			perf.AsOf, fmtFloat(perf.LastClose), fmtFloat(perf.Change5DPct),
			fmtFloat(perf.Change1MPct), fmtFloat(perf.Change6MPct)))
	}
	if len(fo.Notes) > 0 {
		lines = append(lines, "- notes")
		lines = append(lines, bullets(fo.Notes))
	}
	lines = append(lines, "")
	lines = append(lines, "**Products & Pricing**")
	lines = append(lines, "- core products")
	lines = append(lines, bullets(pp.CoreProducts))
	lines = append(lines, "- pricing model")
	lines = append(lines, fmt.Sprintf("- %s", OrUnknown(pp.PricingModel)))
	lines = append(lines, "- competitive differentiation")
	lines = append(lines, bullets(pp.CompetitiveDifferentiation))
	lines = append(lines, "")
	lines = append(lines, "**SWOT Analysis**")
	for _, cat := range SWOTCategories {
		lines = append(lines, swotHeadings[cat])
		lines = append(lines, bullets(m.SWOT[cat]))
	}
	lines = append(lines, "")
	lines = append(lines, "**Key Takeaways**")
	lines = append(lines, bullets(m.KeyTakeaways))

	return strings.Join(lines, "\n")
}

func fmtFloat(f *float64) string {
	if f == nil {
		return Unknown
	}
	return fmt.Sprintf("%.2f", *f)
}
