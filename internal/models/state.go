package models

// WorkflowState accumulates the results of one request. It is owned by the
// orchestrator for the lifetime of that request and is never shared: each
// specialist step writes into its own fields, only Sources grows across steps.
type WorkflowState struct {
	CompetitorName     string              `json:"competitor_name"`
	ParsedPrompt       ParsedPrompt        `json:"parsed_prompt"`
	CompanyOverview    *CompanyOverview    `json:"company_overview,omitempty"`
	RecentDevelopments *RecentDevelopments `json:"recent_developments,omitempty"`
	ProductsPricing    *ProductsPricing    `json:"products_pricing,omitempty"`
	FinancialOverview  *FinancialOverview  `json:"financial_overview,omitempty"`
	Sources            []Source            `json:"sources"`
}

// NewWorkflowState builds the per-request state record.
func NewWorkflowState(competitorName string, parsed ParsedPrompt) *WorkflowState {
	return &WorkflowState{
		CompetitorName: competitorName,
		ParsedPrompt:   parsed,
		Sources:        []Source{},
	}
}

// AddSources extends the discovery-ordered source list. Duplicates across
// steps are allowed; per-fetch dedup happens in the adapters.
func (s *WorkflowState) AddSources(sources []Source) {
	s.Sources = append(s.Sources, sources...)
}
