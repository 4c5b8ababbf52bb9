package agents

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/dyike/ScoutGo/internal/logger"
)

// Domain classification values.
const (
	DomainIn  = "in_domain"
	DomainOut = "out_of_domain"
)

var allowedDomainCategories = map[string]bool{
	"company_research":  true,
	"financial_metric":  true,
	"stock_market":      true,
	"executive_lookup":  true,
	"business_question": true,
	"life_advice":       true,
	"recipe":            true,
	"health":            true,
	"other":             true,
}

// DomainDecision is the gate's verdict on one inbound message.
type DomainDecision struct {
	Domain   string `json:"domain"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// InDomain reports whether the request may proceed to the workflow.
func (d DomainDecision) InDomain() bool { return d.Domain == DomainIn }

const domainGateSystemPrompt = "You are a domain classifier for a business/finance/company research assistant. " +
	"Decide if the user's request should be handled by this app. " +
	"Only return valid JSON."

const domainGateRules = `RULES:
- IN-DOMAIN if the user asks about a specific company/person in a business/finance context (e.g., CEO of Tesla, Elon Musk net worth, Apple ticker, market cap).
- OUT-OF-DOMAIN if it's generic life advice, career coaching, or generic how-to (e.g., 'how do I become a CEO' or 'how do I become CEO of Tesla').
- OUT-OF-DOMAIN if it's recipes, relationships, medical/legal, general trivia, etc.
- OUT-OF-DOMAIN even if it mentions a specific company/person, when the *primary ask* is advice on becoming/getting a role (becoming CEO, getting hired at X, interview prep, career path).
- If ambiguous, default to OUT-OF-DOMAIN.

Return JSON schema:
{ "domain": "in_domain|out_of_domain", "category": "...", "reason": "..." }`

// ClassifyDomain decides in/out-of-domain before any paid lookup runs.
//
// The failure policy is deliberately asymmetric: a transport error fails open
// to in_domain (an unavailable classifier must not break working features),
// while empty or malformed classifier output fails closed to out_of_domain
// (semantic ambiguity must not spend resources on off-topic work).
//
// A nil caller short-circuits to in_domain. That is a test/bypass escape
// hatch so routing tests need no networked classification, not a production
// default.
func ClassifyDomain(ctx context.Context, message string, caller Caller) DomainDecision {
	if caller == nil {
		return DomainDecision{Domain: DomainIn, Category: "business_question", Reason: "llm_missing"}
	}

	messages := []*schema.Message{
		schema.SystemMessage(domainGateSystemPrompt),
		schema.UserMessage("RAW USER MESSAGE:\n" + message + "\n\n" + domainGateRules),
	}

	resp, err := caller.Generate(ctx, messages)
	if err != nil {
		logger.Log.Errorf("domain classification call failed, defaulting to in_domain: %v", err)
		return DomainDecision{Domain: DomainIn, Category: "business_question", Reason: "llm_call_failed"}
	}

	raw := ""
	if resp != nil {
		raw = resp.Content
	}
	if strings.TrimSpace(raw) == "" {
		return DomainDecision{Domain: DomainOut, Category: "other", Reason: "empty_llm_output"}
	}

	decision, err := DecodeJSON[DomainDecision](raw)
	if err != nil {
		logger.Log.Warnf("domain classification output was not valid JSON: %q", raw)
		return DomainDecision{Domain: DomainOut, Category: "other", Reason: "invalid_json"}
	}

	if decision.Domain != DomainIn && decision.Domain != DomainOut {
		decision.Domain = DomainOut
	}
	if !allowedDomainCategories[decision.Category] {
		decision.Category = "other"
	}
	if strings.TrimSpace(decision.Reason) == "" {
		decision.Reason = "unspecified"
	}

	return *decision
}
