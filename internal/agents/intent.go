package agents

import (
	"regexp"
	"strings"

	"github.com/dyike/ScoutGo/internal/logger"
)

// Intent is the routing decision for one inbound message.
type Intent string

const (
	IntentQuickAnswer Intent = "quick_answer"
	IntentFullReport  Intent = "full_report"
)

// Full-report trigger phrases. Checked before anything else so that a message
// like "research who founded X" never falls into the quick-answer path.
var fullReportKeywords = []string{
	"research",
	"competitor",
	"analysis",
	"analyze",
	"market report",
	"swot",
	"pricing analysis",
	"write a memo",
	"memo",
	"report",
}

// Short factual question shapes. A trailing '?' is optional so that
// "Who is the CEO of Tesla" still routes correctly.
var quickAnswerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*who\s+is\s+.+\??\s*$`),
	regexp.MustCompile(`(?i)^\s*who\s+are\s+.+\??\s*$`),
	regexp.MustCompile(`(?i)^\s*who\s+founded\s+.+\??\s*$`),
	regexp.MustCompile(`(?i)^\s*who\s+owns\s+.+\??\s*$`),
	regexp.MustCompile(`(?i)^\s*what\s+is\s+.+\??\s*$`),
	regexp.MustCompile(`(?i)^\s*what\s+does\s+.+\s+do\??\s*$`),
	regexp.MustCompile(`(?i)^\s*what\s+does\s+.+\s+make\??\s*$`),
	regexp.MustCompile(`(?i)^\s*where\s+is\s+.+\s+(headquartered|based)\??\s*$`),
	regexp.MustCompile(`(?i)^\s*when\s+was\s+.+\s+founded\??\s*$`),
	regexp.MustCompile(`(?i)^\s*how\s+many\s+employees\s+does\s+.+\s+have\??\s*$`),
	regexp.MustCompile(`(?i)^\s*how\s+much\s+is\s+.+\s+worth\??\s*$`),
}

var lookupTerms = []string{
	"ceo",
	"founder",
	"founded",
	"headquartered",
	"headquarters",
	"hq",
	"ticker",
	"employees",
	"net worth",
	"market cap",
	"revenue",
}

const shortMessageThreshold = 140

// DetectIntent routes a message to the quick-answer or full-report path.
// Pure function, no I/O. Rules apply in order, first match wins:
// report keywords override everything, then question-shape patterns, then a
// short-message lookup-term heuristic, then the full pipeline as the safe
// default.
func DetectIntent(message string) Intent {
	msg := strings.ToLower(strings.TrimSpace(message))

	for _, kw := range fullReportKeywords {
		if strings.Contains(msg, kw) {
			logger.Log.Infof("intent heuristic: full_report matched keyword %q", kw)
			return IntentFullReport
		}
	}

	for _, pat := range quickAnswerPatterns {
		if pat.MatchString(msg) {
			logger.Log.Infof("intent heuristic: quick_answer matched pattern %q", pat.String())
			return IntentQuickAnswer
		}
	}

	if len(msg) <= shortMessageThreshold && containsAny(msg, lookupTerms) {
		if strings.Contains(msg, "?") || startsWithQuestionWord(msg) {
			logger.Log.Info("intent heuristic: quick_answer matched lookup terms")
			return IntentQuickAnswer
		}
	}

	return IntentFullReport
}

func containsAny(msg string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(msg, t) {
			return true
		}
	}
	return false
}

func startsWithQuestionWord(msg string) bool {
	for _, prefix := range []string{"who ", "where ", "when ", "what ", "how many ", "how much "} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// Question-shape patterns for entity extraction, tried in order.
var entityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ceo of\s+(?P<e>.+)\?`),
	regexp.MustCompile(`(?i)where is\s+(?P<e>.+)\s+(headquartered|based)\?`),
	regexp.MustCompile(`(?i)when was\s+(?P<e>.+)\s+founded\?`),
	regexp.MustCompile(`(?i)what is\s+(?P<e>.+)\s+ticker\?`),
	regexp.MustCompile(`(?i)how many employees does\s+(?P<e>.+)\s+have\?`),
	regexp.MustCompile(`(?i)what does\s+(?P<e>.+)\s+do\?`),
}

var (
	trailingPunct   = regexp.MustCompile(`[\?\.]+$`)
	leadingQuestion = regexp.MustCompile(`(?i)^(who|where|when|what|how many)\b`)
)

const maxEntityLength = 80

// ExtractEntity pulls the company/person span out of a short factual
// question. Falls back to stripping the leading question word and truncating.
func ExtractEntity(question string) string {
	msg := strings.TrimSpace(question)

	for _, pat := range entityPatterns {
		m := pat.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		ent := strings.TrimSpace(m[pat.SubexpIndex("e")])
		return strings.TrimSpace(trailingPunct.ReplaceAllString(ent, ""))
	}

	ent := strings.TrimSpace(leadingQuestion.ReplaceAllString(msg, ""))
	ent = strings.TrimSpace(trailingPunct.ReplaceAllString(ent, ""))
	if len(ent) > maxEntityLength {
		ent = ent[:maxEntityLength]
	}
	return ent
}

// FocusedQuery maps the question shape to a search-bias string. Single
// finance metrics bias toward authoritative sources regardless of the
// extracted entity.
func FocusedQuery(question, entity string) string {
	q := strings.ToLower(question)

	switch {
	case strings.Contains(q, "net worth"):
		if entity == "" {
			return "net worth Forbes"
		}
		return entity + " net worth Forbes"
	case strings.Contains(q, "market cap"):
		if entity == "" {
			return "market cap"
		}
		return entity + " market cap"
	case strings.Contains(q, "revenue"):
		if entity == "" {
			return "revenue"
		}
		return entity + " revenue"
	case strings.Contains(q, "ceo"):
		return entity + " CEO"
	case strings.Contains(q, "headquartered"), strings.Contains(q, "headquarters"), strings.Contains(q, "based"):
		return entity + " headquarters"
	case strings.Contains(q, "founded"):
		return entity + " founded year"
	case strings.Contains(q, "ticker"):
		return entity + " ticker symbol"
	case strings.Contains(q, "employees"), strings.Contains(q, "headcount"):
		return entity + " number of employees"
	case strings.Contains(q, "what does") && strings.Contains(q, "do"):
		return "what does " + entity + " do"
	default:
		return strings.TrimSpace(entity + " " + question)
	}
}
