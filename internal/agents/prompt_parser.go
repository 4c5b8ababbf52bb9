package agents

import (
	"context"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/dyike/ScoutGo/internal/logger"
	"github.com/dyike/ScoutGo/internal/models"
)

// PromptExtractor turns a free-form report request into a structured
// ParsedPrompt. Implementations are interchangeable so the LLM-assisted
// primary and the deterministic fallback can be tested independently.
type PromptExtractor interface {
	Extract(ctx context.Context, prompt string) (*models.ParsedPrompt, error)
}

// ParsePrompt runs the primary extractor and falls back to the deterministic
// one when the primary fails or returns nothing usable. The fallback never
// fails.
func ParsePrompt(ctx context.Context, prompt string, primary, fallback PromptExtractor) models.ParsedPrompt {
	if primary != nil {
		parsed, err := primary.Extract(ctx, prompt)
		if err == nil && parsed != nil && strings.TrimSpace(parsed.CompetitorName) != "" {
			return *parsed
		}
		if err != nil {
			logger.Log.Warnf("primary prompt extraction failed, using fallback: %v", err)
		}
	}

	parsed, _ := fallback.Extract(ctx, prompt)
	return *parsed
}

// LLMExtractor asks the model for a schema-exact JSON extraction.
type LLMExtractor struct {
	Caller Caller
}

const promptParseInstruction = "Extract structured fields from the user prompt for a competitor research report. " +
	"Return ONLY valid JSON that matches the schema exactly. " +
	"If a field is unknown, use an empty string (for optional strings) or [] for keywords. " +
	"Do not wrap in markdown/backticks. Do not include extra keys."

const promptParseSchema = `{
  "competitor_name": "string (required)",
  "ticker": "string",
  "industry": "string",
  "region": "string",
  "time_horizon": "string",
  "keywords": ["string"]
}`

func (e *LLMExtractor) Extract(ctx context.Context, prompt string) (*models.ParsedPrompt, error) {
	messages := []*schema.Message{
		schema.SystemMessage(promptParseInstruction),
		schema.UserMessage("USER PROMPT:\n" + prompt + "\n\nJSON SCHEMA:\n" + promptParseSchema),
	}

	resp, err := e.Caller.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	return DecodeJSON[models.ParsedPrompt](resp.Content)
}

// RegexExtractor is the deterministic fallback parser.
type RegexExtractor struct{}

var (
	competitorPattern = regexp.MustCompile(`(?i)competitor\s*:\s*([^\n\.\,]+)`)
	tickerPattern     = regexp.MustCompile(`(?i)ticker\s*:\s*([A-Za-z\.\-]{1,8})\b`)
	tokenPattern      = regexp.MustCompile(`[A-Za-z][A-Za-z0-9\-\+]{2,}`)
)

var keywordStopwords = map[string]bool{
	"find": true, "latest": true, "news": true, "press": true,
	"releases": true, "product": true, "products": true, "launch": true,
	"launches": true, "for": true, "about": true, "research": true,
	"competitor": true, "focus": true, "recent": true, "pricing": true,
	"and": true, "any": true, "financial": true, "signals": true,
	"ticker": true,
}

const maxKeywords = 10

func (e *RegexExtractor) Extract(_ context.Context, prompt string) (*models.ParsedPrompt, error) {
	var competitor, ticker string

	if m := competitorPattern.FindStringSubmatch(prompt); m != nil {
		competitor = strings.TrimSpace(m[1])
	}
	if m := tickerPattern.FindStringSubmatch(prompt); m != nil {
		ticker = strings.ToUpper(strings.TrimSpace(m[1]))
	}

	if competitor == "" {
		// First line chunk as a last resort.
		firstLine := strings.SplitN(strings.TrimSpace(prompt), "\n", 2)[0]
		if len(firstLine) > 80 {
			firstLine = firstLine[:80]
		}
		competitor = strings.TrimSpace(firstLine)
	}

	// Keyword mining: keep noun-ish tokens, drop stopwords and the
	// competitor itself, dedup preserving order.
	seen := map[string]bool{}
	var keywords []string
	for _, tok := range tokenPattern.FindAllString(prompt, -1) {
		lower := strings.ToLower(tok)
		if keywordStopwords[lower] || lower == strings.ToLower(competitor) || lower == strings.ToLower(ticker) {
			continue
		}
		if seen[lower] {
			continue
		}
		seen[lower] = true
		keywords = append(keywords, tok)
		if len(keywords) == maxKeywords {
			break
		}
	}

	return &models.ParsedPrompt{
		CompetitorName: competitor,
		Ticker:         ticker,
		Keywords:       keywords,
	}, nil
}
