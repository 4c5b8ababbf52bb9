package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dyike/ScoutGo/internal/models"
)

// SearchError is raised when a search request could not be completed.
type SearchError struct {
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("serper search failed for query %q: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// SerperClient issues web searches against the Serper (Google Search) API.
type SerperClient struct {
	client *resty.Client
	retry  *RetryConfig
	apiKey string
}

// NewSerperClient creates a new search client.
func NewSerperClient(apiKey string) *SerperClient {
	client := resty.New()
	client.SetBaseURL("https://google.serper.dev")
	client.SetTimeout(20 * time.Second)

	return &SerperClient{
		client: client,
		retry:  DefaultRetryConfig(),
		apiKey: apiKey,
	}
}

type serperResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}

type serperResponse struct {
	Organic []serperResult `json:"organic"`
}

// Search runs one query and converts the organic results. Results missing a
// link or title are unusable as citations and are dropped. HTTP 429 and
// transport failures are retried with linear backoff; exhausted retries
// surface as a SearchError naming the query.
func (sc *SerperClient) Search(ctx context.Context, query string, count int) ([]models.Source, error) {
	if sc.apiKey == "" {
		return nil, &SearchError{Query: query, Err: fmt.Errorf("serper API key not configured")}
	}

	payload := map[string]interface{}{
		"q":   query,
		"num": count,
		"gl":  "us",
		"hl":  "en",
	}

	var sources []models.Source
	err := WithRetry(sc.retry, func() error {
		resp, err := sc.client.R().
			SetContext(ctx).
			SetHeader("X-API-KEY", sc.apiKey).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post("/search")

		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		if resp.StatusCode() == 429 {
			return fmt.Errorf("rate limited (429)")
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}

		var parsed serperResponse
		if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
			return fmt.Errorf("failed to parse search response: %w", err)
		}

		sources = make([]models.Source, 0, len(parsed.Organic))
		for _, item := range parsed.Organic {
			if item.Link == "" || item.Title == "" {
				continue
			}
			sources = append(sources, models.Source{
				Title:         item.Title,
				URL:           item.Link,
				Snippet:       item.Snippet,
				PublishedDate: item.Date,
			})
		}
		return nil
	})

	if err != nil {
		return nil, &SearchError{Query: query, Err: err}
	}
	return sources, nil
}
