package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/pkg/errors"
)

const (
	defaultSerperBaseURL = "https://google.serper.dev"
	defaultNumResults    = 5
)

// ErrNoAPIKey means web search is not configured; callers degrade to
// knowledge-base-only operation.
var ErrNoAPIKey = errors.New("SERPER_API_KEY not set")

// Searcher runs web searches.
type Searcher interface {
	Search(ctx context.Context, query string, num int) (*models.WebSearch, error)
}

// SerperClient queries the Serper Google-search API.
type SerperClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewSerperClient(apiKey, baseURL string) (*SerperClient, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if baseURL == "" {
		baseURL = defaultSerperBaseURL
	}
	return &SerperClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Date     string `json:"date"`
		Position int    `json:"position"`
	} `json:"organic"`
	AnswerBox struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
	RelatedSearches []struct {
		Query string `json:"query"`
	} `json:"relatedSearches"`
}

func (c *SerperClient) Search(ctx context.Context, query string, num int) (*models.WebSearch, error) {
	if query == "" {
		return nil, errors.New("empty query")
	}
	if num <= 0 {
		num = defaultNumResults
	}

	body, err := json.Marshal(serperRequest{Q: query, Num: num})
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "serper request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, errors.Errorf("serper error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}

	out := &models.WebSearch{Query: query}
	for _, hit := range parsed.Organic {
		out.Results = append(out.Results, models.WebResult{
			Title:    hit.Title,
			Link:     hit.Link,
			Snippet:  hit.Snippet,
			Date:     hit.Date,
			Position: hit.Position,
		})
	}
	if parsed.AnswerBox.Answer != "" {
		out.AnswerBox = parsed.AnswerBox.Answer
	} else {
		out.AnswerBox = parsed.AnswerBox.Snippet
	}
	for _, rel := range parsed.RelatedSearches {
		out.Related = append(out.Related, rel.Query)
	}
	return out, nil
}
