package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "nomic-embed-text"
	defaultWorkers       = 4
)

// OllamaClient produces embeddings through a local Ollama server.
type OllamaClient struct {
	baseURL string
	model   string
	dim     int
	workers int
	client  *http.Client
}

type OllamaOption func(*OllamaClient)

// WithWorkers sets the number of concurrent requests EmbedBatch may issue.
func WithWorkers(n int) OllamaOption {
	return func(c *OllamaClient) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithDimension sets the expected embedding dimension; responses of any
// other size are rejected. Zero disables the check.
func WithDimension(dim int) OllamaOption {
	return func(c *OllamaClient) { c.dim = dim }
}

func NewOllamaClient(baseURL, model string, opts ...OllamaOption) *OllamaClient {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	if model == "" {
		model = defaultOllamaModel
	}
	c := &OllamaClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		dim:     DefaultDim,
		workers: defaultWorkers,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, errors.New("empty text")
	}
	body, err := json.Marshal(ollamaRequest{Model: c.model, Prompt: text})
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "ollama request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, errors.Errorf("ollama error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	if c.dim > 0 && len(parsed.Embedding) != c.dim {
		return nil, errors.Errorf("expected embedding dim %d, got %d", c.dim, len(parsed.Embedding))
	}
	return parsed.Embedding, nil
}

// EmbedBatch embeds texts with a bounded pool of workers. Results keep the
// input order; the first failure cancels the remaining work.
func (c *OllamaClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := c.workers
	if workers > len(texts) {
		workers = len(texts)
	}

	jobs := make(chan int)
	out := make([][]float32, len(texts))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				emb, err := c.Embed(ctx, texts[i])
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = errors.Wrapf(err, "embedding text %d", i)
						cancel()
					}
					mu.Unlock()
					continue
				}
				out[i] = emb
			}
		}()
	}

	for i := range texts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
