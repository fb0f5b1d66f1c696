package service

import (
	"github.com/Aum2411/Task-4-Raag/internal/agent"
	"github.com/Aum2411/Task-4-Raag/internal/config"
	"github.com/Aum2411/Task-4-Raag/internal/embed"
	"github.com/Aum2411/Task-4-Raag/internal/llm"
	"github.com/Aum2411/Task-4-Raag/internal/log"
	"github.com/Aum2411/Task-4-Raag/internal/search"
	internal_storage "github.com/Aum2411/Task-4-Raag/internal/storage"
	"github.com/Aum2411/Task-4-Raag/pkg/storage"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// ResearchService assembles the collaborators behind the agents: the model
// client, the embedder, the vector store and the web search. The CLI and the
// HTTP server both run on one of these.
type ResearchService struct {
	RAG      *agent.RAGAgent
	Research *agent.ResearchAgent

	store storage.VectorStore
	rdb   *redis.Client
}

// NewResearchService builds the full agent stack from configuration. Web
// search and Redis are optional; without a SERPER_API_KEY the service runs
// knowledge-base only, and without a DATABASE_URL the knowledge base lives in
// memory.
func NewResearchService(cfg config.Config) (*ResearchService, error) {
	logger := log.GetLogger()

	llmClient, err := llm.NewGroqClient(cfg.Groq.APIKey, cfg.Groq.Model, cfg.Groq.BaseURL)
	if err != nil {
		return nil, err
	}
	embedder := embed.NewOllamaClient(cfg.Ollama.BaseURL, cfg.Ollama.Model)

	store, err := internal_storage.InitStore(cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "opening knowledge base")
	}

	var rdb *redis.Client
	var searcher search.Searcher
	serper, err := search.NewSerperClient(cfg.Serper.APIKey, cfg.Serper.BaseURL)
	switch {
	case errors.Is(err, search.ErrNoAPIKey):
		logger.Warn("SERPER_API_KEY not set; web search disabled, running knowledge-base only")
	case err != nil:
		if closeErr := store.Close(); closeErr != nil {
			logger.Errorf("Failed to close knowledge base: %v", closeErr)
		}
		return nil, err
	default:
		if cfg.RedisAddr != "" {
			rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		}
		searcher = search.NewCachedSearcher(serper, rdb)
	}

	rag := agent.NewRAGAgent(llmClient, embedder, store, logger,
		agent.WithChunking(cfg.ChunkSize, cfg.ChunkOverlap))

	return &ResearchService{
		RAG:      rag,
		Research: agent.NewResearchAgent(rag, searcher, logger),
		store:    store,
		rdb:      rdb,
	}, nil
}

// Close releases the knowledge base connection and the Redis client.
func (s *ResearchService) Close() error {
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			log.GetLogger().Errorf("Failed to close redis client: %v", err)
		}
	}
	return s.store.Close()
}
