package agent

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Aum2411/Task-4-Raag/internal/document"
	"github.com/Aum2411/Task-4-Raag/internal/embed"
	"github.com/Aum2411/Task-4-Raag/internal/llm"
	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/Aum2411/Task-4-Raag/pkg/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Logger defines the logging interface for the agents
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// noContext stands in for the evidence block when retrieval finds nothing.
const noContext = "No relevant context found."

const answerInstruction = `You are a knowledgeable research assistant.
Use the provided context to answer questions accurately and comprehensively.
If the context doesn't contain enough information, say so clearly.
Always cite sources using [Source X] notation when referencing information.`

const defaultContextInstruction = `You are a helpful research assistant.
Use the provided context to answer questions accurately and comprehensively.
Always cite sources when available.`

// RAGAgent answers questions from a knowledge base of embedded document
// chunks, falling back to the bare model when retrieval comes up empty.
type RAGAgent struct {
	llm          llm.Client
	embedder     embed.Embedder
	store        storage.VectorStore
	chunkSize    int
	chunkOverlap int
	logger       Logger
}

// RAGOption configures a RAGAgent.
type RAGOption func(*RAGAgent)

// WithChunking overrides the chunk size and overlap used during ingestion.
func WithChunking(size, overlap int) RAGOption {
	return func(a *RAGAgent) {
		a.chunkSize = size
		a.chunkOverlap = overlap
	}
}

func NewRAGAgent(llmClient llm.Client, embedder embed.Embedder, store storage.VectorStore, logger Logger, opts ...RAGOption) *RAGAgent {
	a := &RAGAgent{
		llm:          llmClient,
		embedder:     embedder,
		store:        store,
		chunkSize:    document.DefaultChunkSize,
		chunkOverlap: document.DefaultChunkOverlap,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddDocument ingests a file into the knowledge base: extract its text, chunk
// it, embed every chunk and store the vectors.
func (a *RAGAgent) AddDocument(ctx context.Context, path string) (*models.Document, error) {
	file, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	doc, err := a.addText(ctx, file.Text, filepath.Base(path), file.Title)
	if err != nil {
		return nil, err
	}
	a.logger.Infof("Added document '%s' (%d chunks)", doc.Source, doc.Chunks)
	return doc, nil
}

// AddText ingests raw text under a source label, for knowledge that does not
// come from a file.
func (a *RAGAgent) AddText(ctx context.Context, text, source string) (*models.Document, error) {
	doc, err := a.addText(ctx, text, source, source)
	if err != nil {
		return nil, err
	}
	a.logger.Infof("Added knowledge from '%s' (%d chunks)", doc.Source, doc.Chunks)
	return doc, nil
}

func (a *RAGAgent) addText(ctx context.Context, text, source, title string) (*models.Document, error) {
	parts := document.Chunk(text, a.chunkSize, a.chunkOverlap)
	if len(parts) == 0 {
		return nil, errors.Errorf("no content to add from '%s'", source)
	}
	vectors, err := a.embedder.EmbedBatch(ctx, parts)
	if err != nil {
		return nil, errors.Wrap(err, "embedding chunks")
	}

	doc := &models.Document{
		ID:      uuid.New(),
		Source:  source,
		Title:   title,
		Chunks:  len(parts),
		AddedAt: time.Now(),
	}
	chunks := make([]models.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = models.Chunk{
			ID:         uuid.New(),
			DocumentID: doc.ID,
			Source:     source,
			Ordinal:    i,
			Content:    part,
			Embedding:  vectors[i],
		}
	}
	if err := a.store.AddChunks(ctx, chunks); err != nil {
		return nil, err
	}
	return doc, nil
}

// Query retrieves the k nearest chunks to a question.
func (a *RAGAgent) Query(ctx context.Context, question string, k int) ([]models.KBMatch, error) {
	vec, err := a.embedder.Embed(ctx, question)
	if err != nil {
		return nil, errors.Wrap(err, "embedding query")
	}
	return a.store.Query(ctx, vec, k)
}

// Answer is a grounded response together with the evidence behind it.
type Answer struct {
	Answer  string             `json:"answer"`
	Sources []models.SourceRef `json:"sources"`
}

// Answer retrieves the best matching chunks and asks the model to answer from
// them, citing sources. Without a single match it answers from the model
// alone.
func (a *RAGAgent) Answer(ctx context.Context, question string) (*Answer, error) {
	matches, err := a.Query(ctx, question, 4)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		text, err := llm.Generate(ctx, a.llm, "", "Answer this question to the best of your knowledge: "+question)
		if err != nil {
			return nil, err
		}
		return &Answer{Answer: text}, nil
	}

	text, err := answerWithContext(ctx, a.llm, question, contextBlock(matches), answerInstruction)
	if err != nil {
		return nil, err
	}
	return &Answer{Answer: text, Sources: kbSources(matches)}, nil
}

// Chat answers with knowledge base context plus the recent conversation. Only
// the last six turns of history are sent along.
func (a *RAGAgent) Chat(ctx context.Context, history []llm.Message, message string) (string, error) {
	matches, err := a.Query(ctx, message, 3)
	if err != nil {
		return "", err
	}

	system := fmt.Sprintf("You are a helpful AI assistant with access to a knowledge base.\nUse the following context when relevant to answer questions:\n\n%s", contextBlock(matches))
	if len(history) > 6 {
		history = history[len(history)-6:]
	}
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: llm.SystemRole, Content: system})
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: llm.UserRole, Content: message})

	resp, err := a.llm.Complete(ctx, llm.Request{Messages: msgs})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

const researchPromptFmt = `Based on the following context, provide a comprehensive research summary about: %s

Context:
%s

Provide:
1. Overview (2-3 paragraphs)
2. Key Points (bullet points)
3. Important Details
4. Conclusions/Implications

Research Summary:`

// Research gathers the depth's budget of chunks about a topic and produces a
// structured summary of what the knowledge base holds on it.
func (a *RAGAgent) Research(ctx context.Context, topic string, depth models.ResearchDepth) (string, []models.KBMatch, error) {
	matches, err := a.Query(ctx, topic, depth.SourceBudget())
	if err != nil {
		return "", nil, err
	}
	if len(matches) == 0 {
		return "No relevant information found in knowledge base.", nil, nil
	}

	resp, err := a.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.UserRole, Content: fmt.Sprintf(researchPromptFmt, topic, contextBlock(matches))},
		},
		Temperature: 0.5,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", nil, err
	}
	return resp.Content, matches, nil
}

// Stats reports the size of the knowledge base.
func (a *RAGAgent) Stats(ctx context.Context) (storage.Stats, error) {
	return a.store.Stats(ctx)
}

// contextBlock renders matches the way the prompts expect them:
//
//	[Source 1: notes.txt (Relevance: 0.82)]
//	<chunk content>
func contextBlock(matches []models.KBMatch) string {
	if len(matches) == 0 {
		return noContext
	}
	parts := make([]string, 0, len(matches))
	for i, m := range matches {
		parts = append(parts, fmt.Sprintf("[Source %d: %s (Relevance: %.2f)]\n%s\n", i+1, m.Source, m.Relevance(), m.Content))
	}
	return strings.Join(parts, "\n")
}

// kbSources lists the distinct sources behind a set of matches.
func kbSources(matches []models.KBMatch) []models.SourceRef {
	sources := make([]models.SourceRef, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.Source]; ok {
			continue
		}
		seen[m.Source] = struct{}{}
		sources = append(sources, models.SourceRef{Title: m.Source, Kind: "kb"})
	}
	return sources
}

// answerWithContext prompts the model to answer a question from assembled
// evidence.
func answerWithContext(ctx context.Context, c llm.Client, question, evidence, instruction string) (string, error) {
	if instruction == "" {
		instruction = defaultContextInstruction
	}
	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nPlease provide a detailed answer based on the context above.", evidence, question)
	return llm.Generate(ctx, c, instruction, prompt)
}
