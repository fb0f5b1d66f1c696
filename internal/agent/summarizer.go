package agent

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Aum2411/Task-4-Raag/internal/llm"
	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/pkg/errors"
)

// SummaryStyle selects the shape of a summary.
type SummaryStyle string

const (
	ComprehensiveStyle SummaryStyle = "comprehensive"
	ConciseStyle       SummaryStyle = "concise"
	BulletStyle        SummaryStyle = "bullet"
)

const (
	// maxPromptChars caps how much raw text goes into a single prompt.
	maxPromptChars = 6000
	// maxSynthesisSources caps how many sources one synthesis call combines.
	maxSynthesisSources = 5
)

// Summarizer condenses, compares and synthesizes text with the model.
type Summarizer struct {
	llm    llm.Client
	logger Logger
}

func NewSummarizer(llmClient llm.Client, logger Logger) *Summarizer {
	return &Summarizer{llm: llmClient, logger: logger}
}

// Summarize condenses text in the requested style. Unknown styles fall back
// to comprehensive.
func (s *Summarizer) Summarize(ctx context.Context, text string, style SummaryStyle) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("no text to summarize")
	}
	text = truncate(text, maxPromptChars)

	var prompt string
	switch style {
	case BulletStyle:
		prompt = fmt.Sprintf(`Create a bullet-point summary of the following text.
Extract the 10 most important points.

Text:
%s

Bullet Summary:`, text)
	case ConciseStyle:
		prompt = fmt.Sprintf(`Create a concise summary of the following text in no more than 150 words.
Focus only on the most critical information.

Text:
%s

Concise Summary:`, text)
	default:
		prompt = fmt.Sprintf(`Create a comprehensive summary of the following text in approximately 300 words.
Include key details, main arguments, and important conclusions.

Text:
%s

Comprehensive Summary:`, text)
	}

	resp, err := s.llm.Complete(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.UserRole, Content: prompt}},
		Temperature: 0.5,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// ExtractInsights pulls the main topic, key points and conclusions out of raw
// text.
func (s *Summarizer) ExtractInsights(ctx context.Context, text string) (*models.Insights, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errors.New("no text to analyze")
	}

	prompt := fmt.Sprintf(`Analyze the following text and extract:
1. Main Topic (one sentence)
2. Key Points (3-5 bullet points)
3. Important Conclusions (2-3 sentences)
4. Actionable Insights (if any)

Text:
%s

Analysis:`, truncate(trimmed, maxPromptChars))

	resp, err := s.llm.Complete(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.UserRole, Content: prompt}},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}
	return &models.Insights{Analysis: resp.Content, RawTextLength: utf8.RuneCountInString(text)}, nil
}

// CompareDocuments contrasts two documents and synthesizes the result.
func (s *Summarizer) CompareDocuments(ctx context.Context, docA, docB string) (string, error) {
	prompt := fmt.Sprintf(`Compare and contrast the following two documents:

Document 1:
%s

Document 2:
%s

Please provide:
1. Common themes and agreements
2. Key differences
3. Unique points in each document
4. Overall synthesis

Comparison:`, truncate(docA, maxPromptChars), truncate(docB, maxPromptChars))

	resp, err := s.llm.Complete(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.UserRole, Content: prompt}},
		Temperature: 0.4,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// SynthesizeSources merges up to five source texts into one coherent summary.
func (s *Summarizer) SynthesizeSources(ctx context.Context, sources []string) (string, error) {
	if len(sources) == 0 {
		return "", errors.New("no sources to synthesize")
	}
	if len(sources) > maxSynthesisSources {
		sources = sources[:maxSynthesisSources]
	}

	var combined strings.Builder
	for i, src := range sources {
		fmt.Fprintf(&combined, "\n\n--- Source %d ---\n%s", i+1, truncate(src, maxPromptChars))
	}

	prompt := fmt.Sprintf(`Synthesize the information from the following %d sources into a coherent summary.
Identify common themes, resolve contradictions, and provide a comprehensive overview.
%s

Synthesized Summary:`, len(sources), combined.String())

	resp, err := s.llm.Complete(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.UserRole, Content: prompt}},
		Temperature: 0.5,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// truncate cuts text to at most limit runes.
func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}

// tail returns the last limit runes of text.
func tail(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[len(runes)-limit:])
}
