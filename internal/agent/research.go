package agent

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Aum2411/Task-4-Raag/internal/document"
	"github.com/Aum2411/Task-4-Raag/internal/llm"
	"github.com/Aum2411/Task-4-Raag/internal/search"
	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/Aum2411/Task-4-Raag/pkg/workflow"
	"github.com/pkg/errors"
)

const (
	// maxResearchSubtasks bounds how many plan questions one run works
	// through.
	maxResearchSubtasks = 5
	// maxPageChars caps how much of a fetched page is ingested.
	maxPageChars = 5000
)

// ResearchAgent orchestrates research runs over the knowledge base, the web
// and the model, wiring the pieces together as workflows.
type ResearchAgent struct {
	rag        *RAGAgent
	delegator  *TaskDelegator
	summarizer *Summarizer
	searcher   search.Searcher
	llm        llm.Client
	client     *http.Client
	logger     Logger
}

// NewResearchAgent builds a research agent on top of an existing RAG agent.
// searcher may be nil, in which case runs are knowledge-base only.
func NewResearchAgent(rag *RAGAgent, searcher search.Searcher, logger Logger) *ResearchAgent {
	return &ResearchAgent{
		rag:        rag,
		delegator:  NewTaskDelegator(rag.llm, logger),
		summarizer: NewSummarizer(rag.llm, logger),
		searcher:   searcher,
		llm:        rag.llm,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// RAG exposes the underlying RAG agent.
func (r *ResearchAgent) RAG() *RAGAgent { return r.rag }

// stepAdder accumulates AddStep errors so workflow construction reads
// linearly.
type stepAdder struct {
	wf  *workflow.Workflow
	err error
}

func (a *stepAdder) add(id, title string, deps []string, action workflow.Action) {
	if a.err != nil {
		return
	}
	a.err = a.wf.AddStep(id, action, deps, workflow.WithTitle(title))
}

// DeepResearch runs the full research workflow for a topic: plan the
// questions, gather evidence from the knowledge base and the web, work
// through the questions one by one, then synthesize a final report.
func (r *ResearchAgent) DeepResearch(ctx context.Context, topic string, depth models.ResearchDepth) (*models.ResearchReport, error) {
	return r.deepResearch(ctx, topic, depth, r.searcher != nil)
}

func (r *ResearchAgent) deepResearch(ctx context.Context, topic string, depth models.ResearchDepth, useWeb bool) (*models.ResearchReport, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("empty research topic")
	}
	budget := depth.SourceBudget()

	// Step actions communicate through these; execution is strictly
	// sequential, so no locking is needed.
	var (
		plan      []string
		kbSummary string
		webBlock  string
		sources   []models.SourceRef
		findings  []models.Finding
		report    string
	)

	wf := workflow.New("deep-research", workflow.WithLogger(r.logger))
	adder := &stepAdder{wf: wf}

	adder.add("plan", "Plan research questions", nil, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
		questions, err := r.delegator.Plan(ctx, topic)
		if err != nil {
			return workflow.Result{}, err
		}
		plan = questions
		items := make([]workflow.Result, len(questions))
		for i, q := range questions {
			items[i] = workflow.TextResult(q)
		}
		return workflow.ListResult(items...), nil
	})

	adder.add("gather_kb", "Gather knowledge base evidence", []string{"plan"}, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
		summary, matches, err := r.rag.Research(ctx, topic, depth)
		if err != nil {
			return workflow.Result{}, err
		}
		if len(matches) > 0 {
			kbSummary = summary
			sources = append(sources, kbSources(matches)...)
		}
		return workflow.TextResult(summary), nil
	})

	gatherDeps := []string{"gather_kb"}
	if useWeb {
		gatherDeps = append(gatherDeps, "gather_web")
		adder.add("gather_web", "Gather web evidence", []string{"plan"}, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
			ws, err := r.searcher.Search(ctx, topic, budget)
			if err != nil {
				// Web evidence is optional; the run continues on the
				// knowledge base alone.
				r.logger.Errorf("Web search failed: %v", err)
				return workflow.TextResult(""), nil
			}
			webBlock = webSnippets(ws.Results, 3)
			for _, hit := range ws.Results {
				sources = append(sources, models.SourceRef{Title: hit.Title, Link: hit.Link, Kind: "web"})
			}
			return workflow.TextResult(webBlock), nil
		})
	}

	subtaskIDs := make([]string, 0, maxResearchSubtasks)
	for i := 0; i < maxResearchSubtasks; i++ {
		i := i // the closure below runs after the loop; keep a per-iteration copy while go.mod declares go < 1.22
		id := fmt.Sprintf("subtask_%d", i+1)
		subtaskIDs = append(subtaskIDs, id)
		adder.add(id, fmt.Sprintf("Research question %d", i+1), gatherDeps, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
			if i >= len(plan) {
				return workflow.TextResult(""), nil
			}
			question := plan[i]
			answer, err := answerWithContext(ctx, r.llm, question, researchEvidence(kbSummary, webBlock),
				"Provide a detailed analysis based on the available context.")
			if err != nil {
				return workflow.Result{}, err
			}
			findings = append(findings, models.Finding{Question: question, Answer: answer})
			return workflow.TextResult(answer), nil
		})
	}

	adder.add("synthesize", "Synthesize findings", subtaskIDs, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
		var all []string
		if kbSummary != "" {
			all = append(all, kbSummary)
		}
		if webBlock != "" {
			all = append(all, webBlock)
		}
		for _, f := range findings {
			all = append(all, f.Answer)
		}
		text, err := r.summarizer.SynthesizeSources(ctx, all)
		if err != nil {
			return workflow.Result{}, err
		}
		return workflow.TextResult(text), nil
	})

	adder.add("report", "Assemble final report", []string{"synthesize"}, func(ctx context.Context, wc workflow.Context) (workflow.Result, error) {
		report = buildReport(topic, plan, findings, sources, wc.Text("synthesize"))
		return workflow.TextResult(report), nil
	})

	if adder.err != nil {
		return nil, adder.err
	}

	summary, err := wf.Execute(ctx, nil)
	if err != nil {
		return nil, err
	}
	if summary.Overall == workflow.FailedOverallStatus {
		return nil, errors.Errorf("deep research on '%s' failed: %s", topic, firstStepError(summary))
	}
	r.logger.Infof("Deep research on '%s' finished %s (%d/%d steps completed)",
		topic, summary.Overall, summary.Completed, len(summary.Steps))

	return &models.ResearchReport{
		Topic:    topic,
		Depth:    depth,
		Plan:     plan,
		Findings: findings,
		Report:   report,
		Sources:  sources,
		Duration: summary.Duration,
		Steps:    summary,
	}, nil
}

// QuickAnswer answers a question from the top knowledge base chunks plus a
// couple of web snippets, in a single model call.
func (r *ResearchAgent) QuickAnswer(ctx context.Context, question string) (string, error) {
	matches, err := r.rag.Query(ctx, question, 3)
	if err != nil {
		return "", err
	}

	webBlock := ""
	if r.searcher != nil {
		ws, err := r.searcher.Search(ctx, question, 3)
		if err != nil {
			r.logger.Errorf("Web search failed: %v", err)
		} else {
			webBlock = webSnippets(ws.Results, 2)
		}
	}

	combined := fmt.Sprintf("Knowledge Base:\n%s\n\nWeb Results:\n%s", contextBlock(matches), webBlock)
	return answerWithContext(ctx, r.llm, question, combined, "")
}

// CompareTopics researches two topics and contrasts them.
func (r *ResearchAgent) CompareTopics(ctx context.Context, topicA, topicB string) (*models.Comparison, error) {
	var summaryA, summaryB string

	wf := workflow.New("compare-topics", workflow.WithLogger(r.logger))
	adder := &stepAdder{wf: wf}

	adder.add("research_a", fmt.Sprintf("Research %s", topicA), nil, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
		summary, _, err := r.rag.Research(ctx, topicA, models.StandardDepth)
		if err != nil {
			return workflow.Result{}, err
		}
		summaryA = summary
		return workflow.TextResult(summary), nil
	})

	adder.add("research_b", fmt.Sprintf("Research %s", topicB), nil, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
		summary, _, err := r.rag.Research(ctx, topicB, models.StandardDepth)
		if err != nil {
			return workflow.Result{}, err
		}
		summaryB = summary
		return workflow.TextResult(summary), nil
	})

	adder.add("synthesize", "Compare topics", []string{"research_a", "research_b"}, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
		comparison, err := r.summarizer.CompareDocuments(ctx, summaryA, summaryB)
		if err != nil {
			return workflow.Result{}, err
		}
		return workflow.TextResult(comparison), nil
	})

	if adder.err != nil {
		return nil, adder.err
	}

	summary, err := wf.Execute(ctx, nil)
	if err != nil {
		return nil, err
	}
	if !summary.Succeeded() {
		return nil, errors.Errorf("comparing '%s' and '%s' failed: %s", topicA, topicB, firstStepError(summary))
	}

	return &models.Comparison{
		TopicA:     topicA,
		TopicB:     topicB,
		SummaryA:   summaryA,
		SummaryB:   summaryB,
		Comparison: summary.Context.Text("synthesize"),
		Steps:      summary,
	}, nil
}

// ResearchFromURLs pulls the given pages into the knowledge base and runs a
// knowledge-base-only research pass over them.
func (r *ResearchAgent) ResearchFromURLs(ctx context.Context, topic string, urls []string) (*models.ResearchReport, error) {
	if len(urls) == 0 {
		return nil, errors.New("no urls to research")
	}

	added := 0
	for _, u := range urls {
		text, err := r.fetchPage(ctx, u)
		if err != nil {
			r.logger.Errorf("Fetching %s failed: %v", u, err)
			continue
		}
		if _, err := r.rag.AddText(ctx, truncate(text, maxPageChars), u); err != nil {
			r.logger.Errorf("Adding %s to knowledge base failed: %v", u, err)
			continue
		}
		added++
	}
	if added == 0 {
		return nil, errors.New("none of the urls could be fetched")
	}
	r.logger.Infof("Ingested %d/%d urls for research on '%s'", added, len(urls), topic)

	return r.deepResearch(ctx, topic, models.StandardDepth, false)
}

func (r *ResearchAgent) fetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", "raag/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	return document.ExtractHTMLText(resp.Body)
}

// webSnippets renders the top n hits as "title: snippet" lines.
func webSnippets(hits []models.WebResult, n int) string {
	var lines []string
	for i, hit := range hits {
		if i == n {
			break
		}
		lines = append(lines, fmt.Sprintf("%s: %s", hit.Title, hit.Snippet))
	}
	return strings.Join(lines, "\n\n")
}

// researchEvidence merges the gathered evidence pools into one context block.
func researchEvidence(kbSummary, webBlock string) string {
	var parts []string
	if kbSummary != "" {
		parts = append(parts, kbSummary)
	}
	if webBlock != "" {
		parts = append(parts, webBlock)
	}
	if len(parts) == 0 {
		return noContext
	}
	return strings.Join(parts, "\n\n")
}

// firstStepError surfaces the first failure recorded in a run summary.
func firstStepError(s *workflow.Summary) string {
	for _, step := range s.Steps {
		if step.Status == workflow.FailedStepStatus && step.Error != "" {
			return fmt.Sprintf("step '%s': %s", step.ID, step.Error)
		}
	}
	return "workflow did not complete"
}

// buildReport assembles the final markdown report of a deep research run.
func buildReport(topic string, plan []string, findings []models.Finding, sources []models.SourceRef, synthesis string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Research Report: %s\n\n", topic)

	b.WriteString("## Executive Summary\n")
	if synthesis == "" {
		b.WriteString("No synthesis available.")
	} else {
		b.WriteString(synthesis)
	}
	b.WriteString("\n\n")

	if len(plan) > 0 {
		b.WriteString("## Research Approach\n")
		for i, q := range plan {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
		b.WriteString("\n")
	}

	if len(findings) > 0 {
		b.WriteString("## Key Findings\n")
		for i, f := range findings {
			fmt.Fprintf(&b, "\n### Finding %d: %s\n%s\n", i+1, f.Question, truncate(f.Answer, 400))
		}
		b.WriteString("\n")
	}

	if len(sources) > 0 {
		b.WriteString("## Sources\n")
		for i, src := range sources {
			if src.Link != "" {
				fmt.Fprintf(&b, "%d. [%s](%s) (%s)\n", i+1, src.Title, src.Link, src.Kind)
			} else {
				fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, src.Title, src.Kind)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Conclusion\n")
	b.WriteString("Based on the comprehensive analysis above, ")
	b.WriteString(tail(synthesis, 300))
	b.WriteString("\n")
	return b.String()
}
