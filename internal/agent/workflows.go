package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aum2411/Task-4-Raag/internal/document"
	"github.com/Aum2411/Task-4-Raag/internal/llm"
	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/Aum2411/Task-4-Raag/pkg/workflow"
)

// DocumentAnalysisWorkflow builds a workflow that loads a document,
// summarizes it, extracts insights and assembles a short report. Execute the
// returned workflow to run the analysis.
func (r *ResearchAgent) DocumentAnalysisWorkflow(path string) (*workflow.Workflow, error) {
	wf := workflow.New("document-analysis", workflow.WithLogger(r.logger))
	adder := &stepAdder{wf: wf}

	var text string

	adder.add("load", "Load document", nil, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
		file, err := document.Load(path)
		if err != nil {
			return workflow.Result{}, err
		}
		text = file.Text
		return workflow.TextResult(fmt.Sprintf("loaded %s (%d characters)", file.Title, len(file.Text))), nil
	})

	adder.add("summarize", "Summarize document", []string{"load"}, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
		summary, err := r.summarizer.Summarize(ctx, text, ComprehensiveStyle)
		if err != nil {
			return workflow.Result{}, err
		}
		return workflow.TextResult(summary), nil
	})

	adder.add("insights", "Extract insights", []string{"load"}, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
		insights, err := r.summarizer.ExtractInsights(ctx, text)
		if err != nil {
			return workflow.Result{}, err
		}
		return workflow.TextResult(insights.Analysis), nil
	})

	adder.add("report", "Assemble report", []string{"summarize", "insights"}, func(ctx context.Context, wc workflow.Context) (workflow.Result, error) {
		report := fmt.Sprintf("# Document Analysis: %s\n\n## Summary\n%s\n\n## Insights\n%s\n",
			path, wc.Text("summarize"), wc.Text("insights"))
		return workflow.TextResult(report), nil
	})

	if adder.err != nil {
		return nil, adder.err
	}
	return wf, nil
}

// CompetitiveAnalysisWorkflow builds a workflow that researches a company,
// identifies and analyzes its competitors, runs a SWOT analysis over what it
// found and closes with strategic recommendations.
func (r *ResearchAgent) CompetitiveAnalysisWorkflow(company string) (*workflow.Workflow, error) {
	wf := workflow.New("competitive-analysis", workflow.WithLogger(r.logger))
	adder := &stepAdder{wf: wf}

	var companyInfo string

	adder.add("research", fmt.Sprintf("Research %s", company), nil, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
		summary, _, err := r.rag.Research(ctx, company, models.StandardDepth)
		if err != nil {
			return workflow.Result{}, err
		}
		if r.searcher != nil {
			if ws, err := r.searcher.Search(ctx, company+" company overview", 3); err == nil {
				var lines []string
				for _, hit := range ws.Results {
					lines = append(lines, hit.Snippet)
				}
				if len(lines) > 0 {
					summary += "\n\n" + strings.Join(lines, "\n")
				}
			} else {
				r.logger.Errorf("Web search failed: %v", err)
			}
		}
		companyInfo = summary
		return workflow.TextResult(summary), nil
	})

	adder.add("competitors", "Identify competitors", []string{"research"}, func(ctx context.Context, _ workflow.Context) (workflow.Result, error) {
		resp, err := r.llm.Complete(ctx, llm.Request{
			Messages:    []llm.Message{{Role: llm.UserRole, Content: fmt.Sprintf("Who are the main competitors of %s?", company)}},
			Temperature: 0.3,
		})
		if err != nil {
			return workflow.Result{}, err
		}
		return workflow.TextResult(resp.Content), nil
	})

	adder.add("analyze_competitors", "Analyze competitors", []string{"competitors"}, func(ctx context.Context, wc workflow.Context) (workflow.Result, error) {
		resp, err := r.llm.Complete(ctx, llm.Request{
			Messages: []llm.Message{
				{Role: llm.UserRole, Content: "Provide a brief analysis of each competitor mentioned: " + wc.Text("competitors")},
			},
			Temperature: 0.4,
		})
		if err != nil {
			return workflow.Result{}, err
		}
		return workflow.TextResult(resp.Content), nil
	})

	adder.add("swot", "SWOT analysis", []string{"research", "analyze_competitors"}, func(ctx context.Context, wc workflow.Context) (workflow.Result, error) {
		prompt := fmt.Sprintf(`Based on the following information, perform a SWOT analysis for %s:

Company Information:
%s

Competitor Analysis:
%s

Provide:
- Strengths (3-5 points)
- Weaknesses (3-5 points)
- Opportunities (3-5 points)
- Threats (3-5 points)

SWOT Analysis:`, company, truncate(companyInfo, 500), truncate(wc.Text("analyze_competitors"), 500))

		resp, err := r.llm.Complete(ctx, llm.Request{
			Messages:    []llm.Message{{Role: llm.UserRole, Content: prompt}},
			Temperature: 0.5,
		})
		if err != nil {
			return workflow.Result{}, err
		}
		return workflow.TextResult(resp.Content), nil
	})

	adder.add("recommend", "Strategic recommendations", []string{"swot"}, func(ctx context.Context, wc workflow.Context) (workflow.Result, error) {
		prompt := fmt.Sprintf(`Based on this SWOT analysis, provide 5 strategic recommendations for %s:

%s

Recommendations:`, company, wc.Text("swot"))

		resp, err := r.llm.Complete(ctx, llm.Request{
			Messages:    []llm.Message{{Role: llm.UserRole, Content: prompt}},
			Temperature: 0.6,
		})
		if err != nil {
			return workflow.Result{}, err
		}
		return workflow.TextResult(resp.Content), nil
	})

	if adder.err != nil {
		return nil, adder.err
	}
	return wf, nil
}
