package models

import (
	"github.com/Aum2411/Task-4-Raag/pkg/workflow"
)

type ResearchDepth string

const (
	QuickDepth         ResearchDepth = "quick"
	StandardDepth      ResearchDepth = "standard"
	ComprehensiveDepth ResearchDepth = "comprehensive"
)

// SourceBudget is the number of sources gathered per evidence pool at this
// depth.
func (d ResearchDepth) SourceBudget() int {
	switch d {
	case QuickDepth:
		return 3
	case ComprehensiveDepth:
		return 10
	default:
		return 5
	}
}

// ParseResearchDepth normalizes a user-supplied depth, defaulting to
// standard.
func ParseResearchDepth(s string) ResearchDepth {
	switch ResearchDepth(s) {
	case QuickDepth, StandardDepth, ComprehensiveDepth:
		return ResearchDepth(s)
	default:
		return StandardDepth
	}
}

// SourceRef points at a piece of evidence used in an answer or report.
type SourceRef struct {
	Title string `json:"title"`
	Link  string `json:"link,omitempty"`
	Kind  string `json:"kind"` // "kb" or "web"
}

// Finding is the answer to one research question.
type Finding struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ResearchReport is the output of a deep research run.
type ResearchReport struct {
	Topic    string            `json:"topic"`
	Depth    ResearchDepth     `json:"depth"`
	Plan     []string          `json:"plan"`
	Findings []Finding         `json:"findings"`
	Report   string            `json:"report"`
	Sources  []SourceRef       `json:"sources"`
	Duration float64           `json:"duration_seconds"`
	Steps    *workflow.Summary `json:"steps,omitempty"`
}

// Comparison is the output of a side-by-side topic comparison.
type Comparison struct {
	TopicA     string            `json:"topic_a"`
	TopicB     string            `json:"topic_b"`
	SummaryA   string            `json:"summary_a"`
	SummaryB   string            `json:"summary_b"`
	Comparison string            `json:"comparison"`
	Steps      *workflow.Summary `json:"steps,omitempty"`
}

// Insights is the output of insight extraction over raw text.
type Insights struct {
	Analysis      string `json:"analysis"`
	RawTextLength int    `json:"raw_text_length"`
}

type TaskType string

const (
	ResearchTaskType   TaskType = "research"
	AnalysisTaskType   TaskType = "analysis"
	ComparisonTaskType TaskType = "comparison"
	SummaryTaskType    TaskType = "summary"
	GeneralTaskType    TaskType = "general"
)

type Complexity string

const (
	SimpleComplexity   Complexity = "simple"
	ModerateComplexity Complexity = "moderate"
	ComplexComplexity  Complexity = "complex"
)

// Subtask is one line of a decomposed task.
type Subtask struct {
	Ordinal     int    `json:"ordinal"`
	Description string `json:"description"`
}
