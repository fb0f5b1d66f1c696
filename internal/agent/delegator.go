package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aum2411/Task-4-Raag/internal/llm"
	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/pkg/errors"
)

const (
	// maxSubtasks bounds how many subtasks a decomposition may produce.
	maxSubtasks = 8
	// maxPlanQuestions bounds how many research questions a plan may carry.
	maxPlanQuestions = 5
)

// TaskDelegator breaks complex tasks into ordered subtasks and classifies
// tasks by kind and complexity.
type TaskDelegator struct {
	llm    llm.Client
	logger Logger
}

func NewTaskDelegator(llmClient llm.Client, logger Logger) *TaskDelegator {
	return &TaskDelegator{llm: llmClient, logger: logger}
}

const decomposeSystemPrompt = `You are an expert task planner. Break down complex tasks into logical, sequential subtasks. Each subtask should be specific and actionable.`

const decomposePromptFmt = `Analyze the following complex task and break it down into 3-7 specific subtasks.

Task: %s

Each subtask needs a clear, actionable title. Format your response as a numbered list, one subtask per line.

Subtasks:`

// Decompose breaks a task into at most eight ordered subtasks.
func (d *TaskDelegator) Decompose(ctx context.Context, task string) ([]models.Subtask, error) {
	resp, err := d.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.SystemRole, Content: decomposeSystemPrompt},
			{Role: llm.UserRole, Content: fmt.Sprintf(decomposePromptFmt, task)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}

	items := parseNumberedList(resp.Content)
	if len(items) > maxSubtasks {
		items = items[:maxSubtasks]
	}
	subtasks := make([]models.Subtask, len(items))
	for i, item := range items {
		subtasks[i] = models.Subtask{Ordinal: i + 1, Description: item}
	}
	d.logger.Infof("Decomposed task into %d subtasks", len(subtasks))
	return subtasks, nil
}

const planPromptFmt = `Create a research plan for the following topic.

Topic: %s

List the 3-5 key questions that must be answered to cover the topic well.
Format your response as a numbered list, one question per line.

Questions:`

// Plan produces the research questions a topic breaks down into.
func (d *TaskDelegator) Plan(ctx context.Context, topic string) ([]string, error) {
	resp, err := d.llm.Complete(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.UserRole, Content: fmt.Sprintf(planPromptFmt, topic)}},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}

	questions := parseNumberedList(resp.Content)
	if len(questions) == 0 {
		return nil, errors.New("no research questions in model response")
	}
	if len(questions) > maxPlanQuestions {
		questions = questions[:maxPlanQuestions]
	}
	return questions, nil
}

// TaskType classifies a task by its wording.
func (d *TaskDelegator) TaskType(task string) models.TaskType {
	t := strings.ToLower(task)
	switch {
	case containsAny(t, "compare", "contrast", "difference"):
		return models.ComparisonTaskType
	case containsAny(t, "analyze", "examine", "evaluate"):
		return models.AnalysisTaskType
	case containsAny(t, "summarize", "synthesize", "overview", "brief"):
		return models.SummaryTaskType
	case containsAny(t, "research", "investigate", "explore", "find"):
		return models.ResearchTaskType
	}
	return models.GeneralTaskType
}

// Complexity grades a task by how many subtasks it decomposed into.
func Complexity(subtasks int) models.Complexity {
	switch {
	case subtasks <= 3:
		return models.SimpleComplexity
	case subtasks <= 5:
		return models.ModerateComplexity
	default:
		return models.ComplexComplexity
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// parseNumberedList extracts the items of a numbered list, merging
// continuation lines into the item above and dropping any preamble.
func parseNumberedList(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if item, ok := stripListMarker(line); ok {
			if item != "" {
				items = append(items, item)
			}
			continue
		}
		if len(items) > 0 {
			items[len(items)-1] += " " + line
		}
	}
	return items
}

// stripListMarker removes a leading "N." or "N)" marker from a line.
func stripListMarker(line string) (string, bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || (line[i] != '.' && line[i] != ')') {
		return "", false
	}
	return strings.TrimSpace(line[i+1:]), true
}
