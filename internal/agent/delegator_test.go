package agent_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Aum2411/Task-4-Raag/internal/agent"
	"github.com/Aum2411/Task-4-Raag/internal/llm"
	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskDelegatorDecompose(t *testing.T) {
	ctx := context.Background()
	f := &fakeLLM{reply: func(llm.Request) (string, error) {
		return "Here are the subtasks:\n\n1. Gather requirements\n2. Draft the design\ncovering the storage layer\n3) Review with the team", nil
	}}
	d := agent.NewTaskDelegator(f, newLogger(t))

	subtasks, err := d.Decompose(ctx, "Build a storage layer")
	require.NoError(t, err)
	require.Len(t, subtasks, 3)
	assert.Equal(t, models.Subtask{Ordinal: 1, Description: "Gather requirements"}, subtasks[0])
	assert.Equal(t, "Draft the design covering the storage layer", subtasks[1].Description)
	assert.Equal(t, "Review with the team", subtasks[2].Description)

	req := f.last()
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.SystemRole, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "expert task planner")
	assert.Contains(t, userPrompt(req), "Task: Build a storage layer")
	assert.InDelta(t, 0.3, req.Temperature, 1e-9)
}

func TestTaskDelegatorDecomposeCapsSubtasks(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&b, "%d. Step number %d\n", i, i)
	}
	f := &fakeLLM{reply: func(llm.Request) (string, error) {
		return b.String(), nil
	}}
	d := agent.NewTaskDelegator(f, newLogger(t))

	subtasks, err := d.Decompose(context.Background(), "A very large task")
	require.NoError(t, err)
	require.Len(t, subtasks, 8)
	assert.Equal(t, 8, subtasks[7].Ordinal)
	assert.Equal(t, "Step number 8", subtasks[7].Description)
}

func TestTaskDelegatorPlan(t *testing.T) {
	f := &fakeLLM{reply: func(llm.Request) (string, error) {
		return "1. What is it?\n2. Why does it matter?\n3. How does it work?\n4. Who uses it?\n5. When did it start?\n6. Where is it going?", nil
	}}
	d := agent.NewTaskDelegator(f, newLogger(t))

	questions, err := d.Plan(context.Background(), "workflow engines")
	require.NoError(t, err)
	require.Len(t, questions, 5)
	assert.Equal(t, "What is it?", questions[0])
	assert.Equal(t, "When did it start?", questions[4])
	assert.Contains(t, f.lastPrompt(), "Topic: workflow engines")
}

func TestTaskDelegatorPlanNoQuestions(t *testing.T) {
	f := &fakeLLM{reply: func(llm.Request) (string, error) {
		return "I could not produce a plan for that topic.", nil
	}}
	d := agent.NewTaskDelegator(f, newLogger(t))

	_, err := d.Plan(context.Background(), "gibberish")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no research questions")
}

func TestTaskDelegatorTaskType(t *testing.T) {
	d := agent.NewTaskDelegator(&fakeLLM{}, newLogger(t))

	tests := []struct {
		task string
		want models.TaskType
	}{
		{"Compare PostgreSQL and MySQL", models.ComparisonTaskType},
		{"What is the DIFFERENCE between sqlx and pgx", models.ComparisonTaskType},
		{"Analyze the quarterly report", models.AnalysisTaskType},
		{"Evaluate our caching options", models.AnalysisTaskType},
		{"Summarize this paper", models.SummaryTaskType},
		{"Synthesize the meeting notes", models.SummaryTaskType},
		{"Research quantum computing", models.ResearchTaskType},
		{"Investigate the outage", models.ResearchTaskType},
		{"Translate this to French", models.GeneralTaskType},
	}
	for _, tc := range tests {
		t.Run(tc.task, func(t *testing.T) {
			assert.Equal(t, tc.want, d.TaskType(tc.task))
		})
	}
}

func TestComplexity(t *testing.T) {
	tests := []struct {
		subtasks int
		want     models.Complexity
	}{
		{0, models.SimpleComplexity},
		{3, models.SimpleComplexity},
		{4, models.ModerateComplexity},
		{5, models.ModerateComplexity},
		{6, models.ComplexComplexity},
		{9, models.ComplexComplexity},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, agent.Complexity(tc.subtasks), "subtasks=%d", tc.subtasks)
	}
}
