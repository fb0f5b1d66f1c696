package workflow_test

import (
	"context"
	"testing"

	"github.com/Aum2411/Task-4-Raag/pkg/workflow"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textStep(s string) workflow.Action {
	return func(ctx context.Context, wc workflow.Context) (workflow.Result, error) {
		return workflow.TextResult(s), nil
	}
}

func failingStep(msg string) workflow.Action {
	return func(ctx context.Context, wc workflow.Context) (workflow.Result, error) {
		return workflow.Result{}, errors.New(msg)
	}
}

func recordingStep(order *[]string, id string) workflow.Action {
	return func(ctx context.Context, wc workflow.Context) (workflow.Result, error) {
		*order = append(*order, id)
		return workflow.TextResult(id), nil
	}
}

func TestAddStep(t *testing.T) {
	t.Run("DuplicateID", func(t *testing.T) {
		wf := workflow.New("dup")
		assert.NoError(t, wf.AddStep("fetch", textStep("a"), nil))
		err := wf.AddStep("fetch", textStep("b"), nil)
		assert.Error(t, err)
		var dupErr *workflow.DuplicateStepError
		assert.True(t, errors.As(err, &dupErr))
		assert.Equal(t, "fetch", dupErr.ID)
		assert.Contains(t, err.Error(), "fetch")
	})

	t.Run("EmptyID", func(t *testing.T) {
		wf := workflow.New("empty")
		assert.Error(t, wf.AddStep("", textStep("a"), nil))
	})

	t.Run("NilAction", func(t *testing.T) {
		wf := workflow.New("nil")
		assert.Error(t, wf.AddStep("fetch", nil, nil))
	})

	t.Run("SealedAfterExecute", func(t *testing.T) {
		wf := workflow.New("sealed")
		require.NoError(t, wf.AddStep("fetch", textStep("a"), nil))
		_, err := wf.Execute(context.Background(), nil)
		require.NoError(t, err)

		err = wf.AddStep("late", textStep("b"), nil)
		assert.ErrorIs(t, err, workflow.ErrWorkflowSealed)
	})
}

func TestResolveOrder(t *testing.T) {
	t.Run("DependenciesFirst", func(t *testing.T) {
		wf := workflow.New("order")
		require.NoError(t, wf.AddStep("report", textStep(""), []string{"synthesize"}))
		require.NoError(t, wf.AddStep("synthesize", textStep(""), []string{"gather_kb", "gather_web"}))
		require.NoError(t, wf.AddStep("gather_kb", textStep(""), []string{"plan"}))
		require.NoError(t, wf.AddStep("gather_web", textStep(""), []string{"plan"}))
		require.NoError(t, wf.AddStep("plan", textStep(""), nil))

		order, err := wf.ResolveOrder()
		require.NoError(t, err)
		require.Len(t, order, 5)

		pos := make(map[string]int, len(order))
		for i, id := range order {
			pos[id] = i
		}
		assert.Less(t, pos["plan"], pos["gather_kb"])
		assert.Less(t, pos["plan"], pos["gather_web"])
		assert.Less(t, pos["gather_kb"], pos["synthesize"])
		assert.Less(t, pos["gather_web"], pos["synthesize"])
		assert.Less(t, pos["synthesize"], pos["report"])
	})

	t.Run("InsertionOrderTieBreak", func(t *testing.T) {
		wf := workflow.New("ties")
		require.NoError(t, wf.AddStep("c", textStep(""), nil))
		require.NoError(t, wf.AddStep("a", textStep(""), nil))
		require.NoError(t, wf.AddStep("b", textStep(""), nil))

		order, err := wf.ResolveOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a", "b"}, order)
	})

	t.Run("Deterministic", func(t *testing.T) {
		wf := workflow.New("repeat")
		require.NoError(t, wf.AddStep("x", textStep(""), nil))
		require.NoError(t, wf.AddStep("y", textStep(""), []string{"x"}))
		require.NoError(t, wf.AddStep("z", textStep(""), []string{"x"}))

		first, err := wf.ResolveOrder()
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := wf.ResolveOrder()
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("UnknownDependency", func(t *testing.T) {
		wf := workflow.New("unknown")
		require.NoError(t, wf.AddStep("analyze", textStep(""), []string{"fetch", "parse"}))

		_, err := wf.ResolveOrder()
		require.Error(t, err)
		var depErr *workflow.UnknownDependencyError
		require.True(t, errors.As(err, &depErr))
		assert.Equal(t, "analyze", depErr.StepID)
		assert.ElementsMatch(t, []string{"fetch", "parse"}, depErr.Missing)
	})

	t.Run("CycleNamesMembers", func(t *testing.T) {
		wf := workflow.New("cycle")
		require.NoError(t, wf.AddStep("a", textStep(""), []string{"c"}))
		require.NoError(t, wf.AddStep("b", textStep(""), []string{"a"}))
		require.NoError(t, wf.AddStep("c", textStep(""), []string{"b"}))
		require.NoError(t, wf.AddStep("standalone", textStep(""), nil))

		_, err := wf.ResolveOrder()
		require.Error(t, err)
		var cycErr *workflow.CyclicDependencyError
		require.True(t, errors.As(err, &cycErr))
		assert.ElementsMatch(t, []string{"a", "b", "c"}, cycErr.Cycle)
		assert.NotContains(t, cycErr.Cycle, "standalone")
	})

	t.Run("SelfDependency", func(t *testing.T) {
		wf := workflow.New("self")
		require.NoError(t, wf.AddStep("loop", textStep(""), []string{"loop"}))

		_, err := wf.ResolveOrder()
		require.Error(t, err)
		var cycErr *workflow.CyclicDependencyError
		require.True(t, errors.As(err, &cycErr))
		assert.Equal(t, []string{"loop"}, cycErr.Cycle)
	})

	t.Run("CacheInvalidatedByAddStep", func(t *testing.T) {
		wf := workflow.New("cache")
		require.NoError(t, wf.AddStep("a", textStep(""), nil))
		order, err := wf.ResolveOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, order)

		require.NoError(t, wf.AddStep("b", textStep(""), []string{"a"}))
		order, err = wf.ResolveOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, order)
	})
}

func TestExecute(t *testing.T) {
	t.Run("RunsInResolvedOrder", func(t *testing.T) {
		var ran []string
		wf := workflow.New("linear")
		require.NoError(t, wf.AddStep("fetch", recordingStep(&ran, "fetch"), nil))
		require.NoError(t, wf.AddStep("parse", recordingStep(&ran, "parse"), []string{"fetch"}))
		require.NoError(t, wf.AddStep("report", recordingStep(&ran, "report"), []string{"parse"}))

		summary, err := wf.Execute(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"fetch", "parse", "report"}, ran)
		assert.Equal(t, workflow.CompletedOverallStatus, summary.Overall)
		assert.Equal(t, 3, summary.Completed)
	})

	t.Run("ContextPassing", func(t *testing.T) {
		wf := workflow.New("ctx")
		require.NoError(t, wf.AddStep("fetch", func(ctx context.Context, wc workflow.Context) (workflow.Result, error) {
			return workflow.NumberResult(5), nil
		}, nil))
		require.NoError(t, wf.AddStep("double", func(ctx context.Context, wc workflow.Context) (workflow.Result, error) {
			n, ok := wc["fetch"].AsNumber()
			require.True(t, ok)
			return workflow.NumberResult(n * 2), nil
		}, []string{"fetch"}))

		summary, err := wf.Execute(context.Background(), nil)
		require.NoError(t, err)
		doubled, ok := summary.Context["double"].AsNumber()
		require.True(t, ok)
		assert.Equal(t, float64(10), doubled)
	})

	t.Run("InitialContextSeedsActions", func(t *testing.T) {
		wf := workflow.New("seed")
		require.NoError(t, wf.AddStep("greet", func(ctx context.Context, wc workflow.Context) (workflow.Result, error) {
			return workflow.TextResult("hello " + wc.Text("name")), nil
		}, nil))

		summary, err := wf.Execute(context.Background(), workflow.Context{
			"name": workflow.TextResult("world"),
		})
		require.NoError(t, err)
		assert.Equal(t, "hello world", summary.Context.Text("greet"))
	})

	t.Run("SkipPropagation", func(t *testing.T) {
		var ran []string
		wf := workflow.New("skip")
		require.NoError(t, wf.AddStep("fetch", failingStep("boom"), nil))
		require.NoError(t, wf.AddStep("parse", recordingStep(&ran, "parse"), []string{"fetch"}))
		require.NoError(t, wf.AddStep("report", recordingStep(&ran, "report"), []string{"parse"}))
		require.NoError(t, wf.AddStep("independent", recordingStep(&ran, "independent"), nil))

		summary, err := wf.Execute(context.Background(), nil)
		require.NoError(t, err)

		// the failed branch is skipped transitively, the independent branch runs
		assert.Equal(t, []string{"independent"}, ran)
		byID := stepReports(summary)
		assert.Equal(t, workflow.FailedStepStatus, byID["fetch"].Status)
		assert.Equal(t, workflow.SkippedStepStatus, byID["parse"].Status)
		assert.Contains(t, byID["parse"].Error, "fetch")
		assert.Equal(t, workflow.SkippedStepStatus, byID["report"].Status)
		assert.Equal(t, workflow.CompletedStepStatus, byID["independent"].Status)
		assert.Equal(t, workflow.PartialOverallStatus, summary.Overall)
		assert.Equal(t, 1, summary.Completed)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 2, summary.Skipped)
	})

	t.Run("ContinuesPastFailure", func(t *testing.T) {
		var ran []string
		wf := workflow.New("continue")
		require.NoError(t, wf.AddStep("bad", failingStep("nope"), nil))
		require.NoError(t, wf.AddStep("good", recordingStep(&ran, "good"), nil))

		summary, err := wf.Execute(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"good"}, ran)
		assert.Equal(t, workflow.PartialOverallStatus, summary.Overall)
	})

	t.Run("FailedStepLeavesNoResult", func(t *testing.T) {
		wf := workflow.New("noresult")
		require.NoError(t, wf.AddStep("bad", failingStep("nope"), nil))

		summary, err := wf.Execute(context.Background(), nil)
		require.NoError(t, err)
		_, ok := summary.Context["bad"]
		assert.False(t, ok)
	})

	t.Run("AllFailed", func(t *testing.T) {
		wf := workflow.New("allfail")
		require.NoError(t, wf.AddStep("a", failingStep("a failed"), nil))
		require.NoError(t, wf.AddStep("b", failingStep("b failed"), nil))

		summary, err := wf.Execute(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, workflow.FailedOverallStatus, summary.Overall)
		assert.Equal(t, 0, summary.Completed)
		assert.Equal(t, 2, summary.Failed)
	})

	t.Run("EmptyWorkflow", func(t *testing.T) {
		wf := workflow.New("empty")
		summary, err := wf.Execute(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, workflow.CompletedOverallStatus, summary.Overall)
		assert.Empty(t, summary.Steps)
	})

	t.Run("SecondRunRejected", func(t *testing.T) {
		wf := workflow.New("twice")
		require.NoError(t, wf.AddStep("a", textStep("a"), nil))
		_, err := wf.Execute(context.Background(), nil)
		require.NoError(t, err)
		_, err = wf.Execute(context.Background(), nil)
		assert.ErrorIs(t, err, workflow.ErrAlreadyExecuted)
	})

	t.Run("ResolutionErrorRunsNothing", func(t *testing.T) {
		var ran []string
		wf := workflow.New("badgraph")
		require.NoError(t, wf.AddStep("a", recordingStep(&ran, "a"), []string{"missing"}))

		summary, err := wf.Execute(context.Background(), nil)
		assert.Nil(t, summary)
		var depErr *workflow.UnknownDependencyError
		assert.True(t, errors.As(err, &depErr))
		assert.Empty(t, ran)
	})

	t.Run("CancellationSkipsRemaining", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var ran []string
		wf := workflow.New("cancel")
		require.NoError(t, wf.AddStep("first", func(c context.Context, wc workflow.Context) (workflow.Result, error) {
			ran = append(ran, "first")
			cancel()
			return workflow.TextResult("done"), nil
		}, nil))
		require.NoError(t, wf.AddStep("second", recordingStep(&ran, "second"), nil))
		require.NoError(t, wf.AddStep("third", recordingStep(&ran, "third"), nil))

		summary, err := wf.Execute(ctx, nil)
		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, summary)
		assert.Equal(t, []string{"first"}, ran)

		byID := stepReports(summary)
		assert.Equal(t, workflow.CompletedStepStatus, byID["first"].Status)
		assert.Equal(t, workflow.SkippedStepStatus, byID["second"].Status)
		assert.Equal(t, workflow.SkippedStepStatus, byID["third"].Status)
	})

	t.Run("ZeroResultCompletesAsEmptyText", func(t *testing.T) {
		wf := workflow.New("zero")
		require.NoError(t, wf.AddStep("noop", func(ctx context.Context, wc workflow.Context) (workflow.Result, error) {
			return workflow.Result{}, nil
		}, nil))

		summary, err := wf.Execute(context.Background(), nil)
		require.NoError(t, err)
		res, ok := summary.Context.Get("noop")
		require.True(t, ok)
		text, isText := res.AsText()
		assert.True(t, isText)
		assert.Equal(t, "", text)
	})

	t.Run("DuplicateDependenciesCollapse", func(t *testing.T) {
		wf := workflow.New("dupdeps")
		require.NoError(t, wf.AddStep("a", textStep("a"), nil))
		require.NoError(t, wf.AddStep("b", textStep("b"), []string{"a", "a", "a"}))

		summary, err := wf.Execute(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, workflow.CompletedOverallStatus, summary.Overall)
	})
}

func stepReports(s *workflow.Summary) map[string]workflow.StepReport {
	byID := make(map[string]workflow.StepReport, len(s.Steps))
	for _, r := range s.Steps {
		byID[r.ID] = r
	}
	return byID
}
