package workflow

import "time"

type OverallStatus string

const (
	CompletedOverallStatus OverallStatus = "COMPLETED"
	PartialOverallStatus   OverallStatus = "PARTIAL"
	FailedOverallStatus    OverallStatus = "FAILED"
)

// StepReport is the per-step slice of a Summary.
type StepReport struct {
	ID       string     `json:"id"`
	Title    string     `json:"title,omitempty"`
	Status   StepStatus `json:"status"`
	Error    string     `json:"error,omitempty"`
	Duration float64    `json:"duration_seconds"`
}

// Summary reports the outcome of a workflow run: an overall verdict, one
// report per step in execution order, and the final context with the results
// of every completed step.
type Summary struct {
	Workflow   string        `json:"workflow"`
	Overall    OverallStatus `json:"overall"`
	Steps      []StepReport  `json:"steps"`
	Completed  int           `json:"completed"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   float64       `json:"duration_seconds"`
	Context    Context       `json:"results"`
}

// Succeeded reports whether every step completed.
func (s *Summary) Succeeded() bool {
	return s.Overall == CompletedOverallStatus
}

func (w *Workflow) buildSummary(order []string, startedAt, finishedAt time.Time, wc Context) *Summary {
	summary := &Summary{
		Workflow:   w.name,
		Steps:      make([]StepReport, 0, len(w.steps)),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Duration:   finishedAt.Sub(startedAt).Seconds(),
		Context:    wc,
	}
	for _, id := range order {
		step := w.index[id]
		report := StepReport{
			ID:     step.ID,
			Title:  step.Title,
			Status: step.Status,
			Error:  step.ErrMsg,
		}
		if step.StartedAt != nil && step.FinishedAt != nil {
			report.Duration = step.FinishedAt.Sub(*step.StartedAt).Seconds()
		}
		summary.Steps = append(summary.Steps, report)

		switch step.Status {
		case CompletedStepStatus:
			summary.Completed++
		case FailedStepStatus:
			summary.Failed++
		case SkippedStepStatus:
			summary.Skipped++
		}
	}

	switch {
	case summary.Completed == len(w.steps):
		summary.Overall = CompletedOverallStatus
	case summary.Completed == 0:
		summary.Overall = FailedOverallStatus
	default:
		summary.Overall = PartialOverallStatus
	}
	return summary
}
