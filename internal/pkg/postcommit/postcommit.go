// Package postcommit runs best-effort steps after a transaction has committed.
// A failing step is logged and reported; it never undoes the committed change and
// never stops the remaining steps.
package postcommit

import (
	"context"
	"fmt"
	"log/slog"
)

type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

type Failure struct {
	Step  string `json:"step"`
	Error string `json:"error"`
}

// Report lists failed steps. An empty report means every step succeeded.
type Report []Failure

func (r Report) OK() bool {
	return len(r) == 0
}

// Run executes steps in order. Steps run detached from the caller's cancellation so a
// disconnecting client cannot leave the ledger half-posted.
func Run(ctx context.Context, steps ...Step) Report {
	ctx = context.WithoutCancel(ctx)
	report := Report{}

	for _, step := range steps {
		if err := runStep(ctx, step); err != nil {
			slog.ErrorContext(ctx, "post-commit step failed", "step", step.Name, "error", err)
			report = append(report, Failure{Step: step.Name, Error: err.Error()})
		}
	}
	return report
}

func runStep(ctx context.Context, step Step) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return step.Run(ctx)
}
