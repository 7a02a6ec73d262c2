package pipeline

import (
	"context"
	"strings"

	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

// Collect waits for every task and returns their outcomes in dispatch order.
func Collect(ctx context.Context, tasks []*Task) []domain.PageOutcome {
	return collect(ctx, tasks, nil)
}

// collect is Collect with a callback observing each outcome as it is
// gathered.
func collect(ctx context.Context, tasks []*Task, observe func(domain.PageOutcome)) []domain.PageOutcome {
	outcomes := make([]domain.PageOutcome, len(tasks))
	for i, t := range tasks {
		outcomes[i] = t.Outcome(ctx)
		if observe != nil {
			observe(outcomes[i])
		}
	}
	return outcomes
}

// Join waits for every task and concatenates the successful translations in
// dispatch order. Failed pages contribute nothing.
func Join(ctx context.Context, tasks []*Task) string {
	return concat(Collect(ctx, tasks))
}

func concat(outcomes []domain.PageOutcome) string {
	var sb strings.Builder
	for _, o := range outcomes {
		if o.Succeeded() {
			sb.WriteString(o.Text)
		}
	}
	return sb.String()
}
