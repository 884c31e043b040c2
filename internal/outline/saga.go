package outline

import (
	"context"
	"errors"
	"fmt"

	"courseforge/internal/logging"
)

// sagaStep is one remote call in a multi-call mutation, with the call that
// undoes it. Two-phase mutations (task move today, more as the engine grows)
// run through runSaga instead of carrying ad hoc compensation logic.
type sagaStep struct {
	name       string
	run        func(context.Context) error
	compensate func(context.Context) error
}

// runSaga executes steps in order. When a step fails, every already-completed
// step is compensated in reverse order and the step's error is returned.
// Compensation failures are joined onto it: the caller's local rollback still
// applies, but the remote side may need the logged detail.
func runSaga(ctx context.Context, log *logging.Logger, name string, steps []sagaStep) error {
	for i, step := range steps {
		err := step.run(ctx)
		if err == nil {
			continue
		}
		failure := fmt.Errorf("%s: step %s: %w", name, step.name, err)
		for j := i - 1; j >= 0; j-- {
			if steps[j].compensate == nil {
				continue
			}
			if cerr := steps[j].compensate(ctx); cerr != nil {
				log.Error("saga compensation failed",
					"saga", name, "step", steps[j].name, "error", cerr)
				failure = errors.Join(failure, fmt.Errorf("compensate %s: %w", steps[j].name, cerr))
			}
		}
		return failure
	}
	return nil
}
