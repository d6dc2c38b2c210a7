// Package workflow runs a multi-write operation as a list of named steps.
// There is no transaction spanning the steps: a failed required step undoes
// the steps already done, in reverse order, and a failed best-effort step is
// only reported.
package workflow

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Step struct {
	Name string
	Do   func(ctx context.Context) error
	// Undo reverts Do. Steps without Undo are left in place on failure.
	Undo func(ctx context.Context) error
	// BestEffort steps may fail without failing the workflow. Their Warning
	// is returned to the caller instead.
	BestEffort bool
	Warning    string
}

// Result describes what happened to the steps that did not go as planned.
type Result struct {
	Warnings    []string
	Failed      []string
	Compensated []string
}

// Run executes steps in order. It stops at the first failing required step,
// undoes what ran before it and returns that step's error wrapped with its name.
// Undo runs even when ctx is already cancelled or past its deadline.
func Run(ctx context.Context, log zerolog.Logger, steps ...Step) (Result, error) {
	var (
		res  Result
		done []Step
	)
	for _, step := range steps {
		err := step.Do(ctx)
		if err == nil {
			done = append(done, step)
			continue
		}
		res.Failed = append(res.Failed, step.Name)
		if step.BestEffort {
			log.Warn().Err(err).Str("step", step.Name).Msg("best-effort step failed")
			warning := step.Warning
			if warning == "" {
				warning = step.Name + ": " + err.Error()
			}
			res.Warnings = append(res.Warnings, warning)
			continue
		}

		log.Error().Err(err).Str("step", step.Name).Int("completed", len(done)).Msg("step failed, compensating")
		res.Compensated = compensate(context.WithoutCancel(ctx), log, done)
		return res, errors.Wrap(err, step.Name)
	}
	return res, nil
}

func compensate(ctx context.Context, log zerolog.Logger, done []Step) []string {
	var undone []string
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Undo == nil {
			continue
		}
		if err := step.Undo(ctx); err != nil {
			log.Error().Err(err).Str("step", step.Name).Msg("compensation failed")
			continue
		}
		undone = append(undone, step.Name)
	}
	return undone
}
