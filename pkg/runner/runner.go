package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Runner sanitizes the files of a run through a Pipeline.
type Runner struct {
	Pipeline *Pipeline

	// OnFile, when set, is called after each file completes. Calls may
	// come from several goroutines at once.
	OnFile func(FileOutcome)
}

// New creates a Runner.
func New(pipeline *Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files and processes each on its own goroutine, at most
// opts.Jobs at a time. Outcomes are returned in path order. A per-file
// error is recorded in its outcome and does not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(ctx, files, opts)
}

// RunFiles processes an explicit file list without discovery.
func (r *Runner) RunFiles(ctx context.Context, files []string, opts Options) (*Result, error) {
	result := newResult(len(files))
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	var group errgroup.Group
	group.SetLimit(jobs)
	for idx, path := range files {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcome := r.processOne(ctx, path, opts.Pipeline)
			outcomes[idx] = outcome
			done[idx] = true
			if r.OnFile != nil {
				r.OnFile(outcome)
			}
			return nil
		})
	}
	_ = group.Wait()

	for idx, outcome := range outcomes {
		if done[idx] {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) processOne(ctx context.Context, path string, opts PipelineOptions) FileOutcome {
	outcome := FileOutcome{Path: path}
	fr, err := r.Pipeline.ProcessFile(ctx, path, opts)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Result = fr
	return outcome
}
