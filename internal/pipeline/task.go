package pipeline

import (
	"context"
	"sync"

	"github.com/jonathan/statute-enricher/internal/types"
)

// Task is a cancellable orchestrator run with a poll-able status and a stream
// of progress events. Cancellation is checked between document-level units of
// work: the in-flight document completes before the run stops.
type Task struct {
	cancel context.CancelFunc
	events chan ProgressEvent
	done   chan struct{}

	mu     sync.Mutex
	job    *types.EnrichmentJob
	status string
	err    error
}

// eventBuffer bounds the progress stream; a lagging consumer loses events
// rather than stalling document processing.
const eventBuffer = 256

// Start launches an orchestrator run in the background and returns the task
// handle. The run's OnProgress callback is preserved if set.
func Start(ctx context.Context, o *Orchestrator, opts RunOptions) *Task {
	runCtx, cancel := context.WithCancel(ctx)
	t := &Task{
		cancel: cancel,
		events: make(chan ProgressEvent, eventBuffer),
		done:   make(chan struct{}),
		job:    &types.EnrichmentJob{Status: types.JobStatusQueued, Mode: opts.Mode, DryRun: opts.DryRun},
		status: types.JobStatusQueued,
	}

	userCallback := opts.OnProgress
	opts.OnProgress = func(ev ProgressEvent) {
		t.mu.Lock()
		t.status = types.JobStatusRunning
		t.mu.Unlock()
		select {
		case t.events <- ev:
		default:
		}
		if userCallback != nil {
			userCallback(ev)
		}
	}

	go func() {
		defer close(t.done)
		defer close(t.events)
		job, err := o.Run(runCtx, opts)
		t.mu.Lock()
		if job != nil {
			t.job = job
		} else {
			t.job.Status = types.JobStatusFailed
		}
		t.status = t.job.Status
		t.err = err
		t.mu.Unlock()
	}()

	return t
}

// Events returns the progress stream; it is closed when the run finishes.
func (t *Task) Events() <-chan ProgressEvent {
	return t.events
}

// Done is closed when the run has finished, successfully or not.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel requests the run stop after the in-flight document completes.
func (t *Task) Cancel() {
	t.cancel()
}

// Err returns the fatal error of a finished run, or nil.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Job returns a snapshot of the job record.
func (t *Task) Job() types.EnrichmentJob {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.job
}

// Status returns the run's current status.
func (t *Task) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}
