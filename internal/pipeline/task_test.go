package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/statute-enricher/internal/types"
)

func TestTaskCompletes(t *testing.T) {
	store := newMemStore()
	store.put("batch_1", "d1", docWithLegacyDates("01-Jan-2020", ""))
	store.put("batch_1", "d2", docWithLegacyDates("02-Feb-2020", ""))

	o := &Orchestrator{Store: store}
	task := Start(context.Background(), o, RunOptions{Mode: types.ModeSingle, Batch: "batch_1"})

	var events []ProgressEvent
	for ev := range task.Events() {
		events = append(events, ev)
	}

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish")
	}

	require.NoError(t, task.Err())
	assert.Equal(t, types.JobStatusCompleted, task.Status())
	assert.Equal(t, 2, task.Job().Processed)
	require.NotEmpty(t, events)
	assert.Equal(t, StageCompleted, events[len(events)-1].Stage)
}

func TestTaskCancelStopsBetweenDocuments(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 50; i++ {
		store.put("batch_1", fmt.Sprintf("d%02d", i), docWithLegacyDates("01-Jan-2020", ""))
	}

	started := make(chan struct{})
	cancelled := false
	var task *Task

	o := &Orchestrator{Store: store}
	opts := RunOptions{
		Mode: types.ModeSingle, Batch: "batch_1",
		OnProgress: func(ev ProgressEvent) {
			if ev.Stage == StageDocument && !cancelled {
				cancelled = true
				<-started
				task.Cancel()
			}
		},
	}
	task = Start(context.Background(), o, opts)
	close(started)

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled task did not finish")
	}

	require.Error(t, task.Err())
	assert.ErrorIs(t, task.Err(), context.Canceled)
	assert.Equal(t, types.JobStatusFailed, task.Status())
	job := task.Job()
	assert.Less(t, job.Processed, 50, "cancellation stops before the batch completes")
	assert.GreaterOrEqual(t, job.Processed, 1, "the in-flight document completes first")
}

func TestTaskStatusTransitions(t *testing.T) {
	store := newMemStore()
	store.put("batch_1", "d1", docWithLegacyDates("01-Jan-2020", ""))

	o := &Orchestrator{Store: store}
	task := Start(context.Background(), o, RunOptions{Mode: types.ModeSingle, Batch: "batch_1"})

	<-task.Done()
	assert.Equal(t, types.JobStatusCompleted, task.Status())
	assert.Equal(t, types.ModeSingle, task.Job().Mode)
}

func TestTaskFailedRunSurfacesError(t *testing.T) {
	o := &Orchestrator{Store: newMemStore()}
	task := Start(context.Background(), o, RunOptions{Mode: "bogus"})

	<-task.Done()
	require.Error(t, task.Err())
	assert.Equal(t, types.JobStatusFailed, task.Status())
}
