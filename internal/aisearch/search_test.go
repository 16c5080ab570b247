package aisearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchZeroEligibleDocuments(t *testing.T) {
	e := testEngine(&fakeClient{})

	var events []ProgressEvent
	summary, err := e.Search(context.Background(), nil, func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, ZeroEligibleDiagnostic, summary.Diagnostic,
		"zero-result runs must be distinguishable from successful runs")

	require.Len(t, events, 2)
	assert.Equal(t, EventPending, events[0].Type)
	assert.Equal(t, EventCompleted, events[1].Type)
	assert.Equal(t, ZeroEligibleDiagnostic, events[1].Message)
}

func TestSearchIsolatesPerDocumentFailure(t *testing.T) {
	client := &fakeClient{
		response: `{"date":"15-Aug-1947","confidence":0.9,"rationale":"found"}`,
		failFor:  "Poison Act",
	}
	e := testEngine(client)

	docs := []Document{
		{ID: "d1", StatuteName: "Stamp Act", SectionsSample: longSample("a")},
		{ID: "d2", StatuteName: "Poison Act", SectionsSample: longSample("b")},
		{ID: "d3", StatuteName: "Limitation Act", SectionsSample: longSample("c")},
	}

	var events []ProgressEvent
	summary, err := e.Search(context.Background(), docs, func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.Found)
	assert.Equal(t, 1, summary.Errored)
	require.Len(t, summary.Results, 3)

	var errorEvents, processingEvents, completedEvents int
	for _, ev := range events {
		switch ev.Type {
		case EventError:
			errorEvents++
			assert.Equal(t, "d2", ev.DocumentID)
		case EventProcessing:
			processingEvents++
		case EventCompleted:
			completedEvents++
		}
	}
	assert.Equal(t, 1, errorEvents)
	assert.Equal(t, 2, processingEvents)
	assert.Equal(t, 1, completedEvents, "one bad document must not abort the run")
}

func TestSearchProgressIsMonotonic(t *testing.T) {
	client := &fakeClient{response: `{"date":null,"confidence":0.2,"rationale":"none"}`}
	e := testEngine(client)

	docs := []Document{
		{ID: "d1", SectionsSample: longSample("a")},
		{ID: "d2", SectionsSample: longSample("b")},
		{ID: "d3", SectionsSample: longSample("c")},
	}

	last := -1
	summary, err := e.Search(context.Background(), docs, func(ev ProgressEvent) {
		require.GreaterOrEqual(t, ev.Processed, last)
		last = ev.Processed
	})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Processed)
	assert.InDelta(t, 100.0, percent(summary.Processed, summary.Total), 1e-9)
}

func TestSearchHonorsCancellationBetweenDocuments(t *testing.T) {
	client := &fakeClient{response: `{"date":null,"confidence":0.2,"rationale":"none"}`}
	e := testEngine(client)

	ctx, cancel := context.WithCancel(context.Background())

	docs := []Document{
		{ID: "d1", SectionsSample: longSample("a")},
		{ID: "d2", SectionsSample: longSample("b")},
	}

	processed := 0
	summary, err := e.Search(ctx, docs, func(ev ProgressEvent) {
		if ev.Type == EventProcessing {
			processed++
			cancel()
		}
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, summary.Processed, "in-flight document completes, then cancellation is honored")
}

func TestSearchCountsShortSamplesAsSkipped(t *testing.T) {
	e := testEngine(&fakeClient{})

	docs := []Document{{ID: "d1", SectionsSample: "too short"}}
	summary, err := e.Search(context.Background(), docs, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Errored)
}
