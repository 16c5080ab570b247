package review

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/statute-enricher/internal/types"
)

func strptr(s string) *string { return &s }

func TestExportAndReadRoundTrip(t *testing.T) {
	results := []types.AIExtractionResult{
		{
			DocumentID:    "d1",
			StatuteName:   "Stamp Act",
			Batch:         "batch_1",
			ExtractedDate: strptr("15-Aug-1947"),
			Confidence:    0.9,
			Method:        types.ExtractionMethodAI,
			Rationale:     "dated the 15th August, 1947",
		},
		{
			DocumentID:  "d2",
			StatuteName: "Poison Act",
			Batch:       "batch_1",
			Error:       strptr("simulated failure"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, results))

	rows, err := ReadRows(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "d1", rows[0].DocumentID)
	assert.Equal(t, "15-Aug-1947", rows[0].ExtractedDate)
	assert.Equal(t, StatusPending, rows[0].ReviewStatus)

	assert.Equal(t, "d2", rows[1].DocumentID)
	assert.Empty(t, rows[1].ExtractedDate)
	assert.Equal(t, StatusRejected, rows[1].ReviewStatus)
	assert.Contains(t, rows[1].Rationale, "simulated failure")
}

func TestReadRowsNormalizesHandEditedHeaders(t *testing.T) {
	csvText := "Statute Name, document id ,Extracted Date,Review Status\n" +
		"Stamp Act,d1,15-Aug-1947,Approved\n"

	rows, err := ReadRows(strings.NewReader(csvText))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Stamp Act", rows[0].StatuteName)
	assert.Equal(t, "d1", rows[0].DocumentID)
	assert.Equal(t, "approved", rows[0].ReviewStatus)
}

func TestReadRowsMissingRequiredColumn(t *testing.T) {
	csvText := "Statute_Name,Extracted_Date\nStamp Act,15-Aug-1947\n"
	_, err := ReadRows(strings.NewReader(csvText))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document_id")
}

// recordingUpdater records applied updates and optionally fails for one ID.
type recordingUpdater struct {
	applied map[string]string // documentID -> date
	failFor string
}

func (u *recordingUpdater) UpdateDocumentDate(_ context.Context, batch, id, date string) error {
	if id == u.failFor {
		return fmt.Errorf("store unavailable")
	}
	if u.applied == nil {
		u.applied = make(map[string]string)
	}
	u.applied[batch+"/"+id] = date
	return nil
}

func TestApplyApprovedFiltersByStatus(t *testing.T) {
	rows := []Row{
		{DocumentID: "d1", Batch: "batch_1", ExtractedDate: "15-Aug-1947", ReviewStatus: StatusApproved},
		{DocumentID: "d2", Batch: "batch_1", ExtractedDate: "01-Jan-1900", ReviewStatus: StatusRejected},
		{DocumentID: "d3", Batch: "batch_2", ExtractedDate: "23-Mar-1973", ReviewStatus: StatusPending},
	}

	updater := &recordingUpdater{}
	report, err := ApplyApproved(context.Background(), updater, rows)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, map[string]string{"batch_1/d1": "15-Aug-1947"}, updater.applied)
}

func TestApplyApprovedRejectsInvalidDates(t *testing.T) {
	rows := []Row{
		{DocumentID: "d1", Batch: "b", ExtractedDate: "not a date", ReviewStatus: StatusApproved},
	}

	updater := &recordingUpdater{}
	report, err := ApplyApproved(context.Background(), updater, rows)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Applied)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "invalid approved date")
	assert.Empty(t, updater.applied)
}

func TestApplyApprovedContinuesPastUpdateFailure(t *testing.T) {
	rows := []Row{
		{DocumentID: "d1", Batch: "b", ExtractedDate: "15-Aug-1947", ReviewStatus: StatusApproved},
		{DocumentID: "d2", Batch: "b", ExtractedDate: "23-Mar-1973", ReviewStatus: StatusApproved},
	}

	updater := &recordingUpdater{failFor: "d1"}
	report, err := ApplyApproved(context.Background(), updater, rows)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Applied)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "d1")
}
