package service

import (
	"context"
	"testing"

	"github.com/VBRVijay/Event-Management-Web-Application/internal/model"
	"github.com/VBRVijay/Event-Management-Web-Application/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportPartialFailureOnCapacity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	ev := createEvent(t, svc, "One Seat", 1)

	summary, err := svc.ImportAttendees(ctx, ev.ID, []model.ImportRecord{
		{Name: "First", Email: "first@example.com"},
		{Name: "Second", Email: "second@example.com"},
		{Name: "Third", Email: "third@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, model.RowError{Row: 2, Reason: "capacity exceeded"}, summary.Errors[0])
	assert.Equal(t, model.RowError{Row: 3, Reason: "capacity exceeded"}, summary.Errors[1])

	// The winning row stays committed: partial success, not rollback.
	attendees, err := svc.AttendeesByEvent(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, attendees, 1)
	assert.Equal(t, "first@example.com", attendees[0].Email)
}

func TestImportSkipsInvalidRows(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	ev := createEvent(t, svc, "Roomy", 10)

	summary, err := svc.ImportAttendees(ctx, ev.ID, []model.ImportRecord{
		{Name: "", Email: "noname@example.com"},
		{Name: "Bad Email", Email: "not-an-email"},
		{Name: "Good", Email: "good@example.com", Phone: "555-0100"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, 1, summary.Errors[0].Row)
	assert.Equal(t, "name is required", summary.Errors[0].Reason)
	assert.Equal(t, 2, summary.Errors[1].Row)

	attendees, err := svc.AttendeesByEvent(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, attendees, 1)
	assert.Equal(t, "555-0100", attendees[0].Phone)
}

func TestImportValidationDoesNotStopAfterCapacity(t *testing.T) {
	// An invalid row after the capacity is exhausted still counts as failed,
	// not skipped: capacity failure is fail-fast for everything that follows.
	svc := newTestService()
	ctx := context.Background()
	ev := createEvent(t, svc, "Tiny", 1)

	summary, err := svc.ImportAttendees(ctx, ev.ID, []model.ImportRecord{
		{Name: "Winner", Email: "winner@example.com"},
		{Name: "Loser", Email: "loser@example.com"},
		{Name: "", Email: "invalid-after-full"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, "capacity exceeded", summary.Errors[1].Reason)
}

func TestImportDuplicateEmailIsRowError(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	ev := createEvent(t, svc, "Dedup", 10)

	summary, err := svc.ImportAttendees(ctx, ev.ID, []model.ImportRecord{
		{Name: "A", Email: "same@example.com"},
		{Name: "B", Email: "same@example.com"},
		{Name: "C", Email: "other@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 2, summary.Errors[0].Row)
}

func TestImportUnknownEvent(t *testing.T) {
	svc := newTestService()
	_, err := svc.ImportAttendees(context.Background(), "missing", []model.ImportRecord{
		{Name: "A", Email: "a@example.com"},
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestImportEmptyBatch(t *testing.T) {
	svc := newTestService()
	ev := createEvent(t, svc, "Quiet", 5)

	summary, err := svc.ImportAttendees(context.Background(), ev.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, summary.Errors)
}
