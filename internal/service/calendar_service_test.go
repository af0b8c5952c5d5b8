package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/validation"
)

func newCalendarFixture() *CalendarService {
	return NewCalendarService(newFakeCalendarRepo(), newFakeSemesterRepo(schoolSemester()), validation.New(), zap.NewNop())
}

func at(hour int) time.Time {
	return time.Date(2025, 9, 20, hour, 0, 0, 0, time.UTC)
}

func TestCalendarServiceScenarioTimeRangeAndToggle(t *testing.T) {
	svc := newCalendarFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, teacherID, models.CreateCalendarEventRequest{
		Title: "Exam", Start: at(10), End: at(9), SemesterID: schoolSemesterID,
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidTimeRange)

	event, err := svc.Create(ctx, teacherID, models.CreateCalendarEventRequest{
		Title: "Exam", Start: at(10), End: at(12), SemesterID: schoolSemesterID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, event.Priority)
	assert.Equal(t, models.EventTypeTodo, event.Type)
	assert.False(t, event.IsCompleted)

	toggled, err := svc.ToggleComplete(ctx, teacherID, event.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)

	toggled, err = svc.ToggleComplete(ctx, teacherID, event.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsCompleted)
}

func TestCalendarServiceRejectsEmptyAndInvertedRanges(t *testing.T) {
	svc := newCalendarFixture()
	ctx := context.Background()

	cases := []struct {
		name       string
		start, end time.Time
		ok         bool
	}{
		{name: "inverted", start: at(10), end: at(9)},
		{name: "empty", start: at(10), end: at(10)},
		{name: "one minute", start: at(10), end: at(10).Add(time.Minute), ok: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, studentID, models.CreateCalendarEventRequest{
				Title: "Study", Start: tc.start, End: tc.end, SemesterID: schoolSemesterID,
			})
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, appErrors.ErrInvalidTimeRange)
		})
	}
}

func TestCalendarServiceUpdateRevalidatesRange(t *testing.T) {
	svc := newCalendarFixture()
	ctx := context.Background()
	event, err := svc.Create(ctx, teacherID, models.CreateCalendarEventRequest{
		Title: "Meeting", Start: at(10), End: at(11), SemesterID: schoolSemesterID,
	})
	require.NoError(t, err)

	earlier := at(9)
	_, err = svc.Update(ctx, teacherID, event.ID, models.UpdateCalendarEventRequest{End: &earlier})
	assert.ErrorIs(t, err, appErrors.ErrInvalidTimeRange)

	later := at(13)
	title := "Parent meeting"
	updated, err := svc.Update(ctx, teacherID, event.ID, models.UpdateCalendarEventRequest{End: &later, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, later, updated.EndAt)
	assert.Equal(t, "Parent meeting", updated.Title)
}

func TestCalendarServiceOwnershipLooksLikeMissing(t *testing.T) {
	svc := newCalendarFixture()
	ctx := context.Background()
	event, err := svc.Create(ctx, teacherID, models.CreateCalendarEventRequest{
		Title: "Private", Start: at(8), End: at(9), SemesterID: schoolSemesterID,
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, studentID, event.ID)
	assert.ErrorIs(t, err, appErrors.ErrEventNotFound)
	_, err = svc.ToggleComplete(ctx, studentID, event.ID)
	assert.ErrorIs(t, err, appErrors.ErrEventNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, studentID, event.ID), appErrors.ErrEventNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, teacherID, "evt-missing"), appErrors.ErrEventNotFound)

	require.NoError(t, svc.Delete(ctx, teacherID, event.ID))
	_, err = svc.Get(ctx, teacherID, event.ID)
	assert.ErrorIs(t, err, appErrors.ErrEventNotFound)
}

func TestCalendarServiceListIsOwnerScoped(t *testing.T) {
	svc := newCalendarFixture()
	ctx := context.Background()
	for _, owner := range []string{teacherID, teacherID, studentID} {
		_, err := svc.Create(ctx, owner, models.CreateCalendarEventRequest{
			Title: "Item", Start: at(8), End: at(9), SemesterID: schoolSemesterID,
		})
		require.NoError(t, err)
	}

	events, err := svc.List(ctx, teacherID, models.CalendarFilter{SemesterID: schoolSemesterID, OwnerID: studentID})
	require.NoError(t, err)
	assert.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, teacherID, e.CreatedBy)
	}

	_, err = svc.List(ctx, outsiderID, models.CalendarFilter{SemesterID: schoolSemesterID})
	assert.ErrorIs(t, err, appErrors.ErrNotParticipant)

	_, err = svc.Create(ctx, outsiderID, models.CreateCalendarEventRequest{
		Title: "Item", Start: at(8), End: at(9), SemesterID: schoolSemesterID,
	})
	assert.ErrorIs(t, err, appErrors.ErrNotParticipant)
}
