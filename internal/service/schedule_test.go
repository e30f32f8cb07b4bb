package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"thesisvault/internal/domain"
)

func eventAt(dept string, start, end string) domain.CalendarEvent {
	day := "2026-06-15T"
	s, _ := time.Parse(time.RFC3339, day+start+":00Z")
	ev := domain.CalendarEvent{
		Title:      "Защита",
		Department: dept,
		StartTime:  s,
		Status:     domain.EventStatusScheduled,
	}
	if end != "" {
		e, _ := time.Parse(time.RFC3339, day+end+":00Z")
		ev.EndTime = &e
	}
	return ev
}

func TestOverlappingSameDepartmentConflicts(t *testing.T) {
	store := newFakeEventStore()
	svc := NewScheduleService(store)
	ctx := context.Background()

	first := eventAt("CS", "09:00", "11:00")
	_, conflicts, err := svc.CreateEvent(ctx, &first)
	require.NoError(t, err)
	require.Empty(t, conflicts)

	second := eventAt("CS", "10:00", "12:00")
	created, conflicts, err := svc.CreateEvent(ctx, &second)
	require.NoError(t, err)

	// Событие создаётся несмотря на конфликт
	require.NotZero(t, created.ID)
	require.Len(t, conflicts, 1)
	require.Equal(t, first.ID, conflicts[0].ID)
}

func TestSameTimeDifferentDepartmentNoConflict(t *testing.T) {
	store := newFakeEventStore()
	svc := NewScheduleService(store)
	ctx := context.Background()

	cs := eventAt("CS", "09:00", "11:00")
	_, _, err := svc.CreateEvent(ctx, &cs)
	require.NoError(t, err)

	it := eventAt("IT", "09:00", "11:00")
	_, conflicts, err := svc.CreateEvent(ctx, &it)
	require.NoError(t, err)
	require.Empty(t, conflicts)
}

func TestAdjacentIntervalsDoNotConflict(t *testing.T) {
	store := newFakeEventStore()
	svc := NewScheduleService(store)
	ctx := context.Background()

	morning := eventAt("CS", "09:00", "11:00")
	_, _, err := svc.CreateEvent(ctx, &morning)
	require.NoError(t, err)

	// Полуоткрытые интервалы: конец одного равен началу другого
	noon := eventAt("CS", "11:00", "13:00")
	_, conflicts, err := svc.CreateEvent(ctx, &noon)
	require.NoError(t, err)
	require.Empty(t, conflicts)
}

func TestPointEventInsideIntervalConflicts(t *testing.T) {
	store := newFakeEventStore()
	svc := NewScheduleService(store)
	ctx := context.Background()

	interval := eventAt("CS", "09:00", "11:00")
	_, _, err := svc.CreateEvent(ctx, &interval)
	require.NoError(t, err)

	// Событие без конца — точка в 10:30 внутри интервала
	point := eventAt("CS", "10:30", "")
	_, conflicts, err := svc.CreateEvent(ctx, &point)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
}

func TestPointEventAtIntervalEndNoConflict(t *testing.T) {
	store := newFakeEventStore()
	svc := NewScheduleService(store)
	ctx := context.Background()

	interval := eventAt("CS", "09:00", "11:00")
	_, _, err := svc.CreateEvent(ctx, &interval)
	require.NoError(t, err)

	point := eventAt("CS", "11:00", "")
	_, conflicts, err := svc.CreateEvent(ctx, &point)
	require.NoError(t, err)
	require.Empty(t, conflicts)
}

func TestCancelledEventsIgnored(t *testing.T) {
	store := newFakeEventStore()
	svc := NewScheduleService(store)
	ctx := context.Background()

	cancelled := eventAt("CS", "09:00", "11:00")
	cancelled.Status = domain.EventStatusCancelled
	require.NoError(t, store.Create(ctx, &cancelled))

	candidate := eventAt("CS", "10:00", "12:00")
	conflicts, err := svc.FindOverlaps(ctx, candidate, 0)
	require.NoError(t, err)
	require.Empty(t, conflicts)
}

func TestUpdateExcludesSelfFromConflicts(t *testing.T) {
	store := newFakeEventStore()
	svc := NewScheduleService(store)
	ctx := context.Background()

	ev := eventAt("CS", "09:00", "11:00")
	_, _, err := svc.CreateEvent(ctx, &ev)
	require.NoError(t, err)

	// Сдвигаем то же событие — само с собой оно не конфликтует
	shifted := eventAt("CS", "09:30", "11:30")
	shifted.ID = ev.ID
	_, conflicts, err := svc.UpdateEvent(ctx, &shifted)
	require.NoError(t, err)
	require.Empty(t, conflicts)
}

func TestCreateNeverBlockedByConflicts(t *testing.T) {
	store := newFakeEventStore()
	svc := NewScheduleService(store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ev := eventAt("CS", "09:00", "11:00")
		created, _, err := svc.CreateEvent(ctx, &ev)
		require.NoError(t, err)
		require.NotZero(t, created.ID)
	}

	events, err := store.ListScheduledByDepartment(ctx, "CS")
	require.NoError(t, err)
	require.Len(t, events, 5)
}
