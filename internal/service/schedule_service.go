package service

import (
	"context"
	"time"

	"thesisvault/internal/domain"
)

// EventStore — операции над событиями календаря
type EventStore interface {
	Create(ctx context.Context, event *domain.CalendarEvent) error
	Update(ctx context.Context, event *domain.CalendarEvent) error
	GetByID(ctx context.Context, id int64) (*domain.CalendarEvent, error)
	ListScheduledByDepartment(ctx context.Context, department string) ([]domain.CalendarEvent, error)
}

// ScheduleService — детектор пересечений интервалов для календаря кафедры.
// Пересечения носят рекомендательный характер: создание и обновление всегда
// выполняются, а список конфликтов возвращается рядом с результатом, чтобы
// вызывающий мог предупредить пользователя. Легитимных одновременных
// административных событий много, поэтому жёсткой блокировки нет.
type ScheduleService struct {
	events EventStore
}

func NewScheduleService(events EventStore) *ScheduleService {
	return &ScheduleService{events: events}
}

// FindOverlaps возвращает запланированные события той же кафедры,
// пересекающиеся с кандидатом. excludeID > 0 исключает само событие
// при обновлении.
func (s *ScheduleService) FindOverlaps(
	ctx context.Context,
	candidate domain.CalendarEvent,
	excludeID int64,
) ([]domain.CalendarEvent, error) {
	existing, err := s.events.ListScheduledByDepartment(ctx, candidate.Department)
	if err != nil {
		return nil, err
	}

	var conflicts []domain.CalendarEvent
	for _, ev := range existing {
		if excludeID > 0 && ev.ID == excludeID {
			continue
		}
		if eventsOverlap(candidate, ev) {
			conflicts = append(conflicts, ev)
		}
	}
	return conflicts, nil
}

// CreateEvent сохраняет событие и возвращает список конфликтов рядом с ним
func (s *ScheduleService) CreateEvent(
	ctx context.Context,
	event *domain.CalendarEvent,
) (*domain.CalendarEvent, []domain.CalendarEvent, error) {
	if event.Status == "" {
		event.Status = domain.EventStatusScheduled
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, nil, err
	}

	conflicts, err := s.FindOverlaps(ctx, *event, event.ID)
	if err != nil {
		return event, nil, nil // событие создано; конфликты не выяснили — не срываем ответ
	}
	return event, conflicts, nil
}

// UpdateEvent обновляет событие, так же сообщая о конфликтах
func (s *ScheduleService) UpdateEvent(
	ctx context.Context,
	event *domain.CalendarEvent,
) (*domain.CalendarEvent, []domain.CalendarEvent, error) {
	if err := s.events.Update(ctx, event); err != nil {
		return nil, nil, err
	}

	conflicts, err := s.FindOverlaps(ctx, *event, event.ID)
	if err != nil {
		return event, nil, nil
	}
	return event, conflicts, nil
}

// eventsOverlap проверяет пересечение полуоткрытых интервалов [start, end).
// Событие без конца — точка нулевой длительности: она конфликтует с любым
// интервалом, содержащим её.
func eventsOverlap(a, b domain.CalendarEvent) bool {
	aStart, aEnd := interval(a)
	bStart, bEnd := interval(b)

	if aStart.Equal(aEnd) {
		return !bStart.After(aStart) && aStart.Before(bEnd)
	}
	if bStart.Equal(bEnd) {
		return !aStart.After(bStart) && bStart.Before(aEnd)
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func interval(ev domain.CalendarEvent) (time.Time, time.Time) {
	if ev.EndTime == nil {
		return ev.StartTime, ev.StartTime
	}
	return ev.StartTime, *ev.EndTime
}
