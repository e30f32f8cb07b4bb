package domain

import "time"

// EventStatus — статус события календаря
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
)

// CalendarEvent — событие в расписании кафедры.
// Поиск пересечений выполняется только среди событий одной кафедры
// со статусом scheduled.
type CalendarEvent struct {
	ID         int64       `json:"id" db:"id"`
	Title      string      `json:"title" db:"title"`
	Department string      `json:"department" db:"department"`
	StartTime  time.Time   `json:"start_time" db:"start_time"`
	EndTime    *time.Time  `json:"end_time,omitempty" db:"end_time"` // nil — точечное событие
	Status     EventStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}
