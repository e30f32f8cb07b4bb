package domain

import "time"

// AuditEvent — запись журнала аудита, только добавление.
// Ошибки записи журнала никогда не доходят до вызывающего кода.
type AuditEvent struct {
	ID           int64     `json:"id" db:"id"`
	ActorID      string    `json:"actor_id" db:"actor_id"`
	Action       string    `json:"action" db:"action"`
	ResourceType string    `json:"resource_type" db:"resource_type"`
	ResourceID   string    `json:"resource_id" db:"resource_id"`
	Status       string    `json:"status" db:"status"`
	ErrorMessage *string   `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
