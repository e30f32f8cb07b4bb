package storage

import (
	"errors"
	"fmt"
)

// ErrUnconfigured — у активного бэкенда отсутствуют учётные данные.
// Для всех бэкендов, кроме supabase, это фатально для операции загрузки.
var ErrUnconfigured = errors.New("storage backend is not configured")

// BackendError — временная ошибка провайдера или сети.
// Backend и Stage дают оператору достаточно деталей для самодиагностики,
// не раскрывая учётных данных.
type BackendError struct {
	Backend string
	Stage   string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("storage backend %s failed at %s: %v", e.Backend, e.Stage, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func newBackendError(backend, stage string, err error) *BackendError {
	return &BackendError{Backend: backend, Stage: stage, Err: err}
}
