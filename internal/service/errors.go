package service

import (
	"errors"
	"fmt"

	"thesisvault/internal/domain"
)

var (
	ErrFileTooLarge = errors.New("file size exceeds maximum allowed size")
	ErrInvalidFile  = errors.New("invalid file")
	ErrAccessDenied = errors.New("access denied")
)

// NotFoundError — по ключу документа не нашлось байтов.
// Reason объясняет оператору, с чем он имеет дело: эфемерное хранилище,
// стёртое при редеплое, или документ, который так и не перезалили.
type NotFoundError struct {
	Key    string
	Reason string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document content not found for key %s: %s", e.Key, e.Reason)
}

// IntegrityError — байты на месте, но дайджест не совпал с записанным.
// Всегда жёсткий стоп: такой файл не отдаётся никогда.
type IntegrityError struct {
	Path     string
	Expected string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("document at %s failed integrity verification (expected sha256 %s)", e.Path, e.Expected)
}

// InvalidTransitionError — запрошенный переход статуса нарушает правила
// конвейера. Возвращается синхронно; переход не применяется даже частично.
type InvalidTransitionError struct {
	From   domain.ThesisStatus
	To     domain.ThesisStatus
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s: %s", e.From, e.To, e.Reason)
}
