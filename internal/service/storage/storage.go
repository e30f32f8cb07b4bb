// storage.go
package storage

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"thesisvault/internal/domain"
)

// UploadInput описывает принятый на загрузку файл.
// Содержимое уже записано обработчиком во временный staging-файл.
type UploadInput struct {
	OriginalName string
	MIMEType     string
	SizeBytes    int64
	StagingPath  string
}

// Backend определяет единый контракт хранилища документов.
// Активный бэкенд выбирается один раз при старте процесса и после этого
// не меняется, поэтому реализации безопасно разделяются между запросами.
type Backend interface {
	// Name возвращает имя бэкенда для логов и диагностики
	Name() string
	// Upload сохраняет содержимое staging-файла и возвращает запись документа
	// с уникальным ключом. Удалённые бэкенды после подтверждённой записи
	// удаляют staging-файл; его потеря логируется, но не срывает загрузку.
	Upload(ctx context.Context, in UploadInput, folder string) (*domain.DocumentRecord, error)
	// Delete удаляет объект по ключу. Возвращает false без ошибки,
	// если объекта уже нет — повторные попытки очистки безопасны.
	Delete(ctx context.Context, storageKey string) (bool, error)
	// ResolveURL строит URL по ключу без сетевых обращений.
	// Пустая строка означает, что прямого URL у бэкенда нет.
	ResolveURL(storageKey string) string
}

// removeStaging убирает временный файл после подтверждённой удалённой записи.
// Авторитетная копия уже существует, поэтому неудача только логируется.
func removeStaging(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove staging file after upload")
	}
}
