package domain

import (
	"time"

	"github.com/google/uuid"
)

// LocationKind определяет, где физически находится содержимое документа
type LocationKind string

const (
	// LocationLocal — файл лежит под управляемым локальным корнем,
	// storage_key хранит относительный путь
	LocationLocal LocationKind = "local"
	// LocationRemoteURL — содержимое у внешнего провайдера,
	// storage_key разрешается в URL без локального ввода-вывода
	LocationRemoteURL LocationKind = "remote_url"
)

// DocumentKind — роль документа внутри дипломной работы
type DocumentKind string

const (
	DocumentKindMain          DocumentKind = "main"
	DocumentKindSupplementary DocumentKind = "supplementary"
)

// DocumentRecord представляет один сохранённый артефакт.
// Запись принадлежит ровно одной дипломной работе и при повторной
// загрузке заменяется новой записью, а не мутируется.
type DocumentRecord struct {
	UUID          uuid.UUID    `json:"uuid" db:"uuid"`
	ThesisID      uuid.UUID    `json:"thesis_id" db:"thesis_id"`
	StorageKey    string       `json:"storage_key" db:"storage_key"`
	OriginalName  string       `json:"original_name" db:"original_name"`
	MIMEType      string       `json:"mime_type" db:"mime_type"`
	SizeBytes     int64        `json:"size_bytes" db:"size_bytes"`
	LocationKind  LocationKind `json:"location_kind" db:"location_kind"`
	Checksum      *string      `json:"checksum,omitempty" db:"checksum"` // sha256 hex, только для локального бэкенда
	Kind          DocumentKind `json:"kind" db:"kind"`
	ViewCount     int64        `json:"view_count" db:"view_count"`
	DownloadCount int64        `json:"download_count" db:"download_count"`
	UploadedAt    time.Time    `json:"uploaded_at" db:"uploaded_at"`
}
