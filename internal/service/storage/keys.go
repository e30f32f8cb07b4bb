package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// GenerateKey строит глобально уникальный ключ объекта:
// очищенное имя файла + отметка времени + случайный суффикс.
// Случайная часть гарантирует уникальность при одновременных загрузках
// одного и того же имени в одну папку.
func GenerateKey(folder, originalName string) string {
	ext := filepath.Ext(originalName)
	base := sanitizeName(strings.TrimSuffix(filepath.Base(originalName), ext))
	if base == "" {
		base = "document"
	}

	suffix := make([]byte, 6)
	rand.Read(suffix)

	name := fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixMilli(), hex.EncodeToString(suffix), ext)
	return path.Join(strings.Trim(folder, "/"), name)
}

// sanitizeName оставляет в имени только безопасные для ключа символы
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
