package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Checksum возвращает sha256-дайджест данных в hex
func Checksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ChecksumFile считает sha256-дайджест файла потоково
func ChecksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify пересчитывает дайджест файла и сравнивает с ожидаемым.
// Любая ошибка ввода-вывода трактуется как провал проверки:
// единственное действие вызывающего в обоих случаях — не отдавать файл.
func Verify(path, expected string) bool {
	if expected == "" {
		return false
	}
	actual, err := ChecksumFile(path)
	if err != nil {
		return false
	}
	return actual == expected
}
