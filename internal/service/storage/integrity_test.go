package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksumKnownVector(t *testing.T) {
	require.Equal(t,
		"b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		Checksum([]byte("hello world")))
}

func TestChecksumFileMatchesChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	data := []byte("some thesis content")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	sum, err := ChecksumFile(path)
	require.NoError(t, err)
	require.Equal(t, Checksum(data), sum)
}

func TestVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	data := []byte("some thesis content")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	require.True(t, Verify(path, Checksum(data)))
	require.False(t, Verify(path, Checksum([]byte("other content"))))
	require.False(t, Verify(path, ""))

	// Ошибка ввода-вывода — это провал проверки, а не паника и не ошибка
	require.False(t, Verify(filepath.Join(t.TempDir(), "missing"), Checksum(data)))
}
