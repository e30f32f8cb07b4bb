package storage

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateKeyUniqueUnderConcurrency(t *testing.T) {
	const workers = 64
	const perWorker = 10

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				key := GenerateKey("theses/abc", "report.pdf")
				mu.Lock()
				seen[key] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Одинаковое имя в одну папку — ключи всё равно попарно различны
	require.Len(t, seen, workers*perWorker)
}

func TestGenerateKeyShape(t *testing.T) {
	key := GenerateKey("/theses/42/", "My Thesis (final).pdf")

	require.True(t, strings.HasPrefix(key, "theses/42/"))
	require.True(t, strings.HasSuffix(key, ".pdf"))
	require.NotContains(t, key, " ")
	require.NotContains(t, key, "(")
}

func TestGenerateKeyEmptyName(t *testing.T) {
	key := GenerateKey("docs", "...")
	require.True(t, strings.HasPrefix(key, "docs/document-"))
}
