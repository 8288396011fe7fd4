package replay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "0x1111111111111111111111111111111111111111111111111111111111111111"

func TestMemoryGuardCheckAndInsert(t *testing.T) {
	g := NewMemoryGuard()

	seen, err := g.Has(testHash)
	require.NoError(t, err)
	assert.False(t, seen)

	inserted, err := g.CheckAndInsert(testHash)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = g.CheckAndInsert(testHash)
	require.NoError(t, err)
	assert.False(t, inserted)

	seen, err = g.Has(testHash)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestMemoryGuardCaseInsensitive(t *testing.T) {
	g := NewMemoryGuard()

	_, err := g.CheckAndInsert("0xABCDEF1111111111111111111111111111111111111111111111111111111111")
	require.NoError(t, err)

	seen, err := g.Has("0xabcdef1111111111111111111111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestMemoryGuardClear(t *testing.T) {
	g := NewMemoryGuard()

	_, err := g.CheckAndInsert(testHash)
	require.NoError(t, err)
	require.NoError(t, g.Clear(testHash))

	inserted, err := g.CheckAndInsert(testHash)
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestMemoryGuardConcurrentSingleWinner(t *testing.T) {
	g := NewMemoryGuard()

	const workers = 32
	var wg sync.WaitGroup
	wins := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := g.CheckAndInsert(testHash)
			assert.NoError(t, err)
			wins <- inserted
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for inserted := range wins {
		if inserted {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestLevelGuardPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	g, err := NewLevelGuard(dir)
	require.NoError(t, err)

	inserted, err := g.CheckAndInsert(testHash)
	require.NoError(t, err)
	require.True(t, inserted)
	require.NoError(t, g.Close())

	g, err = NewLevelGuard(dir)
	require.NoError(t, err)
	defer g.Close()

	seen, err := g.Has(testHash)
	require.NoError(t, err)
	assert.True(t, seen)

	inserted, err = g.CheckAndInsert(testHash)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestLevelGuardClear(t *testing.T) {
	g, err := NewLevelGuard(t.TempDir())
	require.NoError(t, err)
	defer g.Close()

	_, err = g.CheckAndInsert(testHash)
	require.NoError(t, err)
	require.NoError(t, g.Clear(testHash))

	seen, err := g.Has(testHash)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestLevelGuardDistinctHashes(t *testing.T) {
	g, err := NewLevelGuard(t.TempDir())
	require.NoError(t, err)
	defer g.Close()

	for i := 0; i < 10; i++ {
		hash := fmt.Sprintf("0x%064x", i)
		inserted, err := g.CheckAndInsert(hash)
		require.NoError(t, err)
		assert.True(t, inserted, "hash %s", hash)
	}
}
