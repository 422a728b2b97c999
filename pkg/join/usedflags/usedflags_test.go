package usedflags

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlag_SetUsed(t *testing.T) {
	var f Flag
	require.False(t, f.IsUsed())
	f.SetUsed()
	require.True(t, f.IsUsed())
}

func TestFlag_SetUsedOnce_SingleWinner(t *testing.T) {
	var f Flag
	const n = 32
	var wins int32
	var wg sync.WaitGroup
	wg.Add(n)
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if f.SetUsedOnce() {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), wins)
	require.True(t, f.IsUsed())
}
