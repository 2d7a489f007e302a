package sync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SameKeySerializes(t *testing.T) {
	m := NewKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("listing-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, counter)
}

func TestKeyedMutex_ReleaseAllowsRelock(t *testing.T) {
	m := NewKeyedMutex()

	unlock := m.Lock("listing-1")
	unlock()
	unlock = m.Lock("listing-1")
	unlock()

	unlock = m.Lock("")
	unlock()
}

func TestShardFor_StableAndBounded(t *testing.T) {
	for _, key := range []string{"", "a", "listing-1", "5f0c3c1e-8d43-4f55-9d8e-3d2a1b0c9f7e"} {
		assert.Equal(t, shardFor(key), shardFor(key))
		assert.Less(t, shardFor(key), uint32(shardCount))
	}
}
