// Package sync serializes read-modify-write cycles on a single record.
package sync

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// KeyedMutex hashes record keys onto a fixed set of mutexes, so updates to
// one listing never wait on updates to an unrelated one unless they collide.
type KeyedMutex struct {
	shards [shardCount]sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the shard owning key and returns its release func.
func (m *KeyedMutex) Lock(key string) (unlock func()) {
	mu := &m.shards[shardFor(key)]
	mu.Lock()
	return mu.Unlock
}

func shardFor(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % shardCount
}
