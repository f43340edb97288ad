package deduper

import (
	"hash/fnv"
	"sync"
)

// Deduper remembers identity keys it has seen.
type Deduper interface {
	// AddIfNotExists records key and reports true the first time it is seen.
	AddIfNotExists(key string) bool
}

func New() Deduper {
	return &hashmap{
		seen: make(map[uint64]struct{}),
	}
}

var _ Deduper = (*hashmap)(nil)

type hashmap struct {
	mux  sync.Mutex
	seen map[uint64]struct{}
}

func (d *hashmap) AddIfNotExists(key string) bool {
	h := hash(key)

	d.mux.Lock()
	defer d.mux.Unlock()

	if _, ok := d.seen[h]; ok {
		return false
	}

	d.seen[h] = struct{}{}

	return true
}

func hash(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))

	return h.Sum64()
}
