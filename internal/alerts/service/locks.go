package service

import "sync"

// keyedMutex serializes work per key. Inbound commands and signups for the
// same phone must appear atomic to each other; commands for different phones
// proceed independently.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock acquires the mutex for a key, creating it on first use, and returns
// the unlock func. Entries are kept for the life of the process; the key
// space is bounded by the subscriber population.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
