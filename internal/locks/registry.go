// Package locks serialises mutation of individual orders. The original
// design kept one lock object per order id in a map that only ever grew;
// here the registry is a fixed array of stripes keyed by a hash of the id,
// so memory stays bounded for the life of the process.
package locks

import "sync"

const defaultStripes = 256

// Registry hands out the mutex guarding a single order id. Two ids may
// share a stripe; that only costs contention, never correctness. Callers
// must hold at most one order lock at a time: the matcher locks one
// resting order per fill step and releases it before the next, so no
// lock-ordering cycle can form.
type Registry struct {
	stripes []sync.Mutex
}

func NewRegistry() *Registry {
	return NewRegistryWithStripes(defaultStripes)
}

func NewRegistryWithStripes(n int) *Registry {
	if n <= 0 {
		n = defaultStripes
	}
	return &Registry{stripes: make([]sync.Mutex, n)}
}

// Acquire returns the lock for the given order id. The lock itself is not
// taken; callers Lock/Unlock the returned mutex.
func (r *Registry) Acquire(id uint64) *sync.Mutex {
	return &r.stripes[id%uint64(len(r.stripes))]
}
