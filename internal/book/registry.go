package book

import "sync"

// Registry maps symbol to its OrderBook, creating books on first reference.
// Books are never removed. Constructed once in the composition root and
// passed down explicitly.
type Registry struct {
	mu    sync.RWMutex
	books map[string]*OrderBook
}

func NewRegistry() *Registry {
	return &Registry{books: make(map[string]*OrderBook)}
}

func (r *Registry) Get(symbol string) (*OrderBook, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[symbol]
	return b, ok
}

func (r *Registry) GetOrCreate(symbol string) *OrderBook {
	r.mu.RLock()
	b, ok := r.books[symbol]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok = r.books[symbol]; ok {
		return b
	}
	b = New(symbol)
	r.books[symbol] = b
	return b
}

func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.books))
	for s := range r.books {
		out = append(out, s)
	}
	return out
}
