package memory

import (
	"sync"

	"github.com/landsearch-microservice/internal/domain"
)

// RecentParcels is a fixed-capacity ring buffer of parcels. Appending
// past capacity evicts the oldest entry. All methods are safe for
// concurrent use.
type RecentParcels struct {
	mu    sync.Mutex
	items []*domain.ProcessedParcel
	head  int
	size  int
}

// NewRecentParcels creates a buffer holding at most capacity parcels
func NewRecentParcels(capacity int) *RecentParcels {
	if capacity < 1 {
		capacity = 1
	}
	return &RecentParcels{
		items: make([]*domain.ProcessedParcel, capacity),
	}
}

// Snapshot returns a copy of the contents, oldest first
func (r *RecentParcels) Snapshot() []*domain.ProcessedParcel {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.ProcessedParcel, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.items[(r.head+i)%len(r.items)]
	}
	return out
}

// Append adds parcels, evicting the oldest once capacity is reached
func (r *RecentParcels) Append(parcels ...*domain.ProcessedParcel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range parcels {
		tail := (r.head + r.size) % len(r.items)
		r.items[tail] = p
		if r.size < len(r.items) {
			r.size++
		} else {
			r.head = (r.head + 1) % len(r.items)
		}
	}
}

// EvictOldest removes and returns the oldest entry, nil when empty
func (r *RecentParcels) EvictOldest() *domain.ProcessedParcel {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size == 0 {
		return nil
	}
	p := r.items[r.head]
	r.items[r.head] = nil
	r.head = (r.head + 1) % len(r.items)
	r.size--
	return p
}

// Len returns the number of buffered parcels
func (r *RecentParcels) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Clear empties the buffer
func (r *RecentParcels) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		r.items[i] = nil
	}
	r.head = 0
	r.size = 0
}
