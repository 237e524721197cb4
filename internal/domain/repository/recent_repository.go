package repository

import (
	"github.com/landsearch-microservice/internal/domain"
)

// RecentParcelsRepository is a bounded, insertion-ordered buffer of the
// most recently loaded parcels. Search consumes a snapshot so it never
// observes concurrent appends; when the buffer is full the oldest entry
// is evicted first. Implementations are in-process and safe for
// concurrent use.
type RecentParcelsRepository interface {
	// Snapshot returns the current contents, oldest first
	Snapshot() []*domain.ProcessedParcel

	// Append adds parcels, evicting the oldest once capacity is reached
	Append(parcels ...*domain.ProcessedParcel)

	// EvictOldest removes and returns the oldest entry, nil when empty
	EvictOldest() *domain.ProcessedParcel

	// Len returns the number of buffered parcels
	Len() int

	// Clear empties the buffer; called after parcel writes so the next
	// search reloads from storage
	Clear()
}
