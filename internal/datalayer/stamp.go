package datalayer

import (
	"time"

	"procuracore/pkg/domain"
)

// stampNew sets creation timestamps. UpdatedAt starts one millisecond after
// CreatedAt so the strict ordering invariant holds from the first store.
func stampNew(b *domain.Base, now time.Time) {
	b.CreatedAt = now
	b.UpdatedAt = now.Add(time.Millisecond)
}

// stampUpdated advances UpdatedAt, bumping by one millisecond whenever the
// clock would not keep UpdatedAt strictly after CreatedAt.
func stampUpdated(b *domain.Base, now time.Time) {
	b.UpdatedAt = now
	if !b.UpdatedAt.After(b.CreatedAt) {
		b.UpdatedAt = b.CreatedAt.Add(time.Millisecond)
	}
}
