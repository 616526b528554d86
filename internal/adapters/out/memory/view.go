package memory

import (
	"context"
	"iter"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// view reads one arena of a store. A shared view takes the read lock around
// every record; an unshared one belongs to a unit of work that already holds
// the write lock.
type view[T record[T]] struct {
	store  *Store
	arena  func(*Store) *arena[T]
	entity string
	shared bool
}

func newView[T record[T]](s *Store, a func(*Store) *arena[T], entity string, shared bool) view[T] {
	return view[T]{store: s, arena: a, entity: entity, shared: shared}
}

func (v view[T]) lock() func() {
	if !v.shared {
		return func() {}
	}
	v.store.mu.RLock()
	return v.store.mu.RUnlock
}

func (v view[T]) get(_ context.Context, id kernel.UUID) (T, error) {
	var zero T
	if err := id.Validate(); err != nil {
		return zero, err
	}

	unlock := v.lock()
	rec, ok := v.arena(v.store).get(id)
	if ok {
		rec = rec.Clone()
	}
	unlock()

	if !ok {
		return zero, errs.NewObjectNotFoundError(v.entity, id.String())
	}
	return rec, nil
}

// list yields clones of the records that match, in insertion order. Ids are
// captured when ranging starts; records removed since then are skipped.
func (v view[T]) list(ctx context.Context, match func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		unlock := v.lock()
		ids := v.arena(v.store).ids()
		unlock()

		for _, id := range ids {
			if ctx.Err() != nil {
				return
			}

			unlock = v.lock()
			rec, ok := v.arena(v.store).get(id)
			if ok {
				rec = rec.Clone()
			}
			unlock()

			if !ok || !match(rec) {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}
