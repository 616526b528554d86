package memory

import (
	"slices"

	"parceltrack/internal/core/domain/model/kernel"
)

type record[T any] interface {
	ID() kernel.UUID
	Clone() T
}

// arena holds one collection: records addressed by id plus the order in which
// they were first added. It is not safe for concurrent use; Store guards it.
type arena[T record[T]] struct {
	records map[kernel.UUID]T
	order   []kernel.UUID
}

func newArena[T record[T]]() *arena[T] {
	return &arena[T]{records: make(map[kernel.UUID]T)}
}

func (a *arena[T]) get(id kernel.UUID) (T, bool) {
	v, ok := a.records[id]
	return v, ok
}

func (a *arena[T]) len() int {
	return len(a.order)
}

// ids returns a copy of the insertion order.
func (a *arena[T]) ids() []kernel.UUID {
	return slices.Clone(a.order)
}

// values returns clones of every record in insertion order.
func (a *arena[T]) values() []T {
	out := make([]T, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.records[id].Clone())
	}
	return out
}

// put stores v, appending its id to the order when it is new.
func (a *arena[T]) put(v T) {
	id := v.ID()
	if _, ok := a.records[id]; !ok {
		a.order = append(a.order, id)
	}
	a.records[id] = v
}

// remove deletes id and reports the record and its position for undo.
func (a *arena[T]) remove(id kernel.UUID) (T, int, bool) {
	v, ok := a.records[id]
	if !ok {
		var zero T
		return zero, -1, false
	}
	idx := slices.IndexFunc(a.order, id.IsEqual)
	delete(a.records, id)
	a.order = slices.Delete(a.order, idx, idx+1)
	return v, idx, true
}

// insertAt puts v back at position idx. It is the inverse of remove.
func (a *arena[T]) insertAt(idx int, v T) {
	id := v.ID()
	if _, ok := a.records[id]; ok {
		a.records[id] = v
		return
	}
	idx = min(max(idx, 0), len(a.order))
	a.order = slices.Insert(a.order, idx, id)
	a.records[id] = v
}
