package memory

import (
	"context"
	"slices"
	"sync"

	"parceltrack/internal/pkg/errs"
)

// SnapshotStore keeps snapshots in a map. It is the default backend and the
// one used by tests.
type SnapshotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{slots: make(map[string][]byte)}
}

func (s *SnapshotStore) Load(_ context.Context, namespace string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.slots[namespace]
	if !ok {
		return nil, errs.NewObjectNotFoundError("namespace", namespace)
	}
	return slices.Clone(payload), nil
}

func (s *SnapshotStore) Save(ctx context.Context, namespace string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[namespace] = slices.Clone(payload)
	return nil
}
