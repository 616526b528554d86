package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// Fixed namespaces, one per collection.
const (
	ParcelsNamespace = "parcels-storage"
	PickupsNamespace = "pickups-storage"
)

var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Persister implements ports.StatePersister over any ports.SnapshotStore.
type Persister struct {
	store  ports.SnapshotStore
	clock  func() time.Time
	logger *slog.Logger
}

func NewPersister(store ports.SnapshotStore, clock func() time.Time, logger *slog.Logger) *Persister {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Persister{
		store:  store,
		clock:  clock,
		logger: logger.With("component", "snapshot_persister"),
	}
}

// Persist writes both namespaces. Both writes are attempted even when the
// first fails; every failure is reported in the returned *errs.PersistenceError.
func (p *Persister) Persist(ctx context.Context, state ports.State) error {
	savedAt := p.clock().UTC()

	parcels := make([]ParcelRecord, 0, len(state.Parcels))
	for _, v := range state.Parcels {
		parcels = append(parcels, parcelFromDomain(v))
	}
	pickups := make([]PickupRecord, 0, len(state.Pickups))
	for _, v := range state.Pickups {
		pickups = append(pickups, pickupFromDomain(v))
	}

	err := errors.Join(
		p.save(ctx, ParcelsNamespace, savedAt, parcels),
		p.save(ctx, PickupsNamespace, savedAt, pickups),
	)
	if err != nil {
		return errs.NewPersistenceError("persist snapshot", err)
	}

	p.logger.DebugContext(ctx, "snapshot written",
		"parcels", len(parcels),
		"pickups", len(pickups),
	)
	return nil
}

// Restore reads both namespaces. A namespace that was never written is an
// empty collection.
func (p *Persister) Restore(ctx context.Context) (ports.State, error) {
	var parcels []ParcelRecord
	if err := p.load(ctx, ParcelsNamespace, &parcels); err != nil {
		return ports.State{}, err
	}
	var pickups []PickupRecord
	if err := p.load(ctx, PickupsNamespace, &pickups); err != nil {
		return ports.State{}, err
	}

	state := ports.State{
		Parcels: make([]*parcel.Parcel, 0, len(parcels)),
		Pickups: make([]*pickup.Pickup, 0, len(pickups)),
	}
	for i, r := range parcels {
		v, err := parcelToDomain(r)
		if err != nil {
			return ports.State{}, errs.NewPersistenceError(
				fmt.Sprintf("decode %s record %d", ParcelsNamespace, i), err)
		}
		state.Parcels = append(state.Parcels, v)
	}
	for i, r := range pickups {
		v, err := pickupToDomain(r)
		if err != nil {
			return ports.State{}, errs.NewPersistenceError(
				fmt.Sprintf("decode %s record %d", PickupsNamespace, i), err)
		}
		state.Pickups = append(state.Pickups, v)
	}

	return state, nil
}

func (p *Persister) save(ctx context.Context, namespace string, savedAt time.Time, records any) error {
	payload, err := Encode(savedAt, records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", namespace, err)
	}
	if err = p.store.Save(ctx, namespace, payload); err != nil {
		return fmt.Errorf("save %s: %w", namespace, err)
	}
	return nil
}

func (p *Persister) load(ctx context.Context, namespace string, records any) error {
	payload, err := p.store.Load(ctx, namespace)
	if errors.Is(err, errs.ErrObjectNotFound) {
		p.logger.InfoContext(ctx, "no snapshot found, starting empty", "namespace", namespace)
		return nil
	}
	if err != nil {
		return errs.NewPersistenceError("load "+namespace, err)
	}

	if err = Decode(payload, records); err != nil {
		return errs.NewPersistenceError("decode "+namespace, err)
	}
	return nil
}

// Encode wraps records in a versioned envelope.
func Encode(savedAt time.Time, records any) ([]byte, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Version: FormatVersion, SavedAt: savedAt, Records: raw})
}

// Decode unwraps an envelope into records, refusing unknown versions.
func Decode(payload []byte, records any) error {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return err
	}
	if env.Version != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	if len(env.Records) == 0 {
		return nil
	}
	return json.Unmarshal(env.Records, records)
}
