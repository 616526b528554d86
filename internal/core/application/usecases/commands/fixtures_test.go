package commands_test

import (
	"testing"

	"parceltrack/internal/adapters/out/memory"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func parcelDetails(client string) parcel.Details {
	return parcel.Details{
		ClientName:   client,
		ProductName:  "Couscoussier",
		City:         "Oujda",
		Price:        decimal.RequireFromString("210.00"),
		AllowOpening: true,
		Phone:        "0699887766",
		Address:      "Boulevard Mohammed V",
	}
}

func pickupDetails() pickup.Details {
	return pickup.Details{
		SupplierName: "Oriental Wares",
		City:         "Oujda",
		Phone:        "0536000000",
		Address:      "Quartier Industriel",
	}
}

func newParcel(t *testing.T, client string) *parcel.Parcel {
	t.Helper()
	p, err := parcel.NewParcel(kernel.NewUUID(), parcelDetails(client), fixedNow)
	require.NoError(t, err)
	return p
}

// env is a real in-memory store with handlers wired the way the
// composition root does it.
type env struct {
	store *memory.Store

	createParcel   commands.CreateParcelCommandHandler
	updateParcel   commands.UpdateParcelCommandHandler
	deleteParcel   commands.DeleteParcelCommandHandler
	returnParcel   commands.ReturnParcelCommandHandler
	createPickup   commands.CreatePickupCommandHandler
	updatePickup   commands.UpdatePickupCommandHandler
	completePickup commands.CompletePickupCommandHandler
	cancelPickup   commands.CancelPickupCommandHandler
	deletePickup   commands.DeletePickupCommandHandler
}

type uowFactory struct{ inner *memory.UnitOfWorkFactory }

func (f uowFactory) Create() commands.UoW { return f.inner.Create() }

type parcelUoWFactory struct{ inner *memory.UnitOfWorkFactory }

func (f parcelUoWFactory) Create() commands.ParcelUoW { return f.inner.Create() }

type pickupUoWFactory struct{ inner *memory.UnitOfWorkFactory }

func (f pickupUoWFactory) Create() commands.PickupUoW { return f.inner.Create() }

func newEnv(t *testing.T, persister ports.StatePersister) *env {
	t.Helper()
	store := memory.NewStore(persister, nil)
	inner := memory.NewUnitOfWorkFactory(store)
	both, parcels, pickups := uowFactory{inner}, parcelUoWFactory{inner}, pickupUoWFactory{inner}

	return &env{
		store:          store,
		createParcel:   commands.NewCreateParcelCommandHandler(parcels, fixedClock),
		updateParcel:   commands.NewUpdateParcelCommandHandler(parcels),
		deleteParcel:   commands.NewDeleteParcelCommandHandler(parcels),
		returnParcel:   commands.NewReturnParcelCommandHandler(parcels),
		createPickup:   commands.NewCreatePickupCommandHandler(both, fixedClock),
		updatePickup:   commands.NewUpdatePickupCommandHandler(pickups),
		completePickup: commands.NewCompletePickupCommandHandler(pickups),
		cancelPickup:   commands.NewCancelPickupCommandHandler(both, nil),
		deletePickup:   commands.NewDeletePickupCommandHandler(pickups),
	}
}

func (e *env) mustCreateParcel(t *testing.T, client string) *parcel.Parcel {
	t.Helper()
	cmd, err := commands.NewCreateParcelCommand(kernel.NewUUID(), parcelDetails(client))
	require.NoError(t, err)
	p, err := e.createParcel.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return p
}

func (e *env) mustCreatePickup(t *testing.T, parcels ...*parcel.Parcel) *pickup.Pickup {
	t.Helper()
	ids := make([]kernel.UUID, 0, len(parcels))
	for _, p := range parcels {
		ids = append(ids, p.ID())
	}
	cmd, err := commands.NewCreatePickupCommand(kernel.NewUUID(), pickupDetails(), ids)
	require.NoError(t, err)
	pk, err := e.createPickup.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return pk
}

func (e *env) parcel(t *testing.T, id kernel.UUID) *parcel.Parcel {
	t.Helper()
	p, err := e.store.Parcels().Get(t.Context(), id)
	require.NoError(t, err)
	return p
}

func (e *env) pickup(t *testing.T, id kernel.UUID) *pickup.Pickup {
	t.Helper()
	pk, err := e.store.Pickups().Get(t.Context(), id)
	require.NoError(t, err)
	return pk
}
