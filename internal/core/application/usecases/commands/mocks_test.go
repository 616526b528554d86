package commands_test

import (
	"context"
	"iter"
	"slices"
	"time"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type MockParcelRepository struct{ mock.Mock }

func (m *MockParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) List(ctx context.Context, filter ports.ParcelFilter) iter.Seq[*parcel.Parcel] {
	args := m.Called(ctx, filter)
	return slices.Values(args.Get(0).([]*parcel.Parcel))
}

func (m *MockParcelRepository) Add(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Update(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPickupRepository struct{ mock.Mock }

func (m *MockPickupRepository) Get(ctx context.Context, id kernel.UUID) (*pickup.Pickup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pickup.Pickup), args.Error(1)
}

func (m *MockPickupRepository) List(ctx context.Context, filter ports.PickupFilter) iter.Seq[*pickup.Pickup] {
	args := m.Called(ctx, filter)
	return slices.Values(args.Get(0).([]*pickup.Pickup))
}

func (m *MockPickupRepository) Add(ctx context.Context, p *pickup.Pickup) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPickupRepository) Update(ctx context.Context, p *pickup.Pickup) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPickupRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUoW satisfies every unit of work interface of the package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ParcelRepository() ports.ParcelRepository {
	args := m.Called()
	return args.Get(0).(ports.ParcelRepository)
}

func (m *MockUoW) PickupRepository() ports.PickupRepository {
	args := m.Called()
	return args.Get(0).(ports.PickupRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockParcelUoWFactory struct{ mock.Mock }

func (m *MockParcelUoWFactory) Create() commands.ParcelUoW {
	args := m.Called()
	return args.Get(0).(commands.ParcelUoW)
}

type MockPickupUoWFactory struct{ mock.Mock }

func (m *MockPickupUoWFactory) Create() commands.PickupUoW {
	args := m.Called()
	return args.Get(0).(commands.PickupUoW)
}
