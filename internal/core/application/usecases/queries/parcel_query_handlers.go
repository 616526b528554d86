package queries

import (
	"context"
	"iter"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/core/ports"
)

type GetParcelQueryHandler struct {
	parcels ports.ParcelReader
}

func NewGetParcelQueryHandler(parcels ports.ParcelReader) GetParcelQueryHandler {
	return GetParcelQueryHandler{parcels: parcels}
}

func (h GetParcelQueryHandler) Handle(ctx context.Context, query GetParcelQuery) (ParcelResponse, error) {
	if err := query.Validate(); err != nil {
		return ParcelResponse{}, err
	}

	p, err := h.parcels.Get(ctx, query.ParcelID())
	if err != nil {
		return ParcelResponse{}, err
	}
	return NewParcelResponse(p), nil
}

type ListParcelsQueryHandler struct {
	parcels ports.ParcelReader
}

func NewListParcelsQueryHandler(parcels ports.ParcelReader) ListParcelsQueryHandler {
	return ListParcelsQueryHandler{parcels: parcels}
}

// Handle returns a lazy sequence. It may be ranged over several times and
// reflects the collection at the moment each pass starts.
func (h ListParcelsQueryHandler) Handle(ctx context.Context, query ListParcelsQuery) (iter.Seq[ParcelResponse], error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	source := h.parcels.List(ctx, query.Filter())
	return func(yield func(ParcelResponse) bool) {
		for p := range source {
			if !yield(NewParcelResponse(p)) {
				return
			}
		}
	}, nil
}

type GetParcelStatsQueryHandler struct {
	parcels ports.ParcelReader
	pickups ports.PickupReader
}

func NewGetParcelStatsQueryHandler(parcels ports.ParcelReader, pickups ports.PickupReader) GetParcelStatsQueryHandler {
	return GetParcelStatsQueryHandler{parcels: parcels, pickups: pickups}
}

func (h GetParcelStatsQueryHandler) Handle(ctx context.Context, query GetParcelStatsQuery) (ParcelStatsResponse, error) {
	if err := query.Validate(); err != nil {
		return ParcelStatsResponse{}, err
	}

	stats := ParcelStatsResponse{
		ByStatus:        make(map[string]int),
		PickupsByStatus: make(map[string]int),
	}
	for _, st := range parcel.Statuses() {
		stats.ByStatus[st.String()] = 0
	}
	for _, st := range pickup.Statuses() {
		stats.PickupsByStatus[st.String()] = 0
	}

	for p := range h.parcels.List(ctx, ports.ParcelFilter{}) {
		stats.Total++
		stats.ByStatus[p.Status().String()]++
		if p.CanBeClaimed() == nil {
			stats.Claimable++
		}
	}
	for p := range h.pickups.List(ctx, ports.PickupFilter{}) {
		stats.PickupsByStatus[p.Status().String()]++
	}

	if err := ctx.Err(); err != nil {
		return ParcelStatsResponse{}, err
	}
	return stats, nil
}
