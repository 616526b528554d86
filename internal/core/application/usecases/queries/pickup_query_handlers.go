package queries

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"strings"

	"parceltrack/internal/core/ports"
)

type GetPickupQueryHandler struct {
	pickups ports.PickupReader
}

func NewGetPickupQueryHandler(pickups ports.PickupReader) GetPickupQueryHandler {
	return GetPickupQueryHandler{pickups: pickups}
}

func (h GetPickupQueryHandler) Handle(ctx context.Context, query GetPickupQuery) (PickupResponse, error) {
	if err := query.Validate(); err != nil {
		return PickupResponse{}, err
	}

	p, err := h.pickups.Get(ctx, query.PickupID())
	if err != nil {
		return PickupResponse{}, err
	}
	return NewPickupResponse(p), nil
}

type ListPickupsQueryHandler struct {
	pickups ports.PickupReader
}

func NewListPickupsQueryHandler(pickups ports.PickupReader) ListPickupsQueryHandler {
	return ListPickupsQueryHandler{pickups: pickups}
}

func (h ListPickupsQueryHandler) Handle(ctx context.Context, query ListPickupsQuery) (iter.Seq[PickupResponse], error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	source := h.pickups.List(ctx, query.Filter())
	return func(yield func(PickupResponse) bool) {
		for p := range source {
			if !yield(NewPickupResponse(p)) {
				return
			}
		}
	}, nil
}

type ListPickupsByCityQueryHandler struct {
	pickups ports.PickupReader
}

func NewListPickupsByCityQueryHandler(pickups ports.PickupReader) ListPickupsByCityQueryHandler {
	return ListPickupsByCityQueryHandler{pickups: pickups}
}

// Handle returns the groups sorted by city name. Cities are keyed as first
// spelled; later pickups whose city differs only in case join that group.
func (h ListPickupsByCityQueryHandler) Handle(
	ctx context.Context,
	query ListPickupsByCityQuery,
) ([]CityPickupsResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	index := make(map[string]int)
	groups := make([]CityPickupsResponse, 0)
	for p := range h.pickups.List(ctx, query.Filter()) {
		key := normalizeCity(p.City())
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, CityPickupsResponse{City: p.City()})
		}
		groups[i].Pickups = append(groups[i].Pickups, NewPickupResponse(p))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(groups, func(a, b CityPickupsResponse) int {
		return cmp.Compare(normalizeCity(a.City), normalizeCity(b.City))
	})
	return groups, nil
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
