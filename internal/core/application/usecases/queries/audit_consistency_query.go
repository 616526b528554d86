package queries

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var ErrAuditConsistencyQueryIsNotConstructed = errors.New(
	"AuditConsistencyQuery must be created via NewAuditConsistencyQuery constructor",
)

// AuditConsistencyQuery cross-checks parcels and pickups for broken
// references, such as the leftovers of a crash between two snapshot writes.
type AuditConsistencyQuery struct {
	guard guard.ConstructorGuard
}

func NewAuditConsistencyQuery() AuditConsistencyQuery {
	return AuditConsistencyQuery{guard: guard.NewConstructorGuard()}
}

func (q AuditConsistencyQuery) Validate() error {
	return q.guard.Validate(ErrAuditConsistencyQueryIsNotConstructed)
}

type AuditConsistencyResponse struct {
	Parcels   int            `json:"parcels"`
	Pickups   int            `json:"pickups"`
	Anomalies []errs.Anomaly `json:"anomalies"`
}

// Consistent reports whether the audit found nothing.
func (r AuditConsistencyResponse) Consistent() bool {
	return len(r.Anomalies) == 0
}

type AuditConsistencyQueryHandler struct {
	state  ports.StateReader
	claims services.ClaimService
}

func NewAuditConsistencyQueryHandler(state ports.StateReader) AuditConsistencyQueryHandler {
	return AuditConsistencyQueryHandler{state: state, claims: services.NewClaimService()}
}

// Handle audits one consistent copy of both collections.
func (h AuditConsistencyQueryHandler) Handle(
	_ context.Context,
	query AuditConsistencyQuery,
) (AuditConsistencyResponse, error) {
	if err := query.Validate(); err != nil {
		return AuditConsistencyResponse{}, err
	}

	state := h.state.State()
	anomalies := h.claims.Audit(state.Parcels, state.Pickups)
	if anomalies == nil {
		anomalies = []errs.Anomaly{}
	}

	return AuditConsistencyResponse{
		Parcels:   len(state.Parcels),
		Pickups:   len(state.Pickups),
		Anomalies: anomalies,
	}, nil
}
