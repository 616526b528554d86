// Package http exposes parcels, pickups and the consistency audit over a
// JSON API served by echo. Requests are checked against the embedded OpenAPI
// document before they reach a handler.
package http

import (
	"log/slog"
	"net/http"
	"slices"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateParcel   commands.CreateParcelCommandHandler
	UpdateParcel   commands.UpdateParcelCommandHandler
	DeleteParcel   commands.DeleteParcelCommandHandler
	ReturnParcel   commands.ReturnParcelCommandHandler
	CreatePickup   commands.CreatePickupCommandHandler
	UpdatePickup   commands.UpdatePickupCommandHandler
	CompletePickup commands.CompletePickupCommandHandler
	CancelPickup   commands.CancelPickupCommandHandler
	DeletePickup   commands.DeletePickupCommandHandler

	GetParcel         queries.GetParcelQueryHandler
	ListParcels       queries.ListParcelsQueryHandler
	GetParcelStats    queries.GetParcelStatsQueryHandler
	GetPickup         queries.GetPickupQueryHandler
	ListPickups       queries.ListPickupsQueryHandler
	ListPickupsByCity queries.ListPickupsByCityQueryHandler
	AuditConsistency  queries.AuditConsistencyQueryHandler
}

// Server implements ServerInterface on top of the command and query handlers.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

func NewServer(h Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{h: h, logger: logger.With("component", "http_server")}
}

func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// ListParcels handles GET /api/v1/parcels.
func (s *Server) ListParcels(ctx echo.Context, params ListParcelsParams) error {
	query, err := queries.NewListParcelsQuery(deref(params.Status), deref(params.Claimable), deref(params.Search))
	if err != nil {
		return s.fail(ctx, err)
	}

	seq, err := s.h.ListParcels.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := slices.Collect(seq)
	if response == nil {
		response = []queries.ParcelResponse{}
	}
	return ctx.JSON(http.StatusOK, response)
}

// CreateParcel handles POST /api/v1/parcels. The id is assigned here.
func (s *Server) CreateParcel(ctx echo.Context) error {
	var body NewParcel
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx)
	}

	details, err := body.details()
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateParcelCommand(kernel.NewUUID(), details)
	if err != nil {
		return s.fail(ctx, err)
	}

	p, err := s.h.CreateParcel.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, queries.NewParcelResponse(p))
}

// GetParcelStats handles GET /api/v1/parcels/stats.
func (s *Server) GetParcelStats(ctx echo.Context) error {
	stats, err := s.h.GetParcelStats.Handle(ctx.Request().Context(), queries.NewGetParcelStatsQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, stats)
}

// GetParcel handles GET /api/v1/parcels/{parcelId}.
func (s *Server) GetParcel(ctx echo.Context, parcelID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(parcelID[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetParcelQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	p, err := s.h.GetParcel.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, p)
}

// UpdateParcel handles PATCH /api/v1/parcels/{parcelId}.
func (s *Server) UpdateParcel(ctx echo.Context, parcelID openapi_types.UUID) error {
	var body ParcelPatch
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx)
	}

	id, err := kernel.UUIDFromBytes(parcelID[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewUpdateParcelCommand(id, body.patch())
	if err != nil {
		return s.fail(ctx, err)
	}

	p, err := s.h.UpdateParcel.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, queries.NewParcelResponse(p))
}

// DeleteParcel handles DELETE /api/v1/parcels/{parcelId}.
func (s *Server) DeleteParcel(ctx echo.Context, parcelID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(parcelID[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewDeleteParcelCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.h.DeleteParcel.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ReturnParcel handles POST /api/v1/parcels/{parcelId}/return.
func (s *Server) ReturnParcel(ctx echo.Context, parcelID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(parcelID[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewReturnParcelCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	p, err := s.h.ReturnParcel.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, queries.NewParcelResponse(p))
}

// ListPickups handles GET /api/v1/pickups.
func (s *Server) ListPickups(ctx echo.Context, params ListPickupsParams) error {
	query, err := queries.NewListPickupsQuery(deref(params.Status), deref(params.City))
	if err != nil {
		return s.fail(ctx, err)
	}

	seq, err := s.h.ListPickups.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := slices.Collect(seq)
	if response == nil {
		response = []queries.PickupResponse{}
	}
	return ctx.JSON(http.StatusOK, response)
}

// CreatePickup handles POST /api/v1/pickups. Every listed parcel is claimed
// or the pickup is not created at all.
func (s *Server) CreatePickup(ctx echo.Context) error {
	var body NewPickup
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx)
	}

	parcelIDs := make([]kernel.UUID, 0, len(body.ParcelIDs))
	for _, raw := range body.ParcelIDs {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return s.fail(ctx, err)
		}
		parcelIDs = append(parcelIDs, id)
	}

	cmd, err := commands.NewCreatePickupCommand(kernel.NewUUID(), body.details(), parcelIDs)
	if err != nil {
		return s.fail(ctx, err)
	}

	pk, err := s.h.CreatePickup.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, queries.NewPickupResponse(pk))
}

// ListPickupsByCity handles GET /api/v1/pickups/by-city.
func (s *Server) ListPickupsByCity(ctx echo.Context, params ListPickupsByCityParams) error {
	query, err := queries.NewListPickupsByCityQuery(deref(params.Status))
	if err != nil {
		return s.fail(ctx, err)
	}

	groups, err := s.h.ListPickupsByCity.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, groups)
}

// GetPickup handles GET /api/v1/pickups/{pickupId}.
func (s *Server) GetPickup(ctx echo.Context, pickupID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(pickupID[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetPickupQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	pk, err := s.h.GetPickup.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, pk)
}

// UpdatePickup handles PATCH /api/v1/pickups/{pickupId}.
func (s *Server) UpdatePickup(ctx echo.Context, pickupID openapi_types.UUID) error {
	var body PickupPatch
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx)
	}

	id, err := kernel.UUIDFromBytes(pickupID[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewUpdatePickupCommand(id, body.patch())
	if err != nil {
		return s.fail(ctx, err)
	}

	pk, err := s.h.UpdatePickup.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, queries.NewPickupResponse(pk))
}

// DeletePickup handles DELETE /api/v1/pickups/{pickupId}.
func (s *Server) DeletePickup(ctx echo.Context, pickupID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(pickupID[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewDeletePickupCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.h.DeletePickup.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CompletePickup handles POST /api/v1/pickups/{pickupId}/complete.
func (s *Server) CompletePickup(ctx echo.Context, pickupID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(pickupID[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCompletePickupCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	pk, err := s.h.CompletePickup.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, queries.NewPickupResponse(pk))
}

// CancelPickup handles POST /api/v1/pickups/{pickupId}/cancel. Anomalies met
// while releasing parcels are part of a successful response.
func (s *Server) CancelPickup(ctx echo.Context, pickupID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(pickupID[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCancelPickupCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.CancelPickup.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, newCancelledPickup(result))
}

// AuditConsistency handles GET /api/v1/audit.
func (s *Server) AuditConsistency(ctx echo.Context) error {
	report, err := s.h.AuditConsistency.Handle(ctx.Request().Context(), queries.NewAuditConsistencyQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, report)
}

func (s *Server) badRequest(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: "Invalid request body",
	})
}

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

