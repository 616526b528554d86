package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ListParcelsParams defines parameters for ListParcels.
type ListParcelsParams struct {
	Status    *string `form:"status,omitempty" json:"status,omitempty"`
	Claimable *bool   `form:"claimable,omitempty" json:"claimable,omitempty"`
	Search    *string `form:"search,omitempty" json:"search,omitempty"`
}

// ListPickupsParams defines parameters for ListPickups.
type ListPickupsParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
	City   *string `form:"city,omitempty" json:"city,omitempty"`
}

// ListPickupsByCityParams defines parameters for ListPickupsByCity.
type ListPickupsByCityParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(ctx echo.Context) error
	// (GET /api/v1/parcels)
	ListParcels(ctx echo.Context, params ListParcelsParams) error
	// (POST /api/v1/parcels)
	CreateParcel(ctx echo.Context) error
	// (GET /api/v1/parcels/stats)
	GetParcelStats(ctx echo.Context) error
	// (GET /api/v1/parcels/{parcelId})
	GetParcel(ctx echo.Context, parcelID openapi_types.UUID) error
	// (PATCH /api/v1/parcels/{parcelId})
	UpdateParcel(ctx echo.Context, parcelID openapi_types.UUID) error
	// (DELETE /api/v1/parcels/{parcelId})
	DeleteParcel(ctx echo.Context, parcelID openapi_types.UUID) error
	// (POST /api/v1/parcels/{parcelId}/return)
	ReturnParcel(ctx echo.Context, parcelID openapi_types.UUID) error
	// (GET /api/v1/pickups)
	ListPickups(ctx echo.Context, params ListPickupsParams) error
	// (POST /api/v1/pickups)
	CreatePickup(ctx echo.Context) error
	// (GET /api/v1/pickups/by-city)
	ListPickupsByCity(ctx echo.Context, params ListPickupsByCityParams) error
	// (GET /api/v1/pickups/{pickupId})
	GetPickup(ctx echo.Context, pickupID openapi_types.UUID) error
	// (PATCH /api/v1/pickups/{pickupId})
	UpdatePickup(ctx echo.Context, pickupID openapi_types.UUID) error
	// (DELETE /api/v1/pickups/{pickupId})
	DeletePickup(ctx echo.Context, pickupID openapi_types.UUID) error
	// (POST /api/v1/pickups/{pickupId}/complete)
	CompletePickup(ctx echo.Context, pickupID openapi_types.UUID) error
	// (POST /api/v1/pickups/{pickupId}/cancel)
	CancelPickup(ctx echo.Context, pickupID openapi_types.UUID) error
	// (GET /api/v1/audit)
	AuditConsistency(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	return w.Handler.GetHealth(ctx)
}

func (w *ServerInterfaceWrapper) ListParcels(ctx echo.Context) error {
	var params ListParcelsParams
	if err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "claimable", ctx.QueryParams(), &params.Claimable); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter claimable: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "search", ctx.QueryParams(), &params.Search); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter search: %s", err))
	}
	return w.Handler.ListParcels(ctx, params)
}

func (w *ServerInterfaceWrapper) CreateParcel(ctx echo.Context) error {
	return w.Handler.CreateParcel(ctx)
}

func (w *ServerInterfaceWrapper) GetParcelStats(ctx echo.Context) error {
	return w.Handler.GetParcelStats(ctx)
}

func (w *ServerInterfaceWrapper) GetParcel(ctx echo.Context) error {
	id, err := bindID(ctx, "parcelId")
	if err != nil {
		return err
	}
	return w.Handler.GetParcel(ctx, id)
}

func (w *ServerInterfaceWrapper) UpdateParcel(ctx echo.Context) error {
	id, err := bindID(ctx, "parcelId")
	if err != nil {
		return err
	}
	return w.Handler.UpdateParcel(ctx, id)
}

func (w *ServerInterfaceWrapper) DeleteParcel(ctx echo.Context) error {
	id, err := bindID(ctx, "parcelId")
	if err != nil {
		return err
	}
	return w.Handler.DeleteParcel(ctx, id)
}

func (w *ServerInterfaceWrapper) ReturnParcel(ctx echo.Context) error {
	id, err := bindID(ctx, "parcelId")
	if err != nil {
		return err
	}
	return w.Handler.ReturnParcel(ctx, id)
}

func (w *ServerInterfaceWrapper) ListPickups(ctx echo.Context) error {
	var params ListPickupsParams
	if err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "city", ctx.QueryParams(), &params.City); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter city: %s", err))
	}
	return w.Handler.ListPickups(ctx, params)
}

func (w *ServerInterfaceWrapper) CreatePickup(ctx echo.Context) error {
	return w.Handler.CreatePickup(ctx)
}

func (w *ServerInterfaceWrapper) ListPickupsByCity(ctx echo.Context) error {
	var params ListPickupsByCityParams
	if err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}
	return w.Handler.ListPickupsByCity(ctx, params)
}

func (w *ServerInterfaceWrapper) GetPickup(ctx echo.Context) error {
	id, err := bindID(ctx, "pickupId")
	if err != nil {
		return err
	}
	return w.Handler.GetPickup(ctx, id)
}

func (w *ServerInterfaceWrapper) UpdatePickup(ctx echo.Context) error {
	id, err := bindID(ctx, "pickupId")
	if err != nil {
		return err
	}
	return w.Handler.UpdatePickup(ctx, id)
}

func (w *ServerInterfaceWrapper) DeletePickup(ctx echo.Context) error {
	id, err := bindID(ctx, "pickupId")
	if err != nil {
		return err
	}
	return w.Handler.DeletePickup(ctx, id)
}

func (w *ServerInterfaceWrapper) CompletePickup(ctx echo.Context) error {
	id, err := bindID(ctx, "pickupId")
	if err != nil {
		return err
	}
	return w.Handler.CompletePickup(ctx, id)
}

func (w *ServerInterfaceWrapper) CancelPickup(ctx echo.Context) error {
	id, err := bindID(ctx, "pickupId")
	if err != nil {
		return err
	}
	return w.Handler.CancelPickup(ctx, id)
}

func (w *ServerInterfaceWrapper) AuditConsistency(ctx echo.Context) error {
	return w.Handler.AuditConsistency(ctx)
}

func bindID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// EchoRouter is the subset of echo.Echo and echo.Group used for registration.
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/health", w.GetHealth)
	router.GET(baseURL+"/api/v1/parcels", w.ListParcels)
	router.POST(baseURL+"/api/v1/parcels", w.CreateParcel)
	router.GET(baseURL+"/api/v1/parcels/stats", w.GetParcelStats)
	router.GET(baseURL+"/api/v1/parcels/:parcelId", w.GetParcel)
	router.PATCH(baseURL+"/api/v1/parcels/:parcelId", w.UpdateParcel)
	router.DELETE(baseURL+"/api/v1/parcels/:parcelId", w.DeleteParcel)
	router.POST(baseURL+"/api/v1/parcels/:parcelId/return", w.ReturnParcel)
	router.GET(baseURL+"/api/v1/pickups", w.ListPickups)
	router.POST(baseURL+"/api/v1/pickups", w.CreatePickup)
	router.GET(baseURL+"/api/v1/pickups/by-city", w.ListPickupsByCity)
	router.GET(baseURL+"/api/v1/pickups/:pickupId", w.GetPickup)
	router.PATCH(baseURL+"/api/v1/pickups/:pickupId", w.UpdatePickup)
	router.DELETE(baseURL+"/api/v1/pickups/:pickupId", w.DeletePickup)
	router.POST(baseURL+"/api/v1/pickups/:pickupId/complete", w.CompletePickup)
	router.POST(baseURL+"/api/v1/pickups/:pickupId/cancel", w.CancelPickup)
	router.GET(baseURL+"/api/v1/audit", w.AuditConsistency)
}
