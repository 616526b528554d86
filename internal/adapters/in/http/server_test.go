package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpin "parceltrack/internal/adapters/in/http"
	"parceltrack/internal/adapters/out/memory"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uowFactory struct{ inner *memory.UnitOfWorkFactory }

func (f uowFactory) Create() commands.UoW { return f.inner.Create() }

type parcelUoWFactory struct{ inner *memory.UnitOfWorkFactory }

func (f parcelUoWFactory) Create() commands.ParcelUoW { return f.inner.Create() }

type pickupUoWFactory struct{ inner *memory.UnitOfWorkFactory }

func (f pickupUoWFactory) Create() commands.PickupUoW { return f.inner.Create() }

func newAPI(t *testing.T) *echo.Echo {
	t.Helper()
	store := memory.NewStore(nil, nil)
	inner := memory.NewUnitOfWorkFactory(store)
	both, parcels, pickups := uowFactory{inner}, parcelUoWFactory{inner}, pickupUoWFactory{inner}
	clock := func() time.Time { return time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC) }

	server := httpin.NewServer(httpin.Handlers{
		CreateParcel:   commands.NewCreateParcelCommandHandler(parcels, clock),
		UpdateParcel:   commands.NewUpdateParcelCommandHandler(parcels),
		DeleteParcel:   commands.NewDeleteParcelCommandHandler(parcels),
		ReturnParcel:   commands.NewReturnParcelCommandHandler(parcels),
		CreatePickup:   commands.NewCreatePickupCommandHandler(both, clock),
		UpdatePickup:   commands.NewUpdatePickupCommandHandler(pickups),
		CompletePickup: commands.NewCompletePickupCommandHandler(pickups),
		CancelPickup:   commands.NewCancelPickupCommandHandler(both, nil),
		DeletePickup:   commands.NewDeletePickupCommandHandler(pickups),

		GetParcel:         queries.NewGetParcelQueryHandler(store.Parcels()),
		ListParcels:       queries.NewListParcelsQueryHandler(store.Parcels()),
		GetParcelStats:    queries.NewGetParcelStatsQueryHandler(store.Parcels(), store.Pickups()),
		GetPickup:         queries.NewGetPickupQueryHandler(store.Pickups()),
		ListPickups:       queries.NewListPickupsQueryHandler(store.Pickups()),
		ListPickupsByCity: queries.NewListPickupsByCityQueryHandler(store.Pickups()),
		AuditConsistency:  queries.NewAuditConsistencyQueryHandler(store),
	}, nil)

	e, err := httpin.NewEcho(server, nil)
	require.NoError(t, err)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func newParcelBody(client string) map[string]any {
	return map[string]any{
		"clientName":   client,
		"productName":  "Argan oil",
		"city":         "Essaouira",
		"price":        "95.00",
		"allowOpening": true,
		"phone":        "0612345678",
		"address":      "Rue de la Skala",
	}
}

func createParcel(t *testing.T, e *echo.Echo, client string) queries.ParcelResponse {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/api/v1/parcels", newParcelBody(client))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[queries.ParcelResponse](t, rec)
}

func createPickup(t *testing.T, e *echo.Echo, parcelIDs ...string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, e, http.MethodPost, "/api/v1/pickups", map[string]any{
		"supplierName": "Cooperative Tiguemmi",
		"city":         "Essaouira",
		"phone":        "0524000000",
		"address":      "Route d'Agadir",
		"parcelIds":    parcelIDs,
	})
}

func TestHealth(t *testing.T) {
	e := newAPI(t)

	rec := do(t, e, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestParcelEndpoints(t *testing.T) {
	t.Run("create then get", func(t *testing.T) {
		// Given
		e := newAPI(t)
		created := createParcel(t, e, "Amine")

		// When
		rec := do(t, e, http.MethodGet, "/api/v1/parcels/"+created.ID, nil)

		// Then
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[queries.ParcelResponse](t, rec)
		assert.Equal(t, "Amine", got.ClientName)
		assert.Equal(t, "95.00", got.Price)
		assert.Equal(t, "EN TRANSIT", got.Status)
		assert.Nil(t, got.PickupRef)
	})

	t.Run("every invalid field is reported", func(t *testing.T) {
		e := newAPI(t)
		body := newParcelBody("  ")
		body["phone"] = "12"

		rec := do(t, e, http.MethodPost, "/api/v1/parcels", body)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		got := decode[httpin.Error](t, rec)
		assert.ElementsMatch(t, []string{"clientName", "phone"}, got.Fields)
	})

	t.Run("every missing field is reported together", func(t *testing.T) {
		// Given
		e := newAPI(t)
		body := map[string]any{"city": "Rabat", "notes": "x"}

		// When
		rec := do(t, e, http.MethodPost, "/api/v1/parcels", body)

		// Then
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		got := decode[httpin.Error](t, rec)
		assert.ElementsMatch(t,
			[]string{"clientName", "productName", "price", "phone", "address"},
			got.Fields,
		)
		assert.Empty(t, decode[[]queries.ParcelResponse](t, do(t, e, http.MethodGet, "/api/v1/parcels", nil)))
	})

	t.Run("price may be sent as a number", func(t *testing.T) {
		e := newAPI(t)
		body := newParcelBody("Amine")
		body["price"] = 95

		rec := do(t, e, http.MethodPost, "/api/v1/parcels", body)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "95.00", decode[queries.ParcelResponse](t, rec).Price)
	})

	t.Run("malformed price string is rejected by the document", func(t *testing.T) {
		e := newAPI(t)
		body := newParcelBody("Amine")
		body["price"] = "ninety"

		rec := do(t, e, http.MethodPost, "/api/v1/parcels", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("writing the status is an invariant violation", func(t *testing.T) {
		e := newAPI(t)
		created := createParcel(t, e, "Amine")

		rec := do(t, e, http.MethodPatch, "/api/v1/parcels/"+created.ID, map[string]any{"status": "RETOUR"})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, []string{"status"}, decode[httpin.Error](t, rec).Fields)
	})

	t.Run("patch changes only the given fields", func(t *testing.T) {
		e := newAPI(t)
		created := createParcel(t, e, "Amine")

		rec := do(t, e, http.MethodPatch, "/api/v1/parcels/"+created.ID, map[string]any{"city": "Safi"})

		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[queries.ParcelResponse](t, rec)
		assert.Equal(t, "Safi", got.City)
		assert.Equal(t, "Amine", got.ClientName)
	})

	t.Run("unknown parcel", func(t *testing.T) {
		e := newAPI(t)

		rec := do(t, e, http.MethodGet, "/api/v1/parcels/"+kernel.NewUUID().String(), nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		e := newAPI(t)

		rec := do(t, e, http.MethodGet, "/api/v1/parcels/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("return then delete", func(t *testing.T) {
		e := newAPI(t)
		created := createParcel(t, e, "Amine")

		rec := do(t, e, http.MethodPost, "/api/v1/parcels/"+created.ID+"/return", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "RETOUR", decode[queries.ParcelResponse](t, rec).Status)

		rec = do(t, e, http.MethodDelete, "/api/v1/parcels/"+created.ID, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = do(t, e, http.MethodGet, "/api/v1/parcels/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListParcels(t *testing.T) {
	// Given
	e := newAPI(t)
	free := createParcel(t, e, "Amine")
	claimed := createParcel(t, e, "Zineb")
	require.Equal(t, http.StatusCreated, createPickup(t, e, claimed.ID).Code)

	tests := []struct {
		name string
		path string
		code int
		want []string
	}{
		{name: "all", path: "/api/v1/parcels", code: http.StatusOK, want: []string{free.ID, claimed.ID}},
		{name: "claimable", path: "/api/v1/parcels?claimable=true", code: http.StatusOK, want: []string{free.ID}},
		{name: "search", path: "/api/v1/parcels?search=zin", code: http.StatusOK, want: []string{claimed.ID}},
		{name: "status", path: "/api/v1/parcels?status=EN%20TRANSIT", code: http.StatusOK, want: []string{free.ID}},
		{name: "empty result is an empty array", path: "/api/v1/parcels?search=nobody", code: http.StatusOK, want: []string{}},
		{name: "unknown status", path: "/api/v1/parcels?status=LOST", code: http.StatusBadRequest},
		{name: "claimable is not a boolean", path: "/api/v1/parcels?claimable=maybe", code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When
			rec := do(t, e, http.MethodGet, tt.path, nil)

			// Then
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code != http.StatusOK {
				return
			}
			got := decode[[]queries.ParcelResponse](t, rec)
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestPickupEndpoints(t *testing.T) {
	t.Run("create claims every parcel", func(t *testing.T) {
		// Given
		e := newAPI(t)
		p1, p2 := createParcel(t, e, "Amine"), createParcel(t, e, "Zineb")

		// When
		rec := createPickup(t, e, p1.ID, p2.ID)

		// Then
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		pk := decode[queries.PickupResponse](t, rec)
		assert.Equal(t, "PENDING", pk.Status)
		assert.Equal(t, []string{p1.ID, p2.ID}, pk.ParcelIDs)
		for _, id := range []string{p1.ID, p2.ID} {
			got := decode[queries.ParcelResponse](t, do(t, e, http.MethodGet, "/api/v1/parcels/"+id, nil))
			assert.Equal(t, "EN COURS DE LIVRAISON", got.Status)
			require.NotNil(t, got.PickupRef)
			assert.Equal(t, pk.ID, *got.PickupRef)
		}
	})

	t.Run("every missing field is reported together", func(t *testing.T) {
		e := newAPI(t)

		rec := do(t, e, http.MethodPost, "/api/v1/pickups", map[string]any{"city": "Rabat"})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		assert.ElementsMatch(t,
			[]string{"supplierName", "phone", "address", "parcelIds"},
			decode[httpin.Error](t, rec).Fields,
		)
	})

	t.Run("unknown parcel creates nothing", func(t *testing.T) {
		e := newAPI(t)
		p1 := createParcel(t, e, "Amine")

		rec := createPickup(t, e, p1.ID, kernel.NewUUID().String())

		assert.Equal(t, http.StatusConflict, rec.Code)
		pickups := decode[[]queries.PickupResponse](t, do(t, e, http.MethodGet, "/api/v1/pickups", nil))
		assert.Empty(t, pickups)
		got := decode[queries.ParcelResponse](t, do(t, e, http.MethodGet, "/api/v1/parcels/"+p1.ID, nil))
		assert.Equal(t, "EN TRANSIT", got.Status)
	})

	t.Run("claimed parcel cannot be deleted", func(t *testing.T) {
		e := newAPI(t)
		p1 := createParcel(t, e, "Amine")
		require.Equal(t, http.StatusCreated, createPickup(t, e, p1.ID).Code)

		rec := do(t, e, http.MethodDelete, "/api/v1/parcels/"+p1.ID, nil)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("cancel releases and a second cancel conflicts", func(t *testing.T) {
		// Given
		e := newAPI(t)
		p1 := createParcel(t, e, "Amine")
		pk := decode[queries.PickupResponse](t, createPickup(t, e, p1.ID))

		// When
		rec := do(t, e, http.MethodPost, "/api/v1/pickups/"+pk.ID+"/cancel", nil)

		// Then
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[httpin.CancelledPickup](t, rec)
		assert.Equal(t, "CANCELLED", got.Pickup.Status)
		assert.Equal(t, []string{p1.ID}, got.ReleasedParcelIDs)
		assert.Empty(t, got.Anomalies)
		parcel := decode[queries.ParcelResponse](t, do(t, e, http.MethodGet, "/api/v1/parcels/"+p1.ID, nil))
		assert.Equal(t, "EN TRANSIT", parcel.Status)

		rec = do(t, e, http.MethodPost, "/api/v1/pickups/"+pk.ID+"/cancel", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("complete then cancel is an invalid transition", func(t *testing.T) {
		e := newAPI(t)
		p1 := createParcel(t, e, "Amine")
		pk := decode[queries.PickupResponse](t, createPickup(t, e, p1.ID))

		rec := do(t, e, http.MethodPost, "/api/v1/pickups/"+pk.ID+"/complete", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "COMPLETED", decode[queries.PickupResponse](t, rec).Status)

		rec = do(t, e, http.MethodPost, "/api/v1/pickups/"+pk.ID+"/cancel", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("only cancelled pickups can be deleted", func(t *testing.T) {
		e := newAPI(t)
		p1 := createParcel(t, e, "Amine")
		pk := decode[queries.PickupResponse](t, createPickup(t, e, p1.ID))

		assert.Equal(t, http.StatusConflict, do(t, e, http.MethodDelete, "/api/v1/pickups/"+pk.ID, nil).Code)
		require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, "/api/v1/pickups/"+pk.ID+"/cancel", nil).Code)
		assert.Equal(t, http.StatusNoContent, do(t, e, http.MethodDelete, "/api/v1/pickups/"+pk.ID, nil).Code)
		assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodGet, "/api/v1/pickups/"+pk.ID, nil).Code)
	})

	t.Run("claim list cannot be edited", func(t *testing.T) {
		e := newAPI(t)
		p1, p2 := createParcel(t, e, "Amine"), createParcel(t, e, "Zineb")
		pk := decode[queries.PickupResponse](t, createPickup(t, e, p1.ID))

		rec := do(t, e, http.MethodPatch, "/api/v1/pickups/"+pk.ID, map[string]any{"parcelIds": []string{p2.ID}})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("grouped by city", func(t *testing.T) {
		e := newAPI(t)
		p1 := createParcel(t, e, "Amine")
		require.Equal(t, http.StatusCreated, createPickup(t, e, p1.ID).Code)

		rec := do(t, e, http.MethodGet, "/api/v1/pickups/by-city", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		groups := decode[[]queries.CityPickupsResponse](t, rec)
		require.Len(t, groups, 1)
		assert.Equal(t, "Essaouira", groups[0].City)
		assert.Len(t, groups[0].Pickups, 1)
	})
}

func TestReports(t *testing.T) {
	// Given
	e := newAPI(t)
	p1 := createParcel(t, e, "Amine")
	createParcel(t, e, "Zineb")
	require.Equal(t, http.StatusCreated, createPickup(t, e, p1.ID).Code)

	t.Run("stats", func(t *testing.T) {
		rec := do(t, e, http.MethodGet, "/api/v1/parcels/stats", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		stats := decode[queries.ParcelStatsResponse](t, rec)
		assert.Equal(t, 2, stats.Total)
		assert.Equal(t, 1, stats.Claimable)
		assert.Equal(t, 1, stats.ByStatus["EN COURS DE LIVRAISON"])
		assert.Equal(t, 1, stats.PickupsByStatus["PENDING"])
	})

	t.Run("audit of a consistent store", func(t *testing.T) {
		rec := do(t, e, http.MethodGet, "/api/v1/audit", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		report := decode[queries.AuditConsistencyResponse](t, rec)
		assert.True(t, report.Consistent())
		assert.Equal(t, 2, report.Parcels)
		assert.Equal(t, 1, report.Pickups)
	})
}
