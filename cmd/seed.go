package cmd

import (
	"context"
	"errors"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/pickup"
	"parceltrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// SeedResult tells what Seed created.
type SeedResult struct {
	Parcels int
	Pickups int
}

func demoParcels() []parcel.Details {
	return []parcel.Details{
		{
			ClientName: "Fatima Zahra", ProductName: "Tajine en terre cuite", City: "Marrakech",
			Price: decimal.RequireFromString("180.00"), AllowOpening: true,
			Phone: "0661234567", Address: "12 Derb Dabachi, Medina",
		},
		{
			ClientName: "Youssef Alaoui", ProductName: "Babouches cuir", City: "Marrakech",
			Price: decimal.RequireFromString("250.00"),
			Phone: "0662345678", Address: "45 Avenue Mohammed VI", Notes: "Taille 42",
		},
		{
			ClientName: "Salma Bennani", ProductName: "Huile d'argan 250ml", City: "Casablanca",
			Price: decimal.RequireFromString("120.50"), AllowOpening: true,
			Phone: "0663456789", Address: "8 Rue Tahar Sebti, Maarif",
		},
		{
			ClientName: "Omar Tazi", ProductName: "Lanterne en cuivre", City: "Fes",
			Price: decimal.RequireFromString("340.00"),
			Phone: "0664567890", Address: "3 Talaa Kebira",
		},
	}
}

func demoPickup() pickup.Details {
	return pickup.Details{
		SupplierName: "Coopérative Atlas",
		City:         "Marrakech",
		Phone:        "0524445566",
		Address:      "Zone Industrielle Sidi Ghanem",
		Notes:        "Passer avant 16h",
	}
}

// Seed fills an empty store with demo parcels and one pending pickup claiming
// the first two, going through the regular command handlers. A store that
// already holds data is left alone.
func (c *CompositionRoot) Seed(ctx context.Context) (SeedResult, error) {
	var result SeedResult
	if !c.store.IsEmpty() {
		return result, nil
	}

	createParcel := c.CreateCreateParcelCommandHandler()
	ids := make([]kernel.UUID, 0, len(demoParcels()))
	for _, details := range demoParcels() {
		cmd, err := commands.NewCreateParcelCommand(kernel.NewUUID(), details)
		if err != nil {
			return result, err
		}
		p, err := createParcel.Handle(ctx, cmd)
		if err != nil && !errors.Is(err, errs.ErrPersistence) {
			return result, err
		}
		ids = append(ids, p.ID())
		result.Parcels++
	}

	cmd, err := commands.NewCreatePickupCommand(kernel.NewUUID(), demoPickup(), ids[:2])
	if err != nil {
		return result, err
	}
	if _, err = c.CreateCreatePickupCommandHandler().Handle(ctx, cmd); err != nil && !errors.Is(err, errs.ErrPersistence) {
		return result, err
	}
	result.Pickups++

	c.logger.InfoContext(ctx, "demo data seeded", "parcels", result.Parcels, "pickups", result.Pickups)
	return result, c.Persist(ctx)
}
