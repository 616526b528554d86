package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	httpin "parceltrack/internal/adapters/in/http"
	badgerstore "parceltrack/internal/adapters/out/badger"
	"parceltrack/internal/adapters/out/memory"
	"parceltrack/internal/adapters/out/postgres"
	"parceltrack/internal/adapters/out/snapshot"
	sqlitestore "parceltrack/internal/adapters/out/sqlite"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/jobs"

	"github.com/labstack/echo/v4"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// CompositionRoot owns the store and its snapshot backend and builds every
// handler on top of them.
type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	store      *memory.Store
	uowFactory *memory.UnitOfWorkFactory
	closers    []func() error
}

// NewCompositionRoot opens the configured snapshot backend and restores the
// store from it.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{cfg: cfg, logger: logger}

	snapshots, err := c.openSnapshotStore()
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.store = memory.NewStore(snapshot.NewPersister(snapshots, time.Now, logger), logger)
	c.uowFactory = memory.NewUnitOfWorkFactory(c.store)

	if err = c.store.Restore(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("restore state from %s backend: %w", cfg.SnapshotBackend, err)
	}

	logger.InfoContext(ctx, "composition root ready", "backend", cfg.SnapshotBackend)
	return c, nil
}

func (c *CompositionRoot) openSnapshotStore() (ports.SnapshotStore, error) {
	switch c.cfg.SnapshotBackend {
	case BackendBadger:
		db, err := badgerstore.Open(c.cfg.BadgerPath)
		if err != nil {
			return nil, fmt.Errorf("open badger at %s: %w", c.cfg.BadgerPath, err)
		}
		c.closers = append(c.closers, db.Close)
		return badgerstore.NewSnapshotStore(db), nil

	case BackendSQLite:
		if dir := filepath.Dir(c.cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		db, err := sqlitestore.Open(c.cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite at %s: %w", c.cfg.SQLitePath, err)
		}
		c.closers = append(c.closers, db.Close)
		return sqlitestore.NewSnapshotStore(db, time.Now), nil

	case BackendPostgres:
		gormDB, err := gorm.Open(gorm_postgres.Open(c.cfg.PostgresDSN()), &gorm.Config{
			Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("get postgres connection pool: %w", err)
		}
		c.closers = append(c.closers, sqlDB.Close)
		if err = postgres.Migrate(gormDB); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return postgres.NewGormSnapshotStore(gormDB, time.Now), nil

	default:
		return memory.NewSnapshotStore(), nil
	}
}

// Close releases the snapshot backend.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CompositionRoot) Store() *memory.Store {
	return c.store
}

func (c *CompositionRoot) parcelUoWFactory() commands.ParcelUoWFactory {
	return FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) pickupUoWFactory() commands.PickupUoWFactory {
	return FuncPickupUoWFactory(func() commands.PickupUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) bothUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateParcelCommandHandler() commands.CreateParcelCommandHandler {
	return commands.NewCreateParcelCommandHandler(c.parcelUoWFactory(), nil)
}

func (c *CompositionRoot) CreateUpdateParcelCommandHandler() commands.UpdateParcelCommandHandler {
	return commands.NewUpdateParcelCommandHandler(c.parcelUoWFactory())
}

func (c *CompositionRoot) CreateDeleteParcelCommandHandler() commands.DeleteParcelCommandHandler {
	return commands.NewDeleteParcelCommandHandler(c.parcelUoWFactory())
}

func (c *CompositionRoot) CreateReturnParcelCommandHandler() commands.ReturnParcelCommandHandler {
	return commands.NewReturnParcelCommandHandler(c.parcelUoWFactory())
}

func (c *CompositionRoot) CreateCreatePickupCommandHandler() commands.CreatePickupCommandHandler {
	return commands.NewCreatePickupCommandHandler(c.bothUoWFactory(), nil)
}

func (c *CompositionRoot) CreateUpdatePickupCommandHandler() commands.UpdatePickupCommandHandler {
	return commands.NewUpdatePickupCommandHandler(c.pickupUoWFactory())
}

func (c *CompositionRoot) CreateCompletePickupCommandHandler() commands.CompletePickupCommandHandler {
	return commands.NewCompletePickupCommandHandler(c.pickupUoWFactory())
}

func (c *CompositionRoot) CreateCancelPickupCommandHandler() commands.CancelPickupCommandHandler {
	return commands.NewCancelPickupCommandHandler(c.bothUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateDeletePickupCommandHandler() commands.DeletePickupCommandHandler {
	return commands.NewDeletePickupCommandHandler(c.pickupUoWFactory())
}

func (c *CompositionRoot) CreateAuditConsistencyQueryHandler() queries.AuditConsistencyQueryHandler {
	return queries.NewAuditConsistencyQueryHandler(c.store)
}

// NewHTTPServer builds the echo instance with every route wired.
func (c *CompositionRoot) NewHTTPServer() (*echo.Echo, error) {
	server := httpin.NewServer(httpin.Handlers{
		CreateParcel:   c.CreateCreateParcelCommandHandler(),
		UpdateParcel:   c.CreateUpdateParcelCommandHandler(),
		DeleteParcel:   c.CreateDeleteParcelCommandHandler(),
		ReturnParcel:   c.CreateReturnParcelCommandHandler(),
		CreatePickup:   c.CreateCreatePickupCommandHandler(),
		UpdatePickup:   c.CreateUpdatePickupCommandHandler(),
		CompletePickup: c.CreateCompletePickupCommandHandler(),
		CancelPickup:   c.CreateCancelPickupCommandHandler(),
		DeletePickup:   c.CreateDeletePickupCommandHandler(),

		GetParcel:         queries.NewGetParcelQueryHandler(c.store.Parcels()),
		ListParcels:       queries.NewListParcelsQueryHandler(c.store.Parcels()),
		GetParcelStats:    queries.NewGetParcelStatsQueryHandler(c.store.Parcels(), c.store.Pickups()),
		GetPickup:         queries.NewGetPickupQueryHandler(c.store.Pickups()),
		ListPickups:       queries.NewListPickupsQueryHandler(c.store.Pickups()),
		ListPickupsByCity: queries.NewListPickupsByCityQueryHandler(c.store.Pickups()),
		AuditConsistency:  c.CreateAuditConsistencyQueryHandler(),
	}, c.logger)

	return httpin.NewEcho(server, c.logger)
}

func (c *CompositionRoot) NewAuditJob() *jobs.ConsistencyAuditJob {
	return jobs.NewConsistencyAuditJob(c.CreateAuditConsistencyQueryHandler(), c.cfg.AuditSchedule, c.logger)
}

// NewJobManager builds the audit job and, for durable backends, the resync
// job.
func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	audit := c.NewAuditJob()

	var resync *jobs.SnapshotResyncJob
	if c.cfg.IsDurable() {
		resync = jobs.NewSnapshotResyncJob(c.store, c.cfg.ResyncSchedule, c.logger)
	}
	return jobs.NewJobManager(audit, resync)
}

// Persist writes the current state to the snapshot backend.
func (c *CompositionRoot) Persist(ctx context.Context) error {
	_, err := c.store.Resync(ctx)
	return err
}

type FuncParcelUoWFactory func() commands.ParcelUoW

func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}

type FuncPickupUoWFactory func() commands.PickupUoW

func (f FuncPickupUoWFactory) Create() commands.PickupUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
