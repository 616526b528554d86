package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parceltrack/cmd"
	"parceltrack/internal/core/application/usecases/queries"

	"github.com/fatih/color"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var errAnomaliesFound = errors.New("consistency anomalies found")

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "parceltrack",
		Short: "Parcels, pickups and the claims between them",
		Long: `parceltrack keeps parcels and the pickups that collect them consistent.
A pickup claims its parcels when created and releases them when cancelled;
both collections are persisted as snapshots in the configured backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")

	rootCmd.AddCommand(serveCmd(&envFile))
	rootCmd.AddCommand(auditCmd(&envFile))
	rootCmd.AddCommand(seedCmd(&envFile))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func bootstrap(ctx context.Context, envFile string) (cmd.Config, *cmd.CompositionRoot, *slog.Logger, error) {
	config, err := cmd.LoadConfig(envFile)
	if err != nil {
		return cmd.Config{}, nil, nil, err
	}

	logger := newLogger(config.LogLevel)
	app, err := cmd.NewCompositionRoot(ctx, config, logger)
	if err != nil {
		return cmd.Config{}, nil, nil, err
	}
	return config, app, logger, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func closeApp(app *cmd.CompositionRoot, logger *slog.Logger) {
	if err := app.Close(); err != nil {
		logger.Error("failed to close snapshot backend", "error", err)
	}
}

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled jobs",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			config, app, logger, err := bootstrap(ctx, *envFile)
			if err != nil {
				return err
			}
			defer closeApp(app, logger)

			if config.SeedDemoData {
				if _, err = app.Seed(ctx); err != nil {
					return fmt.Errorf("seed demo data: %w", err)
				}
			}

			if _, err = app.NewAuditJob().Run(ctx); err != nil {
				return fmt.Errorf("startup audit: %w", err)
			}

			jobManager := app.NewJobManager()
			if err = jobManager.StartAll(); err != nil {
				return err
			}
			defer jobManager.StopAll()

			e, err := app.NewHTTPServer()
			if err != nil {
				return err
			}

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort))
			}()
			logger.InfoContext(ctx, "http server started", "port", config.HTTPPort)

			select {
			case err = <-serveErr:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err = e.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown http server: %w", err)
			}
			logger.Info("http server stopped")
			return nil
		},
	}
}

func auditCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check the persisted parcels and pickups for broken references",
		Long: `Loads both snapshots and cross-checks them. Every anomaly is printed;
the command exits non-zero when any is found. Nothing is repaired.
Requires a durable SNAPSHOT_BACKEND: the memory backend has nothing to audit.`,
		RunE: func(c *cobra.Command, _ []string) error {
			config, err := cmd.LoadConfig(*envFile)
			if err != nil {
				return err
			}
			if err = config.RequireDurable(); err != nil {
				return err
			}

			_, app, logger, err := bootstrap(c.Context(), *envFile)
			if err != nil {
				return err
			}
			defer closeApp(app, logger)

			report, err := app.CreateAuditConsistencyQueryHandler().Handle(c.Context(), queries.NewAuditConsistencyQuery())
			if err != nil {
				return err
			}

			printReport(report)
			if !report.Consistent() {
				return fmt.Errorf("%w: %d", errAnomaliesFound, len(report.Anomalies))
			}
			return nil
		},
	}
}

func printReport(report queries.AuditConsistencyResponse) {
	fmt.Printf("Parcels: %d\n", report.Parcels)
	fmt.Printf("Pickups: %d\n", report.Pickups)
	fmt.Println()

	if report.Consistent() {
		fmt.Printf("%s no anomalies\n", color.New(color.FgGreen).Sprint("OK"))
		return
	}

	for _, a := range report.Anomalies {
		fmt.Printf("%s %-18s parcel %s  pickup %s\n",
			color.New(color.FgRed).Sprint("ANOMALY"),
			color.New(color.FgYellow).Sprint(a.Kind),
			a.ParcelID,
			a.PickupID,
		)
		fmt.Printf("        %s\n", a.Detail)
	}
}

func seedCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create demo parcels and a pending pickup when the store is empty",
		RunE: func(c *cobra.Command, _ []string) error {
			_, app, logger, err := bootstrap(c.Context(), *envFile)
			if err != nil {
				return err
			}
			defer closeApp(app, logger)

			result, err := app.Seed(c.Context())
			if err != nil {
				return err
			}

			if result.Parcels == 0 {
				fmt.Printf("%s store already holds data, nothing seeded\n", color.New(color.FgYellow).Sprint("SKIP"))
				return nil
			}
			fmt.Printf("%s %d parcels, %d pickup\n", color.New(color.FgGreen).Sprint("SEEDED"), result.Parcels, result.Pickups)
			return nil
		},
	}
}
