package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Snapshot backends.
const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// ErrVolatileBackend is returned by commands that inspect persisted snapshots
// when the memory backend, which keeps nothing between runs, is configured.
var ErrVolatileBackend = errors.New("memory backend keeps no snapshots between runs")

type Config struct {
	HTTPPort        string
	SnapshotBackend string
	BadgerPath      string
	SQLitePath      string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSslMode       string
	AuditSchedule   string
	ResyncSchedule  string
	SeedDemoData    bool
	LogLevel        string
}

// LoadConfig reads envFile when it exists, then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("SNAPSHOT_BACKEND", BackendMemory)
	v.SetDefault("BADGER_PATH", "data/badger")
	v.SetDefault("SQLITE_PATH", "data/parceltrack.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "parceltrack")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("AUDIT_SCHEDULE", "0 */10 * * * *")
	v.SetDefault("RESYNC_SCHEDULE", "30 */5 * * * *")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := Config{
		HTTPPort:        v.GetString("HTTP_PORT"),
		SnapshotBackend: v.GetString("SNAPSHOT_BACKEND"),
		BadgerPath:      v.GetString("BADGER_PATH"),
		SQLitePath:      v.GetString("SQLITE_PATH"),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBUser:          v.GetString("DB_USER"),
		DBPassword:      v.GetString("DB_PASSWORD"),
		DBName:          v.GetString("DB_NAME"),
		DBSslMode:       v.GetString("DB_SSLMODE"),
		AuditSchedule:   v.GetString("AUDIT_SCHEDULE"),
		ResyncSchedule:  v.GetString("RESYNC_SCHEDULE"),
		SeedDemoData:    v.GetBool("SEED_DEMO_DATA"),
		LogLevel:        v.GetString("LOG_LEVEL"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	backends := []string{BackendMemory, BackendBadger, BackendSQLite, BackendPostgres}
	if !slices.Contains(backends, c.SnapshotBackend) {
		return fmt.Errorf("SNAPSHOT_BACKEND must be one of %v, got %q", backends, c.SnapshotBackend)
	}
	if c.HTTPPort == "" {
		return errors.New("HTTP_PORT must not be empty")
	}
	return nil
}

// IsDurable reports whether the configured backend outlives the process.
func (c Config) IsDurable() bool {
	return c.SnapshotBackend != BackendMemory
}

// RequireDurable fails with ErrVolatileBackend unless IsDurable.
func (c Config) RequireDurable() error {
	if !c.IsDurable() {
		return fmt.Errorf("%w: set SNAPSHOT_BACKEND to %s, %s or %s",
			ErrVolatileBackend, BackendBadger, BackendSQLite, BackendPostgres)
	}
	return nil
}

// PostgresDSN builds the connection string for the postgres backend.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
