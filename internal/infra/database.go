package infra

import (
	"fmt"
	"strings"

	"adetta/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialect names the backing store selected by a connection string.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDatabaseURL splits a connection string into dialect and driver DSN.
// postgres:// and postgresql:// select Postgres and are passed through
// unchanged; sqlite:// is stripped; anything else is a SQLite file path.
// SQLite DSNs always get foreign key enforcement switched on.
func ParseDatabaseURL(raw string) (Dialect, string) {
	s := strings.Trim(strings.TrimSpace(raw), "\"'")
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres, s
	}
	s = strings.TrimPrefix(s, "sqlite://")
	s = strings.TrimPrefix(s, "sqlite:")
	if s == "" {
		s = "adetta_lite.db"
	}
	if !strings.Contains(s, "_foreign_keys") {
		sep := "?"
		if strings.Contains(s, "?") {
			sep = "&"
		}
		s += sep + "_foreign_keys=1"
	}
	return DialectSQLite, s
}

// NewDatabase opens the store selected by databaseURL and brings the schema
// up to date. debug switches the GORM logger to Info.
func NewDatabase(databaseURL string, debug bool) (*gorm.DB, error) {
	dialect, dsn := ParseDatabaseURL(databaseURL)

	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var (
		db  *gorm.DB
		err error
	)
	switch dialect {
	case DialectPostgres:
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
	default:
		db, err = gorm.Open(sqlite.Open(dsn), gcfg)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite {
		// One writer at a time; the file lock is the isolation boundary.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every ledger table, then applies the
// idempotent patches AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	// Referenced tables first so foreign keys resolve.
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Customer{},
		&model.Delivery{},
		&model.Invoice{},
		&model.Payment{},
		&model.Expense{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements valid on both SQLite and
// Postgres. Each uses IF NOT EXISTS so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// payment history is read per invoice in date order
		`CREATE INDEX IF NOT EXISTS idx_payments_invoice_paid_at ON payments (invoice_id, paid_at)`,
		// recent deliveries and revenue-by-customer scans
		`CREATE INDEX IF NOT EXISTS idx_deliveries_customer_date ON deliveries (customer_id, date)`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
