package infra

import (
	"testing"
	"time"

	"adetta/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatabaseURL(t *testing.T) {
	cases := []struct {
		raw     string
		dialect Dialect
		dsn     string
	}{
		{"", DialectSQLite, "adetta_lite.db?_foreign_keys=1"},
		{"sqlite://data/ledger.db", DialectSQLite, "data/ledger.db?_foreign_keys=1"},
		{"ledger.db", DialectSQLite, "ledger.db?_foreign_keys=1"},
		{"file:x?mode=memory&cache=shared", DialectSQLite, "file:x?mode=memory&cache=shared&_foreign_keys=1"},
		{"ledger.db?_foreign_keys=0", DialectSQLite, "ledger.db?_foreign_keys=0"},
		{` "postgres://u:p@db:5432/adetta?sslmode=disable" `, DialectPostgres, "postgres://u:p@db:5432/adetta?sslmode=disable"},
		{"postgresql://u@db/adetta", DialectPostgres, "postgresql://u@db/adetta"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			d, dsn := ParseDatabaseURL(tc.raw)
			assert.Equal(t, tc.dialect, d)
			assert.Equal(t, tc.dsn, dsn)
		})
	}
}

func TestNewDatabase_EnforcesForeignKeys(t *testing.T) {
	db, err := NewDatabase("file:infra_fk?mode=memory&cache=shared", false)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	// migrations are idempotent
	require.NoError(t, RunMigrations(db))

	orphan := &model.Delivery{
		Date:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CustomerID: 41,
		ProductID:  42,
		Quantity:   1,
		UnitPrice:  decimal.NewFromInt(1),
	}
	assert.Error(t, db.Omit("Customer", "Product").Create(orphan).Error)

	p := &model.Product{Name: "Oil", SKU: "OIL", Price: decimal.NewFromInt(5)}
	require.NoError(t, db.Create(p).Error)
	dup := &model.Product{Name: "Oil again", SKU: "OIL"}
	assert.Error(t, db.Create(dup).Error, "sku is unique")
}
