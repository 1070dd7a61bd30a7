package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestDecrementStockTx_Guarded(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)
	stmt := regexp.QuoteMeta(`UPDATE "products" SET "stock"=stock - $1 WHERE id = $2 AND stock >= $3`)

	mock.ExpectExec(stmt).WithArgs(5, 7, 5).WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.DecrementStockTx(db, 7, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(stmt).WithArgs(9, 7, 9).WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.DecrementStockTx(db, 7, 9)
	require.NoError(t, err)
	assert.False(t, ok, "guard rejected")

	mock.ExpectExec(stmt).WithArgs(1, 7, 1).WillReturnError(errors.New("connection reset"))
	_, err = repo.DecrementStockTx(db, 7, 1)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDForUpdateTx_LocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "sku", "price", "stock", "min_stock", "created_at"}).
		AddRow(3, "Olive oil 1L", "OIL-1L", "10.00", 40, 5, time.Now())
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE "products"\."id" = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
		WillReturnRows(rows)

	p, err := repo.FindByIDForUpdateTx(db, 3)
	require.NoError(t, err)
	assert.Equal(t, "OIL-1L", p.SKU)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, 40, p.Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSumByInvoice_DecimalExact(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "amount" FROM "payments" WHERE invoice_id = $1`)).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow("0.10").AddRow("0.10").AddRow("0.10"))

	total, err := repo.SumByInvoice(context.Background(), 12)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("0.30")), "got %s", total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
