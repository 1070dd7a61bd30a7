package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"adetta/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPeriodSince(t *testing.T) {
	pinToday(t, time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC))

	since, label, err := periodSince("")
	require.NoError(t, err)
	assert.Equal(t, "30", label)
	assert.Equal(t, "2024-01-31", formatDate(*since))

	since, _, err = periodSince("90")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-02", formatDate(*since))

	since, label, err = periodSince("all")
	require.NoError(t, err)
	assert.Nil(t, since)
	assert.Equal(t, "all", label)

	_, _, err = periodSince("14")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseDate(t *testing.T) {
	pinToday(t, time.Date(2024, 2, 29, 18, 0, 0, 0, time.FixedZone("X", 5*3600)))

	d, err := parseDate("date", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("date", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", formatDate(d.AddDate(0, 0, 30)))

	_, err = parseDate("paid_at", "31.01.2024")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "paid_at", verr.Field)
}

func TestCheckAmountAndPrice(t *testing.T) {
	assert.NoError(t, checkAmount("amount", dec("0.01")))
	assert.NoError(t, checkAmount("amount", dec("12.50")))
	assert.ErrorIs(t, checkAmount("amount", dec("0")), ErrValidation)
	assert.ErrorIs(t, checkAmount("amount", dec("1.001")), ErrValidation)

	assert.NoError(t, checkPrice("price", dec("0")))
	assert.ErrorIs(t, checkPrice("price", dec("-0.01")), ErrValidation)
	assert.ErrorIs(t, checkPrice("price", dec("0.005")), ErrValidation)
}

func TestErrorKinds(t *testing.T) {
	domain := []error{
		invalid("x", "bad"),
		&NotFoundError{Entity: "invoice", ID: 1},
		&InsufficientStockError{ProductID: 1, Available: 1, Requested: 2},
		&MissingPriceError{ProductID: 1, Name: "Oil"},
		&OverpaymentError{InvoiceID: 1, Amount: dec("2"), OpenBalance: dec("1")},
	}
	for _, err := range domain {
		t.Run(fmt.Sprintf("%T", err), func(t *testing.T) {
			assert.Same(t, err, storageErr("op", err), "domain errors pass through")
			assert.False(t, errors.Is(err, ErrStorage))
		})
	}

	raw := errors.New("disk I/O error")
	wrapped := storageErr("create payment", raw)
	assert.ErrorIs(t, wrapped, ErrStorage)
	assert.ErrorIs(t, wrapped, raw)
	assert.Equal(t, "create payment: disk I/O error", wrapped.Error())
	assert.Same(t, wrapped, storageErr("outer", wrapped), "never double wrapped")

	assert.Nil(t, storageErr("op", nil))

	nf := lookupErr("load", "delivery", 9, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, nf, ErrNotFound)
	assert.Equal(t, "delivery 9 not found", nf.Error())
	assert.ErrorIs(t, lookupErr("load", "delivery", 9, raw), ErrStorage)
}

func TestRunTx_CommitsOrRollsBack(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := runTx(ctx, env.db, func(tx *gorm.DB) error {
		require.NoError(t, tx.Create(&model.Customer{Name: "Rolled back", Terms: 30}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, env.count(t, &model.Customer{}))

	err = runTx(ctx, env.db, func(tx *gorm.DB) error {
		return tx.Create(&model.Customer{Name: "Committed", Terms: 30}).Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), env.count(t, &model.Customer{}))
}
