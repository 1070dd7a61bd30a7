package service

import (
	"context"
	"errors"
	"testing"

	"adetta/internal/dto"
	"adetta/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookDelivery_IssuesInvoiceAndDecrementsStock(t *testing.T) {
	env := newLedgerEnv(t)
	p := env.product(t, "OIL-1L", "10.00", 100)
	c := env.customer(t, "Corner Deli", 30)

	d := env.book(t, c.ID, p.ID, 20, "2024-01-01")

	require.NotNil(t, d.Invoice)
	assert.Equal(t, "2024-01-01", d.Date)
	assert.True(t, d.UnitPrice.Equal(dec("10.00")))
	assert.True(t, d.Invoice.Total.Equal(dec("200.00")), "total %s", d.Invoice.Total)
	assert.Equal(t, "2024-01-01", d.Invoice.IssuedAt)
	assert.Equal(t, "2024-01-31", d.Invoice.DueAt)
	assert.Equal(t, string(model.InvoiceOpen), d.Invoice.Status)
	assert.Equal(t, 80, env.stockOf(t, p.ID))

	assert.EqualValues(t, 1, env.count(t, &model.Delivery{}))
	assert.EqualValues(t, 1, env.count(t, &model.Invoice{}))
	env.requireStatusConsistent(t, d.Invoice.ID)
}

func TestBookDelivery_TotalUsesExactDecimal(t *testing.T) {
	env := newLedgerEnv(t)
	p := env.product(t, "FIG-250", "0.10", 1000)
	c := env.customer(t, "Harbour Cafe", 30)

	d := env.book(t, c.ID, p.ID, 3, "2024-01-02")

	// 3 × 0.10 is 0.30 exactly, not 0.30000000000000004
	assert.Equal(t, "0.30", d.Invoice.Total.StringFixed(2))
	assert.True(t, d.Invoice.Total.Equal(dec("0.3")))
}

func TestBookDelivery_ZeroTermsDueSameDay(t *testing.T) {
	env := newLedgerEnv(t)
	p := env.product(t, "HON-500", "6.20", 10)
	c := env.customer(t, "Cash Only", 0)

	d := env.book(t, c.ID, p.ID, 1, "2024-01-10")

	assert.Equal(t, "2024-01-10", d.Invoice.DueAt)
}

func TestBookDelivery_EmptyDateIsToday(t *testing.T) {
	env := newLedgerEnv(t)
	p := env.product(t, "HON-500", "6.20", 10)
	c := env.customer(t, "Corner Deli", 14)

	d := env.book(t, c.ID, p.ID, 1, "")

	assert.Equal(t, "2024-01-15", d.Date)
	assert.Equal(t, "2024-01-29", d.Invoice.DueAt)
}

func TestBookDelivery_InsufficientStockChangesNothing(t *testing.T) {
	env := newLedgerEnv(t)
	p := env.product(t, "OIL-1L", "10.00", 5)
	c := env.customer(t, "Corner Deli", 30)

	_, err := env.stock.BookDelivery(context.Background(), dto.BookDeliveryRequest{
		CustomerID: c.ID, ProductID: p.ID, Quantity: 6,
	})

	require.ErrorIs(t, err, ErrInsufficientStock)
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)

	assert.Equal(t, 5, env.stockOf(t, p.ID))
	assert.Zero(t, env.count(t, &model.Delivery{}))
	assert.Zero(t, env.count(t, &model.Invoice{}))
}

func TestBookDelivery_ExactStockLeavesZero(t *testing.T) {
	env := newLedgerEnv(t)
	p := env.product(t, "OIL-1L", "10.00", 5)
	c := env.customer(t, "Corner Deli", 30)

	env.book(t, c.ID, p.ID, 5, "")

	assert.Equal(t, 0, env.stockOf(t, p.ID))
}

func TestBookDelivery_MissingPriceIsRejected(t *testing.T) {
	env := newLedgerEnv(t)
	p := env.product(t, "FREE-1", "0", 50)
	c := env.customer(t, "Corner Deli", 30)

	_, err := env.stock.BookDelivery(context.Background(), dto.BookDeliveryRequest{
		CustomerID: c.ID, ProductID: p.ID, Quantity: 1,
	})

	require.ErrorIs(t, err, ErrMissingPrice)
	assert.Equal(t, 50, env.stockOf(t, p.ID))
	assert.Zero(t, env.count(t, &model.Delivery{}))
	assert.Zero(t, env.count(t, &model.Invoice{}))
}

func TestBookDelivery_Validation(t *testing.T) {
	env := newLedgerEnv(t)
	p := env.product(t, "OIL-1L", "10.00", 5)
	c := env.customer(t, "Corner Deli", 30)

	cases := []struct {
		name string
		req  dto.BookDeliveryRequest
	}{
		{"zero quantity", dto.BookDeliveryRequest{CustomerID: c.ID, ProductID: p.ID, Quantity: 0}},
		{"negative quantity", dto.BookDeliveryRequest{CustomerID: c.ID, ProductID: p.ID, Quantity: -2}},
		{"no customer", dto.BookDeliveryRequest{ProductID: p.ID, Quantity: 1}},
		{"no product", dto.BookDeliveryRequest{CustomerID: c.ID, Quantity: 1}},
		{"bad date", dto.BookDeliveryRequest{CustomerID: c.ID, ProductID: p.ID, Quantity: 1, Date: "15/01/2024"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.stock.BookDelivery(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Equal(t, 5, env.stockOf(t, p.ID))
}

func TestBookDelivery_UnknownReferences(t *testing.T) {
	env := newLedgerEnv(t)
	p := env.product(t, "OIL-1L", "10.00", 5)
	c := env.customer(t, "Corner Deli", 30)

	_, err := env.stock.BookDelivery(context.Background(), dto.BookDeliveryRequest{
		CustomerID: 999, ProductID: p.ID, Quantity: 1,
	})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "customer", nf.Entity)

	_, err = env.stock.BookDelivery(context.Background(), dto.BookDeliveryRequest{
		CustomerID: c.ID, ProductID: 999, Quantity: 1,
	})
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "product", nf.Entity)
}

func TestBookDelivery_CapturesPriceAtBookingTime(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.product(t, "OIL-1L", "10.00", 100)
	c := env.customer(t, "Corner Deli", 30)
	d := env.book(t, c.ID, p.ID, 2, "2024-01-03")

	_, err := env.productSvc.Update(ctx, p.ID, dto.UpdateProductRequest{
		Name: p.Name, SKU: p.SKU, Price: dec("12.50"),
	})
	require.NoError(t, err)

	inv, err := env.invoiceSvc.Get(ctx, d.Invoice.ID)
	require.NoError(t, err)
	assert.True(t, inv.Total.Equal(dec("20.00")))
}

func TestBookDeliveries_AllOrNothing(t *testing.T) {
	env := newLedgerEnv(t)
	oil := env.product(t, "OIL-1L", "8.50", 10)
	honey := env.product(t, "HON-500", "6.20", 2)
	c := env.customer(t, "Corner Deli", 30)

	_, err := env.stock.BookDeliveries(context.Background(), dto.BookDeliveriesRequest{
		CustomerID: c.ID,
		Lines: []dto.DeliveryLineRequest{
			{ProductID: oil.ID, Quantity: 4},
			{ProductID: honey.ID, Quantity: 3},
		},
	})

	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 10, env.stockOf(t, oil.ID), "first line must roll back")
	assert.Equal(t, 2, env.stockOf(t, honey.ID))
	assert.Zero(t, env.count(t, &model.Delivery{}))
	assert.Zero(t, env.count(t, &model.Invoice{}))
}

func TestBookDeliveries_OneInvoicePerLine(t *testing.T) {
	env := newLedgerEnv(t)
	oil := env.product(t, "OIL-1L", "8.50", 10)
	honey := env.product(t, "HON-500", "6.20", 5)
	c := env.customer(t, "Corner Deli", 30)

	resp, err := env.stock.BookDeliveries(context.Background(), dto.BookDeliveriesRequest{
		CustomerID: c.ID,
		Date:       "2024-01-05",
		Lines: []dto.DeliveryLineRequest{
			{ProductID: oil.ID, Quantity: 2},
			{ProductID: honey.ID, Quantity: 0},
			{ProductID: honey.ID, Quantity: 5},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Deliveries, 2, "zero quantity lines are skipped")
	assert.True(t, resp.Total.Equal(dec("48.00")), "total %s", resp.Total)
	assert.NotEqual(t, resp.Deliveries[0].Invoice.ID, resp.Deliveries[1].Invoice.ID)
	assert.Equal(t, 8, env.stockOf(t, oil.ID))
	assert.Equal(t, 0, env.stockOf(t, honey.ID))
	assert.EqualValues(t, 2, env.count(t, &model.Invoice{}))
}

func TestBookDeliveries_RejectsOnlyZeroLines(t *testing.T) {
	env := newLedgerEnv(t)
	oil := env.product(t, "OIL-1L", "8.50", 10)
	c := env.customer(t, "Corner Deli", 30)

	_, err := env.stock.BookDeliveries(context.Background(), dto.BookDeliveriesRequest{
		CustomerID: c.ID,
		Lines:      []dto.DeliveryLineRequest{{ProductID: oil.ID, Quantity: 0}},
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteDelivery_RoundTripRestoresStock(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.product(t, "OIL-1L", "10.00", 100)
	c := env.customer(t, "Corner Deli", 30)
	d := env.book(t, c.ID, p.ID, 20, "2024-01-01")

	resp, err := env.stock.DeleteDelivery(ctx, d.ID)
	require.NoError(t, err)

	assert.Equal(t, d.Invoice.ID, resp.InvoiceID)
	assert.Equal(t, 20, resp.RestoredStock)
	assert.Equal(t, 100, env.stockOf(t, p.ID))
	assert.Zero(t, env.count(t, &model.Delivery{}))
	assert.Zero(t, env.count(t, &model.Invoice{}))

	_, err = env.invoiceSvc.Get(ctx, d.Invoice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDelivery_RemovesPayments(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.product(t, "OIL-1L", "10.00", 100)
	c := env.customer(t, "Corner Deli", 30)
	d := env.book(t, c.ID, p.ID, 10, "2024-01-01")

	for _, amount := range []string{"30.00", "20.00"} {
		_, err := env.pay.RecordPayment(ctx, d.Invoice.ID, dto.RecordPaymentRequest{Amount: dec(amount)})
		require.NoError(t, err)
	}

	resp, err := env.stock.DeleteDelivery(ctx, d.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 2, resp.PaymentsDeleted)
	assert.Zero(t, env.count(t, &model.Payment{}))
	assert.Zero(t, env.count(t, &model.Invoice{}))
	assert.Equal(t, 100, env.stockOf(t, p.ID))
}

func TestDeleteDelivery_NotFound(t *testing.T) {
	env := newLedgerEnv(t)

	_, err := env.stock.DeleteDelivery(context.Background(), 42)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "delivery", nf.Entity)
	assert.EqualValues(t, 42, nf.ID)
}

func TestStockNeverNegative(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.product(t, "OIL-1L", "1.00", 7)
	c := env.customer(t, "Corner Deli", 30)

	var booked []uint
	for _, qty := range []int{3, 5, 2, 4, 1, 1, 9} {
		d, err := env.stock.BookDelivery(ctx, dto.BookDeliveryRequest{CustomerID: c.ID, ProductID: p.ID, Quantity: qty})
		if err == nil {
			booked = append(booked, d.ID)
		} else {
			require.ErrorIs(t, err, ErrInsufficientStock)
		}
		require.GreaterOrEqual(t, env.stockOf(t, p.ID), 0)

		if len(booked) > 1 && qty == 1 {
			_, err := env.stock.DeleteDelivery(ctx, booked[0])
			require.NoError(t, err)
			booked = booked[1:]
			require.GreaterOrEqual(t, env.stockOf(t, p.ID), 0)
		}
	}

	var delivered int
	for _, id := range booked {
		d, err := env.deliveries.FindByID(ctx, id)
		require.NoError(t, err)
		delivered += d.Quantity
	}
	assert.Equal(t, 7-delivered, env.stockOf(t, p.ID))
}

func TestListRecent_SeesBookingImmediately(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.product(t, "OIL-1L", "10.00", 100)
	c := env.customer(t, "Corner Deli", 30)

	before, err := env.stock.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, before)

	d := env.book(t, c.ID, p.ID, 3, "2024-01-02")

	after, err := env.stock.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, d.ID, after[0].ID)
	assert.Equal(t, "Corner Deli", after[0].CustomerName)
	assert.Equal(t, d.Invoice.ID, after[0].InvoiceID)
	assert.Equal(t, "open", after[0].InvoiceStatus)
}
