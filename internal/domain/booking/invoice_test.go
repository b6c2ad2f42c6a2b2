package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceCalculator_Preview(t *testing.T) {
	calc := InvoiceCalculator{}

	t.Run("as booked, unpaid", func(t *testing.T) {
		b := newTestBooking(t, 500_000, 4)

		inv := calc.Preview(b)
		assert.Equal(t, 4, inv.Nights)
		assert.Equal(t, int64(2_000_000), inv.SubtotalCents)
		assert.Equal(t, int64(2_000_000), inv.TotalCents)
		assert.Equal(t, int64(2_000_000), inv.CollectCents)
		assert.Equal(t, int64(0), inv.RefundCents)
	})

	t.Run("as booked, paid in full", func(t *testing.T) {
		b := newTestBooking(t, 500_000, 4)
		_, err := b.MarkPaid()
		require.NoError(t, err)

		inv := calc.Preview(b)
		assert.Equal(t, int64(0), inv.CollectCents)
		assert.Equal(t, int64(0), inv.RefundCents)
	})

	t.Run("discount carried into total", func(t *testing.T) {
		b := newTestBooking(t, 1_000_000, 2)
		require.NoError(t, b.ApplyPromotion(uuid.New(), "SUMMER10", 150_000))

		inv := calc.Preview(b)
		assert.Equal(t, int64(2_000_000), inv.SubtotalCents)
		assert.Equal(t, int64(150_000), inv.DiscountCents)
		assert.Equal(t, int64(1_850_000), inv.TotalCents)
	})
}

func TestInvoiceCalculator_Finalize(t *testing.T) {
	calc := InvoiceCalculator{}

	t.Run("early checkout refunds unspent nights", func(t *testing.T) {
		b := newTestBooking(t, 500_000, 4)
		_, err := b.MarkPaid()
		require.NoError(t, err)

		inv := calc.Finalize(b, b.CheckIn().AddDate(0, 0, 2))
		assert.Equal(t, 2, inv.Nights)
		assert.Equal(t, int64(1_000_000), inv.TotalCents)
		assert.Equal(t, int64(1_000_000), inv.RefundCents)
		assert.Equal(t, int64(0), inv.CollectCents)
	})

	t.Run("late checkout collects extra nights at snapshot price", func(t *testing.T) {
		b := newTestBooking(t, 500_000, 4)
		_, err := b.MarkPaid()
		require.NoError(t, err)

		inv := calc.Finalize(b, b.CheckIn().AddDate(0, 0, 6))
		assert.Equal(t, 6, inv.Nights)
		assert.Equal(t, int64(3_000_000), inv.TotalCents)
		assert.Equal(t, int64(1_000_000), inv.CollectCents)
		assert.Equal(t, int64(0), inv.RefundCents)
	})

	t.Run("on-time checkout collects and refunds nothing", func(t *testing.T) {
		b := newTestBooking(t, 500_000, 4)
		_, err := b.MarkPaid()
		require.NoError(t, err)

		inv := calc.Finalize(b, b.CheckOut())
		assert.Equal(t, int64(0), inv.RefundCents)
		assert.Equal(t, int64(0), inv.CollectCents)
	})

	t.Run("discount prorated on shortened stay", func(t *testing.T) {
		b := newTestBooking(t, 500_000, 4)
		require.NoError(t, b.ApplyPromotion(uuid.New(), "STAY4", 100_000))
		_, err := b.MarkPaid()
		require.NoError(t, err)

		// 2 of 4 nights stayed keeps half the discount.
		inv := calc.Finalize(b, b.CheckIn().AddDate(0, 0, 2))
		assert.Equal(t, int64(50_000), inv.DiscountCents)
		assert.Equal(t, int64(950_000), inv.TotalCents)
		assert.Equal(t, int64(1_900_000)-int64(950_000), inv.RefundCents)
	})

	t.Run("discount never grows on lengthened stay", func(t *testing.T) {
		b := newTestBooking(t, 500_000, 4)
		require.NoError(t, b.ApplyPromotion(uuid.New(), "STAY4", 100_000))
		_, err := b.MarkPaid()
		require.NoError(t, err)

		inv := calc.Finalize(b, b.CheckIn().AddDate(0, 0, 6))
		assert.Equal(t, int64(100_000), inv.DiscountCents)
	})

	t.Run("checkout before one night still bills one night", func(t *testing.T) {
		b := newTestBooking(t, 500_000, 4)
		_, err := b.MarkPaid()
		require.NoError(t, err)

		inv := calc.Finalize(b, b.CheckIn().Add(3*time.Hour))
		assert.Equal(t, 1, inv.Nights)
		assert.Equal(t, int64(500_000), inv.TotalCents)
		assert.Equal(t, int64(1_500_000), inv.RefundCents)
	})
}
