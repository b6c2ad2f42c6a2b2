package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harborstay/service-booking/internal/domain"
	bookingDomain "github.com/harborstay/service-booking/internal/domain/booking"
	"github.com/harborstay/service-booking/internal/events"
)

type ledgerFixture struct {
	ledger    *PaymentLedgerService
	bookings  *memBookingRepo
	payments  *memPaymentRepo
	publisher *capturingPublisher
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	f := &ledgerFixture{
		bookings:  newMemBookingRepo(),
		payments:  newMemPaymentRepo(),
		publisher: &capturingPublisher{},
	}
	tx := &fakeTransactor{bookings: f.bookings, payments: f.payments}
	f.ledger = NewPaymentLedgerService(tx, f.bookings, f.payments,
		bookingDomain.NewCancellationPolicy(15), f.publisher, zap.NewNop())
	return f
}

func (f *ledgerFixture) seedBooking(t *testing.T, unitPrice int64, nights int) *bookingDomain.Booking {
	t.Helper()
	checkIn := time.Now().AddDate(0, 0, 30).Truncate(24 * time.Hour)
	b := bookingDomain.NewBooking(
		uuid.New(), uuid.New(), uuid.New(), "guest-1",
		checkIn, checkIn.AddDate(0, 0, nights), 2, 0, unitPrice, "VND",
	)
	require.NoError(t, f.bookings.Save(context.Background(), b))
	require.NoError(t, f.payments.Save(context.Background(),
		bookingDomain.NewPaymentRecord(b.ID(), b.TotalCents(), "VND")))
	return b
}

func TestPaymentLedger_CompletePayment(t *testing.T) {
	f := newLedgerFixture(t)
	b := f.seedBooking(t, 500_000, 4)

	dto, err := f.ledger.CompletePayment(context.Background(), b.ID(),
		CompletePaymentRequest{Method: "card", ExternalRef: "gw-123"})
	require.NoError(t, err)

	assert.Equal(t, string(bookingDomain.PaymentPaid), dto.PaymentStatus)
	assert.Equal(t, int64(2_000_000), dto.PaidCents)

	rec, err := f.payments.FindByBookingID(context.Background(), b.ID())
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.PaymentPaid, rec.Status)
	assert.Equal(t, "card", rec.Method)
	assert.Equal(t, "gw-123", rec.ExternalRef)

	assert.Equal(t, []string{events.BookingPaid}, f.publisher.typesSeen())
}

func TestPaymentLedger_CompletePayment_Idempotent(t *testing.T) {
	f := newLedgerFixture(t)
	b := f.seedBooking(t, 500_000, 4)

	first, err := f.ledger.CompletePayment(context.Background(), b.ID(),
		CompletePaymentRequest{Method: "card", ExternalRef: "gw-123"})
	require.NoError(t, err)

	// Retry with a different reference changes nothing.
	second, err := f.ledger.CompletePayment(context.Background(), b.ID(),
		CompletePaymentRequest{Method: "cash", ExternalRef: "gw-456"})
	require.NoError(t, err)

	assert.Equal(t, first.PaidCents, second.PaidCents)
	assert.Equal(t, first.PaymentStatus, second.PaymentStatus)

	rec, err := f.payments.FindByBookingID(context.Background(), b.ID())
	require.NoError(t, err)
	assert.Equal(t, "gw-123", rec.ExternalRef, "retry must not overwrite the settled record")

	assert.Equal(t, []string{events.BookingPaid}, f.publisher.typesSeen(),
		"retry must not publish a second event")
}

func TestPaymentLedger_CompletePayment_CanceledBooking(t *testing.T) {
	f := newLedgerFixture(t)
	b := f.seedBooking(t, 500_000, 4)
	require.NoError(t, b.Cancel(0, 0))
	require.NoError(t, f.bookings.Update(context.Background(), b))

	_, err := f.ledger.CompletePayment(context.Background(), b.ID(),
		CompletePaymentRequest{Method: "card", ExternalRef: "gw-123"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestPaymentLedger_CompletePayment_UnknownBooking(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.CompletePayment(context.Background(), uuid.New(),
		CompletePaymentRequest{Method: "card", ExternalRef: "gw-123"})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrNotFound))
}

func TestPaymentLedger_CancelBooking_PaidSplitsRefund(t *testing.T) {
	f := newLedgerFixture(t)
	b := f.seedBooking(t, 250_000, 2) // total 500,000
	_, err := f.ledger.CompletePayment(context.Background(), b.ID(),
		CompletePaymentRequest{Method: "card", ExternalRef: "gw-1"})
	require.NoError(t, err)

	result, err := f.ledger.CancelBooking(context.Background(), b.ID())
	require.NoError(t, err)

	assert.Equal(t, int64(425_000), result.RefundCents)
	assert.Equal(t, int64(75_000), result.FeeCents)

	stored, err := f.bookings.FindByID(context.Background(), b.ID())
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.PaymentCanceled, stored.PaymentStatus())
	assert.Equal(t, bookingDomain.OccupancyCanceled, stored.OccupancyStatus())
	require.NotNil(t, stored.RefundCents())
	assert.Equal(t, int64(425_000), *stored.RefundCents())

	rec, err := f.payments.FindByBookingID(context.Background(), b.ID())
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.PaymentCanceled, rec.Status)

	assert.Equal(t, []string{events.BookingPaid, events.BookingCancelled}, f.publisher.typesSeen())
}

func TestPaymentLedger_CancelBooking_UnpaidRefundsNothing(t *testing.T) {
	f := newLedgerFixture(t)
	b := f.seedBooking(t, 250_000, 2)

	result, err := f.ledger.CancelBooking(context.Background(), b.ID())
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.RefundCents)
	assert.Equal(t, int64(0), result.FeeCents)
}

func TestPaymentLedger_CancelBooking_AfterCheckInRejected(t *testing.T) {
	f := newLedgerFixture(t)
	b := f.seedBooking(t, 250_000, 2)
	_, err := f.ledger.CompletePayment(context.Background(), b.ID(),
		CompletePaymentRequest{Method: "card", ExternalRef: "gw-1"})
	require.NoError(t, err)

	stored, err := f.bookings.FindByID(context.Background(), b.ID())
	require.NoError(t, err)
	require.NoError(t, stored.CheckInGuest())
	require.NoError(t, f.bookings.Update(context.Background(), stored))

	_, err = f.ledger.CancelBooking(context.Background(), b.ID())
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrInvalidState))
}
