package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/harborstay/service-booking/internal/domain/booking"
	"github.com/harborstay/service-booking/internal/events"
)

// CompletePaymentRequest confirms a payment that already succeeded at the
// gateway. The external reference is the gateway's transaction code; this
// service never itself waits on the gateway.
type CompletePaymentRequest struct {
	Method      string `json:"method" binding:"required"`
	ExternalRef string `json:"external_ref" binding:"required"`
}

// CancellationDTO reports the refund split of a cancellation. The numbers are
// persisted on the booking so they stay queryable afterwards.
type CancellationDTO struct {
	BookingID   uuid.UUID `json:"booking_id"`
	RefundCents int64     `json:"refund_cents"`
	FeeCents    int64     `json:"fee_cents"`
}

// PaymentLedgerService records payment status transitions for bookings and
// keeps the booking's denormalized payment status consistent with the
// payment record.
type PaymentLedgerService struct {
	tx        bookingDomain.Transactor
	bookings  bookingDomain.BookingRepository
	payments  bookingDomain.PaymentRecordRepository
	policy    bookingDomain.CancellationPolicy
	publisher events.Publisher
	logger    *zap.Logger
}

// NewPaymentLedgerService creates a new PaymentLedgerService.
func NewPaymentLedgerService(
	tx bookingDomain.Transactor,
	bookings bookingDomain.BookingRepository,
	payments bookingDomain.PaymentRecordRepository,
	policy bookingDomain.CancellationPolicy,
	publisher events.Publisher,
	logger *zap.Logger,
) *PaymentLedgerService {
	return &PaymentLedgerService{
		tx:        tx,
		bookings:  bookings,
		payments:  payments,
		policy:    policy,
		publisher: publisher,
		logger:    logger,
	}
}

// CompletePayment marks a pending booking paid. Calling it again for an
// already-paid booking is a no-op returning the current state, so duplicate
// client retries are tolerated.
func (s *PaymentLedgerService) CompletePayment(ctx context.Context, bookingID uuid.UUID, req CompletePaymentRequest) (*BookingDTO, error) {
	var dto BookingDTO
	var changed bool

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}

		changed, err = b.MarkPaid()
		if err != nil {
			return err
		}
		if !changed {
			dto = toBookingDTO(b)
			return nil
		}

		b.IncrementVersion()
		if err := s.bookings.Update(ctx, b); err != nil {
			return err
		}

		record, err := s.payments.FindByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}
		record.Settle(req.Method, req.ExternalRef)
		if err := s.payments.Update(ctx, record); err != nil {
			return err
		}

		dto = toBookingDTO(b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("payment completed",
			zap.String("booking_id", bookingID.String()),
			zap.String("method", req.Method),
			zap.Int64("paid_cents", dto.PaidCents),
		)
		s.publishBookingEvent(ctx, events.BookingPaid, dto, 0)
	}
	return &dto, nil
}

// CancelBooking cancels a booking before check-in, computing the refund/fee
// split via the cancellation policy and persisting it with the transition.
func (s *PaymentLedgerService) CancelBooking(ctx context.Context, bookingID uuid.UUID) (*CancellationDTO, error) {
	var result CancellationDTO
	var dto BookingDTO

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}

		refund, fee := s.policy.ComputeRefund(b.PaidCents())
		if err := b.Cancel(refund, fee); err != nil {
			return err
		}

		b.IncrementVersion()
		if err := s.bookings.Update(ctx, b); err != nil {
			return err
		}

		record, err := s.payments.FindByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}
		record.Void()
		if err := s.payments.Update(ctx, record); err != nil {
			return err
		}

		result = CancellationDTO{BookingID: bookingID, RefundCents: refund, FeeCents: fee}
		dto = toBookingDTO(b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking canceled",
		zap.String("booking_id", bookingID.String()),
		zap.Int64("refund_cents", result.RefundCents),
		zap.Int64("fee_cents", result.FeeCents),
	)
	s.publishBookingEvent(ctx, events.BookingCancelled, dto, result.RefundCents)

	return &result, nil
}

func (s *PaymentLedgerService) publishBookingEvent(ctx context.Context, eventType string, dto BookingDTO, refundCents int64) {
	evt := events.BookingEvent{
		BookingID:       dto.ID,
		GroupID:         dto.GroupID,
		RoomID:          dto.RoomID,
		HotelID:         dto.HotelID,
		GuestID:         dto.GuestID,
		CheckIn:         dto.CheckIn,
		CheckOut:        dto.CheckOut,
		PaymentStatus:   dto.PaymentStatus,
		OccupancyStatus: dto.OccupancyStatus,
		TotalCents:      dto.TotalCents,
		RefundCents:     refundCents,
		OccurredAt:      time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, eventType, dto.GroupID.String(), evt); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("type", eventType),
			zap.String("booking_id", dto.ID.String()),
			zap.Error(err),
		)
	}
}
