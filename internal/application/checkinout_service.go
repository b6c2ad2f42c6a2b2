package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/harborstay/service-booking/internal/domain/booking"
	roomDomain "github.com/harborstay/service-booking/internal/domain/room"
	"github.com/harborstay/service-booking/internal/events"
)

// CheckInOutService drives a booking through its physical occupancy states
// and keeps the room's housekeeping status in step: check-in marks the room
// occupied, check-out marks it cleaning, and the explicit staff complete
// action returns it to available.
type CheckInOutService struct {
	tx        bookingDomain.Transactor
	bookings  bookingDomain.BookingRepository
	rooms     roomDomain.RoomRepository
	calc      bookingDomain.InvoiceCalculator
	publisher events.Publisher
	logger    *zap.Logger
}

// NewCheckInOutService creates a new CheckInOutService.
func NewCheckInOutService(
	tx bookingDomain.Transactor,
	bookings bookingDomain.BookingRepository,
	rooms roomDomain.RoomRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *CheckInOutService {
	return &CheckInOutService{
		tx:        tx,
		bookings:  bookings,
		rooms:     rooms,
		publisher: publisher,
		logger:    logger,
	}
}

// CheckIn transitions a paid, pending booking to checkedin.
func (s *CheckInOutService) CheckIn(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	var dto BookingDTO
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := b.CheckInGuest(); err != nil {
			return err
		}
		b.IncrementVersion()
		if err := s.bookings.Update(ctx, b); err != nil {
			return err
		}
		if err := s.setRoomHousekeeping(ctx, b.RoomID(), roomDomain.StatusOccupied); err != nil {
			return err
		}
		dto = toBookingDTO(b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("guest checked in", zap.String("booking_id", bookingID.String()))
	return &dto, nil
}

// PreviewCheckout computes the invoice a checkout at the given time would
// produce, without committing anything. The operator confirms the resulting
// refund/collect with the guest before calling CheckOut; both computations
// use the same calculator, so for the same actual time they agree.
func (s *CheckInOutService) PreviewCheckout(ctx context.Context, bookingID uuid.UUID, at time.Time) (*bookingDomain.Invoice, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var inv bookingDomain.Invoice
	if b.OccupancyStatus() == bookingDomain.OccupancyCheckedIn {
		inv = s.calc.Finalize(b, at)
	} else {
		inv = s.calc.Preview(b)
	}
	return &inv, nil
}

// CheckOut transitions a checkedin booking to checkedout at the given actual
// time, persisting the finalized invoice and its refund/collect delta.
func (s *CheckInOutService) CheckOut(ctx context.Context, bookingID uuid.UUID, actual time.Time) (*bookingDomain.Invoice, error) {
	var inv bookingDomain.Invoice
	var dto BookingDTO

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}

		inv = s.calc.Finalize(b, actual)
		if err := b.CheckOutGuest(actual, inv); err != nil {
			return err
		}
		b.IncrementVersion()
		if err := s.bookings.Update(ctx, b); err != nil {
			return err
		}
		if err := s.setRoomHousekeeping(ctx, b.RoomID(), roomDomain.StatusCleaning); err != nil {
			return err
		}
		dto = toBookingDTO(b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("guest checked out",
		zap.String("booking_id", bookingID.String()),
		zap.Int("nights", inv.Nights),
		zap.Int64("total_cents", inv.TotalCents),
		zap.Int64("refund_cents", inv.RefundCents),
		zap.Int64("collect_cents", inv.CollectCents),
	)
	s.publishCheckedOut(ctx, dto, inv)

	return &inv, nil
}

// Complete transitions a checkedout booking to completed after housekeeping
// cleared the room. A manual staff action, never automatic: a checked-out
// room may need physical cleaning or maintenance before it can be rebooked.
func (s *CheckInOutService) Complete(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	var dto BookingDTO
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := b.Complete(); err != nil {
			return err
		}
		b.IncrementVersion()
		if err := s.bookings.Update(ctx, b); err != nil {
			return err
		}
		if err := s.setRoomHousekeeping(ctx, b.RoomID(), roomDomain.StatusAvailable); err != nil {
			return err
		}
		dto = toBookingDTO(b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking completed", zap.String("booking_id", bookingID.String()))
	return &dto, nil
}

func (s *CheckInOutService) setRoomHousekeeping(ctx context.Context, roomID uuid.UUID, status roomDomain.HousekeepingStatus) error {
	rm, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	if err := rm.SetHousekeeping(status); err != nil {
		return err
	}
	return s.rooms.Update(ctx, rm)
}

func (s *CheckInOutService) publishCheckedOut(ctx context.Context, dto BookingDTO, inv bookingDomain.Invoice) {
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
		TotalCents:      inv.TotalCents,
		RefundCents:     inv.RefundCents,
		OccurredAt:      time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.BookingCheckedOut, dto.GroupID.String(), evt); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("type", events.BookingCheckedOut),
			zap.String("booking_id", dto.ID.String()),
			zap.Error(err),
		)
	}
}
