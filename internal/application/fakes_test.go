package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/service-booking/internal/domain"
	bookingDomain "github.com/harborstay/service-booking/internal/domain/booking"
	promoDomain "github.com/harborstay/service-booking/internal/domain/promotion"
	roomDomain "github.com/harborstay/service-booking/internal/domain/room"
)

// In-memory repository fakes. They honor the same contracts as the GORM
// implementations (not-found errors, overlap filtering, optimistic locking
// is skipped) so application services can be tested without a database.

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking

	saveErrAfter int // fail Save once this many saves succeeded; 0 disables
	saves        int
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *memBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErrAfter > 0 && r.saves >= r.saveErrAfter {
		return domain.NewConflictError("storage failure injected")
	}
	r.saves++
	r.bookings[b.ID()] = b
	return nil
}

func (r *memBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID()]; !ok {
		return domain.NewNotFoundError("booking", b.ID().String())
	}
	r.bookings[b.ID()] = b
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return b, nil
}

func (r *memBookingRepo) ListByGuest(_ context.Context, guestID string) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.GuestID() == guestID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindOverlapping(_ context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.RoomID() != roomID || b.PaymentStatus() == bookingDomain.PaymentCanceled {
			continue
		}
		if bookingDomain.Overlaps(b.CheckIn(), b.CheckOut(), checkIn, checkOut) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) snapshot() map[uuid.UUID]*bookingDomain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uuid.UUID]*bookingDomain.Booking, len(r.bookings))
	for k, v := range r.bookings {
		snap[k] = v
	}
	return snap
}

func (r *memBookingRepo) restore(snap map[uuid.UUID]*bookingDomain.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = snap
}

type memPaymentRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*bookingDomain.PaymentRecord // keyed by booking ID
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{records: make(map[uuid.UUID]*bookingDomain.PaymentRecord)}
}

func (r *memPaymentRepo) Save(_ context.Context, rec *bookingDomain.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.BookingID] = rec
	return nil
}

func (r *memPaymentRepo) Update(_ context.Context, rec *bookingDomain.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.BookingID] = rec
	return nil
}

func (r *memPaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*bookingDomain.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[bookingID]
	if !ok {
		return nil, domain.NewNotFoundError("payment record", bookingID.String())
	}
	return rec, nil
}

func (r *memPaymentRepo) snapshot() map[uuid.UUID]*bookingDomain.PaymentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uuid.UUID]*bookingDomain.PaymentRecord, len(r.records))
	for k, v := range r.records {
		snap[k] = v
	}
	return snap
}

func (r *memPaymentRepo) restore(snap map[uuid.UUID]*bookingDomain.PaymentRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = snap
}

type memRoomRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*roomDomain.Room
}

func newMemRoomRepo(rooms ...*roomDomain.Room) *memRoomRepo {
	r := &memRoomRepo{rooms: make(map[uuid.UUID]*roomDomain.Room)}
	for _, rm := range rooms {
		r.rooms[rm.ID()] = rm
	}
	return r
}

func (r *memRoomRepo) Save(_ context.Context, rm *roomDomain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[rm.ID()] = rm
	return nil
}

func (r *memRoomRepo) Update(_ context.Context, rm *roomDomain.Room) error {
	return r.Save(nil, rm)
}

func (r *memRoomRepo) FindByID(_ context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[id]
	if !ok {
		return nil, domain.NewNotFoundError("room", id.String())
	}
	return rm, nil
}

func (r *memRoomRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*roomDomain.Room, error) {
	out := make([]*roomDomain.Room, 0, len(ids))
	for _, id := range ids {
		rm, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, nil
}

func (r *memRoomRepo) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*roomDomain.Room, error) {
	return r.FindByIDs(ctx, ids)
}

func (r *memRoomRepo) ListByHotel(_ context.Context, hotelID uuid.UUID) ([]*roomDomain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*roomDomain.Room
	for _, rm := range r.rooms {
		if rm.HotelID() == hotelID {
			out = append(out, rm)
		}
	}
	return out, nil
}

type memPromotionRepo struct {
	mu     sync.Mutex
	byCode map[string]*promoDomain.Promotion
}

func newMemPromotionRepo(promos ...*promoDomain.Promotion) *memPromotionRepo {
	r := &memPromotionRepo{byCode: make(map[string]*promoDomain.Promotion)}
	for _, p := range promos {
		r.byCode[p.Code()] = p
	}
	return r
}

func (r *memPromotionRepo) Save(_ context.Context, p *promoDomain.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCode[p.Code()] = p
	return nil
}

func (r *memPromotionRepo) Update(_ context.Context, p *promoDomain.Promotion) error {
	return r.Save(nil, p)
}

func (r *memPromotionRepo) FindByCode(_ context.Context, code string) (*promoDomain.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byCode[promoDomain.NormalizeCode(code)]
	if !ok {
		return nil, domain.NewNotFoundError("promotion", code)
	}
	return p, nil
}

func (r *memPromotionRepo) FindByID(_ context.Context, id uuid.UUID) (*promoDomain.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byCode {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("promotion", id.String())
}

func (r *memPromotionRepo) FindActive(_ context.Context) ([]*promoDomain.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*promoDomain.Promotion
	for _, p := range r.byCode {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeTransactor snapshots the fake repositories before running fn and
// restores them when fn fails, mimicking a rollback.
type fakeTransactor struct {
	bookings *memBookingRepo
	payments *memPaymentRepo
}

func (t *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	var bookingSnap map[uuid.UUID]*bookingDomain.Booking
	var paymentSnap map[uuid.UUID]*bookingDomain.PaymentRecord
	if t.bookings != nil {
		bookingSnap = t.bookings.snapshot()
	}
	if t.payments != nil {
		paymentSnap = t.payments.snapshot()
	}

	if err := fn(ctx); err != nil {
		if t.bookings != nil {
			t.bookings.restore(bookingSnap)
		}
		if t.payments != nil {
			t.payments.restore(paymentSnap)
		}
		return err
	}
	return nil
}

// capturingPublisher records every published event.
type capturingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Type string
	Key  string
	Data interface{}
}

func (p *capturingPublisher) Publish(_ context.Context, eventType, key string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Key: key, Data: data})
	return nil
}

func (p *capturingPublisher) typesSeen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}
