package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TopicBookingEvents carries the booking lifecycle events consumed by the
// notification service.
const TopicBookingEvents = "booking.events"

// Booking lifecycle event types.
const (
	BookingCreated    = "booking.created"
	BookingPaid       = "booking.paid"
	BookingCancelled  = "booking.cancelled"
	BookingCheckedOut = "booking.checked_out"
)

// Envelope is the wire format for events: a CloudEvents-style wrapper with a
// JSON payload.
type Envelope struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Source string          `json:"source"`
	Time   time.Time       `json:"time"`
	Data   json.RawMessage `json:"data"`
}

// NewEnvelope wraps a payload into an Envelope.
func NewEnvelope(eventType, source string, data interface{}) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:     uuid.NewString(),
		Type:   eventType,
		Source: source,
		Time:   time.Now().UTC(),
		Data:   raw,
	}, nil
}

// ParseData unmarshals the payload into v.
func (e Envelope) ParseData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// BookingEvent is the payload for all booking lifecycle events.
type BookingEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	GroupID         uuid.UUID `json:"group_id"`
	RoomID          uuid.UUID `json:"room_id"`
	HotelID         uuid.UUID `json:"hotel_id"`
	GuestID         string    `json:"guest_id"`
	CheckIn         string    `json:"check_in"`
	CheckOut        string    `json:"check_out"`
	PaymentStatus   string    `json:"payment_status"`
	OccupancyStatus string    `json:"occupancy_status"`
	TotalCents      int64     `json:"total_cents"`
	RefundCents     int64     `json:"refund_cents,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
