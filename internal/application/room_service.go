package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	roomDomain "github.com/harborstay/service-booking/internal/domain/room"
)

// CreateRoomRequest holds data to register a room (staff).
type CreateRoomRequest struct {
	HotelID     uuid.UUID `json:"hotel_id" binding:"required"`
	Number      string    `json:"number" binding:"required"`
	NightlyRate int64     `json:"nightly_rate_cents" binding:"required,gt=0"`
	MaxAdults   int       `json:"max_adults" binding:"required,gt=0"`
	MaxChildren int       `json:"max_children" binding:"gte=0"`
}

// RoomService handles room reference-data use cases.
type RoomService struct {
	rooms  roomDomain.RoomRepository
	logger *zap.Logger
}

// NewRoomService creates a new RoomService.
func NewRoomService(rooms roomDomain.RoomRepository, logger *zap.Logger) *RoomService {
	return &RoomService{rooms: rooms, logger: logger}
}

// CreateRoom registers a new room.
func (s *RoomService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*RoomDTO, error) {
	rm, err := roomDomain.NewRoom(req.HotelID, req.Number, req.NightlyRate, req.MaxAdults, req.MaxChildren)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Save(ctx, rm); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		zap.String("hotel_id", req.HotelID.String()),
		zap.String("number", req.Number),
	)
	dto := toRoomDTO(rm)
	return &dto, nil
}

// ListRooms returns all rooms of a hotel.
func (s *RoomService) ListRooms(ctx context.Context, hotelID uuid.UUID) ([]RoomDTO, error) {
	rooms, err := s.rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	dtos := make([]RoomDTO, len(rooms))
	for i, r := range rooms {
		dtos[i] = toRoomDTO(r)
	}
	return dtos, nil
}
