package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborstay/service-booking/internal/application"
	"github.com/harborstay/service-booking/internal/auth"
	"github.com/harborstay/service-booking/internal/middleware"
)

// RoomHandler handles HTTP requests for room reference data.
type RoomHandler struct {
	service *application.RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(service *application.RoomService) *RoomHandler {
	return &RoomHandler{service: service}
}

// RegisterRoutes registers all room routes on the given router group.
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	rooms := r.Group("/rooms")
	rooms.GET("", h.List)

	staff := rooms.Group("")
	staff.Use(middleware.Auth(jwtManager), middleware.RequireRole(auth.RoleStaff))
	{
		staff.POST("", h.Create)
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(c *gin.Context) {
	var req application.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, dto)
}

// List handles GET /api/v1/rooms?hotel_id=...
func (h *RoomHandler) List(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Query("hotel_id"))
	if err != nil {
		BadRequest(c, "hotel_id is required")
		return
	}

	dtos, err := h.service.ListRooms(c.Request.Context(), hotelID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, dtos)
}
