package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborstay/service-booking/internal/application"
)

// AvailabilityHandler handles HTTP requests for room availability checks.
type AvailabilityHandler struct {
	service *application.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(service *application.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// RegisterRoutes registers availability routes on the given router group.
// Availability is public so guests can browse before authenticating.
func (h *AvailabilityHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/availability", h.Check)
}

// Check handles GET /api/v1/availability?room_ids=...&check_in=...&check_out=...
func (h *AvailabilityHandler) Check(c *gin.Context) {
	rawIDs := strings.Split(c.Query("room_ids"), ",")
	roomIDs := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			BadRequest(c, "invalid room id: "+raw)
			return
		}
		roomIDs = append(roomIDs, id)
	}
	if len(roomIDs) == 0 {
		BadRequest(c, "room_ids is required")
		return
	}

	checkIn, checkOut, err := application.ParseStayInterval(c.Query("check_in"), c.Query("check_out"))
	if err != nil {
		Error(c, err)
		return
	}

	free, err := h.service.IsFreeBulk(c.Request.Context(), roomIDs, checkIn, checkOut)
	if err != nil {
		Error(c, err)
		return
	}

	rooms := make([]gin.H, 0, len(roomIDs))
	allFree := true
	for _, id := range roomIDs {
		rooms = append(rooms, gin.H{"room_id": id, "available": free[id]})
		if !free[id] {
			allFree = false
		}
	}

	Success(c, gin.H{"available": allFree, "rooms": rooms})
}
