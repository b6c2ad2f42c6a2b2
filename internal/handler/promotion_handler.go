package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborstay/service-booking/internal/application"
	"github.com/harborstay/service-booking/internal/auth"
	"github.com/harborstay/service-booking/internal/middleware"
)

// PromotionHandler handles HTTP requests for promotion codes.
type PromotionHandler struct {
	service *application.PromotionService
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(service *application.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// RegisterRoutes registers all promotion routes on the given router group.
func (h *PromotionHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	promotions := r.Group("/promotions")
	promotions.POST("/validate", h.Validate)
	promotions.GET("/active", h.ListActive)

	admin := promotions.Group("")
	admin.Use(middleware.Auth(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("", h.Create)
		admin.DELETE("/:id", h.Deactivate)
	}
}

// Validate handles POST /api/v1/promotions/validate
//
// A rejected code is a successful validation whose decision says why the
// code does not apply; only infrastructure failures produce an error status.
func (h *PromotionHandler) Validate(c *gin.Context) {
	var req application.ValidatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	decision, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, decision)
}

// Create handles POST /api/v1/promotions
func (h *PromotionHandler) Create(c *gin.Context) {
	var req application.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreatePromotion(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, dto)
}

// ListActive handles GET /api/v1/promotions/active
func (h *PromotionHandler) ListActive(c *gin.Context) {
	dtos, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, dtos)
}

// Deactivate handles DELETE /api/v1/promotions/:id
func (h *PromotionHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid promotion id")
		return
	}

	if err := h.service.DeactivatePromotion(c.Request.Context(), id); err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"deactivated": true})
}
