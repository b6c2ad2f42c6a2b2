package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborstay/service-booking/internal/application"
	"github.com/harborstay/service-booking/internal/domain"
)

// envelope is the uniform response body.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Message string      `json:"message"`
	Kind    string      `json:"kind,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// BadRequest writes a 400 response with a message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Error: &errorBody{Message: message, Kind: "validation"}})
}

// Error maps a service error to its HTTP status. Every domain error kind has
// a distinct user-visible remedy, so the kind and message pass through
// verbatim; anything unrecognized (driver failures, deadlocks) is a 500 with
// no partial state committed.
func Error(c *gin.Context, err error) {
	var unavailable *application.RoomUnavailableError
	if errors.As(err, &unavailable) {
		c.JSON(http.StatusConflict, envelope{Success: false, Error: &errorBody{
			Message: unavailable.Error(),
			Kind:    "conflict",
			Details: gin.H{"room_id": unavailable.RoomID},
		}})
		return
	}

	switch {
	case domain.IsKind(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, envelope{Success: false, Error: &errorBody{Message: err.Error(), Kind: "validation"}})
	case domain.IsKind(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, envelope{Success: false, Error: &errorBody{Message: err.Error(), Kind: "not_found"}})
	case domain.IsKind(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, envelope{Success: false, Error: &errorBody{Message: err.Error(), Kind: "conflict"}})
	case domain.IsKind(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, envelope{Success: false, Error: &errorBody{Message: err.Error(), Kind: "invalid_transition"}})
	case domain.IsKind(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, envelope{Success: false, Error: &errorBody{Message: err.Error(), Kind: "invalid_state"}})
	default:
		c.JSON(http.StatusInternalServerError, envelope{Success: false, Error: &errorBody{Message: "internal server error"}})
	}
}
