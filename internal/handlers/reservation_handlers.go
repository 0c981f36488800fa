package handlers

import (
	"net/http"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ReservationHandler holds the reservation service.
type ReservationHandler struct {
	reservationService services.ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(rs services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: rs}
}

func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req services.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	reservation, err := h.reservationService.CreateReservation(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondServiceError(c, err, "CreateReservation")
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// GetReservations lists the caller's reservations, or all of them for staff and admins.
func (h *ReservationHandler) GetReservations(c *gin.Context) {
	var filters models.ReservationFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBindError(c, err)
		return
	}
	reservations, err := h.reservationService.ListReservations(c.Request.Context(), actorFrom(c), filters)
	if err != nil {
		respondServiceError(c, err, "GetReservations")
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	c.JSON(http.StatusOK, reservations)
}

func (h *ReservationHandler) GetReservationByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	reservation, err := h.reservationService.GetReservation(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondServiceError(c, err, "GetReservationByID")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req services.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	reservation, err := h.reservationService.UpdateReservation(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateReservation")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) UpdateReservationStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req services.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	reservation, err := h.reservationService.UpdateReservationStatus(c.Request.Context(), actorFrom(c), id, req.Status)
	if err != nil {
		respondServiceError(c, err, "UpdateReservationStatus")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.reservationService.DeleteReservation(c.Request.Context(), actorFrom(c), id); err != nil {
		respondServiceError(c, err, "DeleteReservation")
		return
	}
	respondMessage(c, "Reservation removed")
}
