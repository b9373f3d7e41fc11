package controllers

import (
	"net/http"

	"booking-api/dto"
	"booking-api/middleware"
	"booking-api/services"

	"github.com/gin-gonic/gin"
)

// BookingController agrupa reservas y reviews
type BookingController struct {
	reservations services.ReservationService
	reviews      services.ReviewService
}

func NewBookingController(reservations services.ReservationService, reviews services.ReviewService) *BookingController {
	return &BookingController{reservations: reservations, reviews: reviews}
}

// Reserve maneja POST /property/:id/reserve
// Body: {"startDate": "2025-05-16", "endDate": "2025-05-18"} o {"startDate": ..., "selectedTime": 600}
func (ctrl *BookingController) Reserve(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	reservation, err := ctrl.reservations.Reserve(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Reservation created successfully", Data: reservation})
}

// ListPropertyReservations maneja GET /property/:id/reservations (anfitrión o admin)
func (ctrl *BookingController) ListPropertyReservations(c *gin.Context) {
	reservations, err := ctrl.reservations.ListByProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Reservations retrieved", Data: reservations})
}

// MyReservations maneja GET /reservations/me
func (ctrl *BookingController) MyReservations(c *gin.Context) {
	reservations, err := ctrl.reservations.ListByGuest(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Reservations retrieved", Data: reservations})
}

// Cancel maneja PATCH /reservations/:id/cancel
func (ctrl *BookingController) Cancel(c *gin.Context) {
	reservation, err := ctrl.reservations.Cancel(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Reservation canceled", Data: reservation})
}

// Rate maneja POST /property/:id/rate
func (ctrl *BookingController) Rate(c *gin.Context) {
	var req dto.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	review, err := ctrl.reviews.CreatePropertyRating(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Review created successfully", Data: review})
}

// ListReviews maneja GET /property/:id/reviews (más nuevas primero)
func (ctrl *BookingController) ListReviews(c *gin.Context) {
	reviews, err := ctrl.reviews.ListByProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Reviews retrieved", Data: reviews})
}
