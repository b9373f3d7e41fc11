package dto

import (
	"time"

	"booking-api/domain"
)

// CreateRatingRequest es la evaluación de un huésped sobre una propiedad
type CreateRatingRequest struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment" binding:"required"`
	ReservationID string `json:"reservationId,omitempty"`
}

// ReviewResponse incluye el autor y las fechas de la reserva evaluada
type ReviewResponse struct {
	ID            uint              `json:"id"`
	ReservationID string            `json:"reservationId"`
	AuthorName    string            `json:"authorName"`
	Rating        int               `json:"rating"`
	Comment       string            `json:"comment"`
	Type          domain.ReviewType `json:"type"`
	CreatedAt     time.Time         `json:"createdAt"`
	CheckIn       time.Time         `json:"checkIn"`
	CheckOut      time.Time         `json:"checkOut"`
}
