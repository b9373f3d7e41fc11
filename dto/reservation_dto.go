package dto

import (
	"time"

	"booking-api/domain"
)

// CreateReservationRequest: fechas ISO 8601 (YYYY-MM-DD o RFC 3339).
// SelectedTime solo aplica para SPORTS: minutos desde la medianoche (600 = 10:00).
type CreateReservationRequest struct {
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate,omitempty"`
	SelectedTime *int   `json:"selectedTime,omitempty" binding:"omitempty,min=0,max=1439"`
}

// ReservationResponse es la reserva con los datos de la propiedad desnormalizados
type ReservationResponse struct {
	ID            string                   `json:"id"`
	PropertyID    string                   `json:"propertyId"`
	PropertyTitle string                   `json:"propertyTitle"`
	PropertyType  domain.PropertyType      `json:"propertyType"`
	GuestID       string                   `json:"guestId"`
	GuestName     string                   `json:"guestName,omitempty"`
	CheckIn       time.Time                `json:"checkIn"`
	CheckOut      time.Time                `json:"checkOut"`
	SelectedTime  int                      `json:"selectedTime"`
	TotalPrice    float64                  `json:"totalPrice"`
	Status        domain.ReservationStatus `json:"status"`
}
