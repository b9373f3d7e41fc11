package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationStatus es el estado de pago de la reserva
type ReservationStatus string

const (
	ReservationStatusPending  ReservationStatus = "PENDING"
	ReservationStatusPaid     ReservationStatus = "PAID"
	ReservationStatusCanceled ReservationStatus = "CANCELED"
)

// Reservation representa una reserva de un huésped sobre una propiedad
type Reservation struct {
	ID           string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	PropertyID   string            `gorm:"type:varchar(36);not null;index" json:"propertyId"`
	Property     *Property         `gorm:"foreignKey:PropertyID;constraint:OnDelete:RESTRICT" json:"-"`
	GuestID      string            `gorm:"type:varchar(36);not null;index" json:"guestId"`
	Guest        *User             `gorm:"foreignKey:GuestID;constraint:OnDelete:RESTRICT" json:"-"`
	CheckIn      time.Time         `gorm:"not null" json:"checkIn"`
	CheckOut     time.Time         `gorm:"not null" json:"checkOut"`
	SelectedTime int               `gorm:"not null;default:0" json:"selectedTime"`
	TotalPrice   float64           `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	Status       ReservationStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

func (Reservation) TableName() string {
	return "reservation"
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
