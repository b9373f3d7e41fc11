package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyType es la categoría de la propiedad
type PropertyType string

const (
	PropertyTypeHousing PropertyType = "HOUSING"
	PropertyTypeEvents  PropertyType = "EVENTS"
	PropertyTypeSports  PropertyType = "SPORTS"
)

// Valid indica si el valor pertenece al enum
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeHousing, PropertyTypeEvents, PropertyTypeSports:
		return true
	}
	return false
}

// DefaultOperatingMode devuelve la granularidad de cobro por defecto de la categoría
func (t PropertyType) DefaultOperatingMode() OperatingMode {
	switch t {
	case PropertyTypeSports:
		return OperatingModePerHour
	case PropertyTypeEvents:
		return OperatingModePerDay
	default:
		return OperatingModePerNight
	}
}

// PropertyStatus indica si la propiedad se puede reservar
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "AVAILABLE"
	PropertyStatusUnavailable PropertyStatus = "UNAVAILABLE"
)

func (s PropertyStatus) Valid() bool {
	return s == PropertyStatusAvailable || s == PropertyStatusUnavailable
}

// OperatingMode es la granularidad de cobro
type OperatingMode string

const (
	OperatingModePerNight OperatingMode = "PER_NIGHT"
	OperatingModePerHour  OperatingMode = "PER_HOUR"
	OperatingModePerDay   OperatingMode = "PER_DAY"
)

func (m OperatingMode) Valid() bool {
	switch m {
	case OperatingModePerNight, OperatingModePerHour, OperatingModePerDay:
		return true
	}
	return false
}

// Property representa una propiedad publicada por un anfitrión
type Property struct {
	ID            string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	Type          PropertyType   `gorm:"type:varchar(20);not null;index" json:"type"`
	Status        PropertyStatus `gorm:"type:varchar(20);default:'AVAILABLE'" json:"status"`
	Street        string         `json:"street"`
	City          string         `gorm:"index" json:"city"`
	State         string         `json:"state"`
	Country       string         `json:"country"`
	ZipCode       string         `json:"zipCode"`
	PricePerNight float64        `gorm:"type:decimal(10,2);not null" json:"pricePerNight"`
	OperatingMode OperatingMode  `gorm:"type:varchar(20)" json:"operatingMode"`
	HostID        string         `gorm:"type:varchar(36);not null;index" json:"hostId"`
	Host          *User          `gorm:"foreignKey:HostID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt     time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (Property) TableName() string {
	return "property"
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
