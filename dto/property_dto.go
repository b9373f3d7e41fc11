package dto

import (
	"time"

	"booking-api/domain"
)

// CreatePropertyRequest llega como multipart/form-data junto con el campo "image"
type CreatePropertyRequest struct {
	Title         string  `form:"title" json:"title" binding:"required"`
	Description   string  `form:"description" json:"description" binding:"required"`
	Type          string  `form:"type" json:"type" binding:"required,oneof=HOUSING EVENTS SPORTS"`
	Status        string  `form:"status" json:"status" binding:"omitempty,oneof=AVAILABLE UNAVAILABLE"`
	OperatingMode string  `form:"operatingMode" json:"operatingMode" binding:"omitempty,oneof=PER_NIGHT PER_HOUR PER_DAY"`
	Street        string  `form:"street" json:"street" binding:"required"`
	City          string  `form:"city" json:"city" binding:"required"`
	State         string  `form:"state" json:"state" binding:"required"`
	Country       string  `form:"country" json:"country" binding:"required"`
	ZipCode       string  `form:"zipCode" json:"zipCode" binding:"required"`
	PricePerNight float64 `form:"pricePerNight" json:"pricePerNight" binding:"required,gt=0"`
}

// UpdatePropertyRequest: todos los campos opcionales
type UpdatePropertyRequest struct {
	Title         *string  `form:"title" json:"title"`
	Description   *string  `form:"description" json:"description"`
	Type          *string  `form:"type" json:"type" binding:"omitempty,oneof=HOUSING EVENTS SPORTS"`
	Status        *string  `form:"status" json:"status" binding:"omitempty,oneof=AVAILABLE UNAVAILABLE"`
	OperatingMode *string  `form:"operatingMode" json:"operatingMode" binding:"omitempty,oneof=PER_NIGHT PER_HOUR PER_DAY"`
	Street        *string  `form:"street" json:"street"`
	City          *string  `form:"city" json:"city"`
	State         *string  `form:"state" json:"state"`
	Country       *string  `form:"country" json:"country"`
	ZipCode       *string  `form:"zipCode" json:"zipCode"`
	PricePerNight *float64 `form:"pricePerNight" json:"pricePerNight" binding:"omitempty,gt=0"`
}

// PropertySearchQuery son los filtros de /property/search
type PropertySearchQuery struct {
	Location string `form:"location"`
	Type     string `form:"type"`
}

// CommoditiesRequest agrega o quita comodidades de una propiedad
type CommoditiesRequest struct {
	CommodityIDs []uint `json:"commodityIds" binding:"required,min=1"`
}

// Image es el archivo ya leído del multipart
type Image struct {
	Data        []byte
	ContentType string
}

// PropertyListItem es la vista resumida (listados y búsqueda)
type PropertyListItem struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Type         domain.PropertyType `json:"type"`
	City         string              `json:"city"`
	Price        float64             `json:"pricePerNight"`
	CoverPhotoID *string             `json:"coverPhotoId"`
	HostID       string              `json:"hostId"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// NewPropertyListItem arma el item; coverID puede ser vacío
func NewPropertyListItem(p domain.Property, coverID string) PropertyListItem {
	item := PropertyListItem{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Type:        p.Type,
		City:        p.City,
		Price:       p.PricePerNight,
		HostID:      p.HostID,
		CreatedAt:   p.CreatedAt,
	}
	if coverID != "" {
		item.CoverPhotoID = &coverID
	}
	return item
}

// PhotoResponse es la foto con su binario (se serializa en base64)
type PhotoResponse struct {
	ID          string `json:"id"`
	Data        []byte `json:"data"`
	ContentType string `json:"contentType"`
	PropertyID  string `json:"propertyId"`
	IsCover     bool   `json:"isCover"`
}
