package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Photo guarda el binario de una imagen de la propiedad.
// Como máximo una foto por propiedad tiene IsCover en true.
type Photo struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Data        []byte    `gorm:"not null" json:"data,omitempty"`
	ContentType string    `gorm:"type:varchar(50)" json:"contentType"`
	PropertyID  string    `gorm:"type:varchar(36);not null;index" json:"propertyId"`
	Property    *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:RESTRICT" json:"-"`
	IsCover     bool      `gorm:"not null;default:false" json:"isCover"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Photo) TableName() string {
	return "photo"
}

func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
