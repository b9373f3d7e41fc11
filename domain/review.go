package domain

import "time"

// ReviewType indica la dirección de la evaluación
type ReviewType string

const (
	ReviewGuestToHost ReviewType = "GUEST_TO_HOST"
	ReviewHostToGuest ReviewType = "HOST_TO_GUEST"
)

// Review es una evaluación (1 a 5) asociada a una reserva
type Review struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	ReservationID string       `gorm:"type:varchar(36);not null;index" json:"reservationId"`
	Reservation   *Reservation `gorm:"foreignKey:ReservationID;constraint:OnDelete:RESTRICT" json:"-"`
	AuthorID      string       `gorm:"type:varchar(36);not null;index" json:"authorId"`
	Author        *User        `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"-"`
	Rating        int          `gorm:"not null" json:"rating"`
	Comment       string       `gorm:"type:text" json:"comment"`
	Type          ReviewType   `gorm:"type:varchar(20);not null" json:"type"`
	CreatedAt     time.Time    `json:"createdAt"`
}

func (Review) TableName() string {
	return "review"
}

// Models lista todos los modelos para AutoMigrate, en orden de dependencia
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Property{},
		&Photo{},
		&Commodity{},
		&PropertyCommodity{},
		&Reservation{},
		&Review{},
	}
}
