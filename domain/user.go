package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role define los roles que puede tener un usuario (no son excluyentes)
type Role string

const (
	RoleAdmin Role = "ADMIN" // Administrador de la plataforma
	RoleHost  Role = "HOST"  // Anfitrión: publica propiedades
	RoleGuest Role = "GUEST" // Huésped: reserva y evalúa
)

// UserStatus define el estado de la cuenta
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusPending  UserStatus = "PENDING"
)

// Roles es el conjunto de roles de un usuario, guardado como JSON en una sola columna
type Roles []Role

// Has indica si el conjunto contiene el rol
func (r Roles) Has(role Role) bool {
	for _, current := range r {
		if current == role {
			return true
		}
	}
	return false
}

// Strings convierte los roles a []string (para los claims del JWT)
func (r Roles) Strings() []string {
	out := make([]string, len(r))
	for i, role := range r {
		out[i] = string(role)
	}
	return out
}

// RolesFromStrings es la operación inversa de Strings
func RolesFromStrings(values []string) Roles {
	out := make(Roles, 0, len(values))
	for _, v := range values {
		out = append(out, Role(v))
	}
	return out
}

// User representa un usuario en el sistema
type User struct {
	ID                string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email             string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name              string     `gorm:"not null" json:"name"`
	Password          string     `gorm:"not null" json:"-"` // El "-" oculta el password en JSON
	Roles             Roles      `gorm:"serializer:json;type:varchar(64)" json:"role"`
	Status            UserStatus `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	Phone             string     `json:"phone,omitempty"`
	CPF               *string    `gorm:"column:cpf;type:varchar(14);uniqueIndex" json:"cpf,omitempty"`
	BirthDate         *time.Time `json:"birthDate,omitempty"`
	Address           string     `json:"address,omitempty"`
	AddressNumber     string     `json:"addressNumber,omitempty"`
	Neighborhood      string     `json:"neighborhood,omitempty"`
	PostalCode        string     `json:"postalCode,omitempty"`
	City              string     `json:"city,omitempty"`
	AddressComplement string     `json:"addressComplement,omitempty"`
	State             string     `json:"state,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// TableName especifica el nombre de la tabla
func (User) TableName() string {
	return "app_user"
}

// BeforeCreate asigna un UUID si el ID viene vacío
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
