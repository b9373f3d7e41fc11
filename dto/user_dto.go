package dto

import (
	"time"

	"booking-api/domain"
)

// CreateUserRequest representa el request de registro
// El CPF es opcional, pero si viene tiene que pasar el checksum
type CreateUserRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=3"`
	CPF      string   `json:"cpf,omitempty" binding:"omitempty,cpf"`
	Role     []string `json:"role,omitempty" binding:"omitempty,dive,oneof=ADMIN HOST GUEST"`
	Status   string   `json:"status,omitempty" binding:"omitempty,oneof=ACTIVE INACTIVE PENDING"`
	Phone    string   `json:"phone,omitempty"`
}

// UpdateUserRequest representa el request para actualizar un usuario
// Todos los campos son opcionales; los punteros distinguen "no enviado" de "vacío"
type UpdateUserRequest struct {
	Name              *string    `json:"name,omitempty"`
	Email             *string    `json:"email,omitempty" binding:"omitempty,email"`
	Password          *string    `json:"password,omitempty" binding:"omitempty,min=3"`
	Role              []string   `json:"role,omitempty" binding:"omitempty,dive,oneof=ADMIN HOST GUEST"`
	Status            *string    `json:"status,omitempty" binding:"omitempty,oneof=ACTIVE INACTIVE PENDING"`
	Phone             *string    `json:"phone,omitempty"`
	BirthDate         *time.Time `json:"birthDate,omitempty"`
	Address           *string    `json:"address,omitempty"`
	AddressNumber     *string    `json:"addressNumber,omitempty"`
	Neighborhood      *string    `json:"neighborhood,omitempty"`
	PostalCode        *string    `json:"postalCode,omitempty"`
	City              *string    `json:"city,omitempty"`
	AddressComplement *string    `json:"addressComplement,omitempty"`
	State             *string    `json:"state,omitempty"`
}

// UpdatePasswordRequest es el cambio de contraseña del propio usuario
type UpdatePasswordRequest struct {
	Password string `json:"password" binding:"required,min=3"`
}

// UserFilter son los filtros del listado de administración
type UserFilter struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

// UserListItem es la versión reducida del usuario para listados
type UserListItem struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Role   []string          `json:"role"`
	Status domain.UserStatus `json:"status"`
}

// NewUserListItem arma el item del listado a partir del modelo
func NewUserListItem(u domain.User) UserListItem {
	return UserListItem{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Roles.Strings(),
		Status: u.Status,
	}
}

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse representa una respuesta exitosa
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
