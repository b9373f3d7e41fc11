package dto

// LoginRequest representa el request para login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthUser es la identidad autenticada, sin material de contraseña
type AuthUser struct {
	ID    string   `json:"userId"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  []string `json:"role"`
}

// LoginResponse devuelve los tokens y los datos del usuario
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AuthUser
}

// RefreshResponse es la respuesta de /auth/refresh
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}
