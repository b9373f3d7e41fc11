package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost es el costo de bcrypt; los tests lo bajan a bcrypt.MinCost
var PasswordCost = bcrypt.DefaultCost

// HashPassword hashea una contraseña usando bcrypt
// Recibe: "mipassword123"
// Devuelve: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// CheckPasswordHash verifica si una contraseña coincide con el hash guardado.
// Un hash mal formado cuenta como "no coincide".
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
