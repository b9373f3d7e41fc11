package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims es la estructura de los datos que guardamos EN el token.
// El subject (sub) es el ID del usuario.
type Claims struct {
	Type  string   `json:"typ"`
	Email string   `json:"email"`
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Tipos de token (claim "typ"): un refresh no sirve como access y viceversa
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrWrongTokenType se devuelve cuando el token es válido pero del tipo equivocado
var ErrWrongTokenType = errors.New("wrong token type")

// JWTManager firma y valida los tokens de sesión (access y refresh)
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTManager crea el manager; los TTL vienen de la configuración (1h / 7d por defecto)
func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *JWTManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *JWTManager) RefreshTTL() time.Duration { return m.refreshTTL }

// GenerateAccessToken genera el token de vida corta
func (m *JWTManager) GenerateAccessToken(userID, email, name string, roles []string) (string, error) {
	return m.sign(TokenTypeAccess, userID, email, name, roles, m.accessTTL, "")
}

// GenerateRefreshToken genera el token de vida larga. Lleva un jti único
// para poder revocarlo en el logout.
func (m *JWTManager) GenerateRefreshToken(userID, email, name string, roles []string) (string, error) {
	return m.sign(TokenTypeRefresh, userID, email, name, roles, m.refreshTTL, uuid.NewString())
}

func (m *JWTManager) sign(tokenType, userID, email, name string, roles []string, ttl time.Duration, id string) (string, error) {
	now := m.now()
	claims := &Claims{
		Type:  tokenType,
		Email: email,
		Name:  name,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        id,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken valida firma y expiración y retorna los claims
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.Subject == "" {
		return nil, errors.New("token without subject")
	}

	return claims, nil
}

// ValidateAccessToken valida el token y exige que sea de tipo access
func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validateType(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken valida el token y exige que sea de tipo refresh
func (m *JWTManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return m.validateType(tokenString, TokenTypeRefresh)
}

func (m *JWTManager) validateType(tokenString, tokenType string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
