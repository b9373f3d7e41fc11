package services

import (
	"context"
	"time"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/repositories"
	"booking-api/utils"

	"github.com/sirupsen/logrus"
)

// AuthService agrupa el login, la emisión de tokens y la revocación de sesiones
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*dto.AuthUser, error)
	IssueSession(identity *dto.AuthUser) (*dto.LoginResponse, error)
	RefreshSession(ctx context.Context, refreshToken string) (string, error)
	VerifySession(accessToken string) (*utils.Claims, error)
	Logout(ctx context.Context, refreshToken string) error
	Register(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
}

type authService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	userSvc  UserService
	jwt      *utils.JWTManager
	logger   *logrus.Logger
	now      func() time.Time
}

func NewAuthService(
	users repositories.UserRepository,
	sessions repositories.SessionRepository,
	userSvc UserService,
	jwt *utils.JWTManager,
	logger *logrus.Logger,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		userSvc:  userSvc,
		jwt:      jwt,
		logger:   logger,
		now:      time.Now,
	}
}

// Authenticate busca por email y compara el hash. Nunca devuelve el password.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*dto.AuthUser, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, wrap(err, "error loading user")
	}

	if user.Status == domain.UserStatusInactive {
		return nil, domain.NewUnauthorized("user is inactive")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, domain.NewUnauthorized("invalid credentials")
	}

	return &dto.AuthUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Roles.Strings(),
	}, nil
}

// IssueSession firma el par access/refresh para la identidad ya autenticada
func (s *authService) IssueSession(identity *dto.AuthUser) (*dto.LoginResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(identity.ID, identity.Email, identity.Name, identity.Role)
	if err != nil {
		return nil, domain.NewInternal("error generating token", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(identity.ID, identity.Email, identity.Name, identity.Role)
	if err != nil {
		return nil, domain.NewInternal("error generating token", err)
	}

	s.logger.WithField("user_id", identity.ID).Info("Session issued")

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AuthUser:     *identity,
	}, nil
}

// RefreshSession emite un access token nuevo para el mismo usuario.
// Cualquier falla (firma, expiración, revocado) es un token inválido.
func (s *authService) RefreshSession(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", domain.NewUnauthorized("invalid token")
	}

	if claims.ID != "" {
		revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", domain.NewInternal("error checking session", err)
		}
		if revoked {
			return "", domain.NewUnauthorized("invalid token")
		}
	}

	accessToken, err := s.jwt.GenerateAccessToken(claims.Subject, claims.Email, claims.Name, claims.Roles)
	if err != nil {
		return "", domain.NewInternal("error generating token", err)
	}
	return accessToken, nil
}

// VerifySession valida el access token y devuelve sus claims
func (s *authService) VerifySession(accessToken string) (*utils.Claims, error) {
	if accessToken == "" {
		return nil, domain.NewUnauthorized("token not found")
	}

	// Un refresh token (aunque sea válido) no autentica requests
	claims, err := s.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, domain.NewUnauthorized("invalid or expired token")
	}
	return claims, nil
}

// Logout revoca el refresh token hasta que expire. Un token ya inválido
// no tiene nada que revocar.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		return domain.NewInternal("error revoking session", err)
	}

	s.logger.WithField("user_id", claims.Subject).Info("Session revoked")
	return nil
}

// Register es el alta pública: el rol ADMIN no se puede pedir desde acá
func (s *authService) Register(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	roles := make([]string, 0, len(req.Role))
	for _, role := range req.Role {
		if domain.Role(role) != domain.RoleAdmin {
			roles = append(roles, role)
		}
	}
	req.Role = roles

	return s.userSvc.Create(ctx, req)
}
