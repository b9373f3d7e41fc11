package middleware

import (
	"errors"
	"strings"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/services"

	"github.com/gin-gonic/gin"
)

// Claves que AuthMiddleware deja en el contexto de gin
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRoles  = "roles"
)

// AccessTokenCookie es la cookie httpOnly con el access token
const AccessTokenCookie = "access_token"

// AuthMiddleware valida el access token en cada request.
// Acepta la cookie "access_token" o el header "Authorization: Bearer <token>".
func AuthMiddleware(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)

		claims, err := auth.VerifySession(token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Guardar la info del usuario en el contexto
		// Así los endpoints pueden saber quién hizo la request
		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRoles, domain.RolesFromStrings(claims.Roles))

		c.Next() // Continúa con el endpoint
	}
}

// extractToken prioriza la cookie; si no está, busca el Bearer
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	// Formato esperado: "Bearer <token>"
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AdminMiddleware valida que el usuario sea admin
// Este middleware se usa DESPUÉS de AuthMiddleware. El rol se lee de la base,
// no del token, para que quitar el rol tenga efecto inmediato.
func AdminMiddleware(users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			abortWithError(c, domain.NewUnauthorized("user not authenticated"))
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if domain.IsKind(err, domain.KindNotFound) {
				abortWithError(c, domain.NewUnauthorized("user not found"))
				return
			}
			abortWithError(c, err)
			return
		}

		if !user.Roles.Has(domain.RoleAdmin) {
			abortWithError(c, domain.NewForbidden("admin privileges required"))
			return
		}

		c.Next()
	}
}

// PropertyOwnershipMiddleware deja pasar al admin o al anfitrión de la propiedad :id
func PropertyOwnershipMiddleware(properties services.PropertyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAdmin(c) {
			c.Next()
			return
		}

		property, err := properties.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		if property.HostID != CurrentUserID(c) {
			abortWithError(c, domain.NewForbidden("you are not the owner of this property"))
			return
		}

		c.Next()
	}
}

// SelfOrAdminMiddleware deja pasar al admin o al usuario cuyo id está en :param
func SelfOrAdminMiddleware(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAdmin(c) || c.Param(param) == CurrentUserID(c) {
			c.Next()
			return
		}
		abortWithError(c, domain.NewForbidden("you can only modify your own account"))
	}
}

// CurrentUserID devuelve el sub del token (vacío si no hay sesión)
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// IsAdmin mira los roles del token
func IsAdmin(c *gin.Context) bool {
	value, exists := c.Get(ContextRoles)
	if !exists {
		return false
	}
	roles, ok := value.(domain.Roles)
	return ok && roles.Has(domain.RoleAdmin)
}

func abortWithError(c *gin.Context, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		appErr = domain.NewInternal("internal server error", err)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus(), dto.ErrorResponse{
		Error:   string(appErr.Kind),
		Message: appErr.Message,
	})
}
