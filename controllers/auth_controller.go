package controllers

import (
	"net/http"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/middleware"
	"booking-api/services"

	"github.com/gin-gonic/gin"
)

const refreshTokenCookie = "refresh_token"

// AuthController maneja login, logout, registro y refresh de sesión
type AuthController struct {
	service      services.AuthService
	cookieSecure bool
}

func NewAuthController(service services.AuthService, cookieSecure bool) *AuthController {
	return &AuthController{service: service, cookieSecure: cookieSecure}
}

// Login maneja POST /auth/login
// Devuelve los tokens en el body y también como cookies httpOnly
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	identity, err := ctrl.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := ctrl.service.IssueSession(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	ctrl.setCookie(c, middleware.AccessTokenCookie, session.AccessToken, 60*60)
	ctrl.setCookie(c, refreshTokenCookie, session.RefreshToken, 7*24*60*60)

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Login successful",
		Data:    session,
	})
}

// Logout maneja POST /auth/logout: revoca el refresh token y borra las cookies
func (ctrl *AuthController) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshTokenCookie)
	if err := ctrl.service.Logout(c.Request.Context(), refreshToken); err != nil {
		respondError(c, err)
		return
	}

	ctrl.clearCookies(c)
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logout successful"})
}

// Register maneja POST /auth/register (alta pública)
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := ctrl.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// Status 201 = Created
	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "User created successfully",
		Data:    user,
	})
}

// Refresh maneja POST /auth/refresh usando la cookie refresh_token
func (ctrl *AuthController) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil || refreshToken == "" {
		ctrl.clearCookies(c)
		respondError(c, domain.NewValidation("refresh token not found"))
		return
	}

	accessToken, err := ctrl.service.RefreshSession(c.Request.Context(), refreshToken)
	if err != nil {
		ctrl.clearCookies(c)
		respondError(c, err)
		return
	}

	ctrl.setCookie(c, middleware.AccessTokenCookie, accessToken, 60*60)
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Token refreshed",
		Data:    dto.RefreshResponse{AccessToken: accessToken},
	})
}

// Check maneja POST /auth/check: 200 si el access token es válido
func (ctrl *AuthController) Check(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Token is valid",
		Data: gin.H{
			"valid":  true,
			"userId": middleware.CurrentUserID(c),
		},
	})
}

// Cookies httpOnly, secure y SameSite=None (el frontend vive en otro origen)
func (ctrl *AuthController) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, maxAge, "/", "", ctrl.cookieSecure, true)
}

func (ctrl *AuthController) clearCookies(c *gin.Context) {
	ctrl.setCookie(c, middleware.AccessTokenCookie, "", -1)
	ctrl.setCookie(c, refreshTokenCookie, "", -1)
}
