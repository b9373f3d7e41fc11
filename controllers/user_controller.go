package controllers

import (
	"net/http"

	"booking-api/dto"
	"booking-api/middleware"
	"booking-api/services"

	"github.com/gin-gonic/gin"
)

// UserController maneja los endpoints HTTP de usuarios
type UserController struct {
	service services.UserService
}

// NewUserController crea una nueva instancia del controlador
func NewUserController(service services.UserService) *UserController {
	return &UserController{service: service}
}

// List maneja GET /user?search=&status= (solo admin)
func (ctrl *UserController) List(c *gin.Context) {
	var filter dto.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}

	users, err := ctrl.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Users retrieved", Data: users})
}

// Me maneja GET /user/me: el perfil del usuario autenticado
func (ctrl *UserController) Me(c *gin.Context) {
	user, err := ctrl.service.FindByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "User retrieved", Data: user})
}

// GetByID maneja GET /user/:id
// Ejemplo: GET /user/5f0c... -> obtiene el usuario con ese ID
func (ctrl *UserController) GetByID(c *gin.Context) {
	user, err := ctrl.service.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "User retrieved", Data: user})
}

// Update maneja PUT /user/:id
// Solo el admin o el propio usuario pueden actualizarse
func (ctrl *UserController) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// Solo un admin puede cambiar roles o status
	if !middleware.IsAdmin(c) {
		req.Role = nil
		req.Status = nil
	}

	user, err := ctrl.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "User updated successfully", Data: user})
}

// UpdatePassword maneja PUT /user/password
func (ctrl *UserController) UpdatePassword(c *gin.Context) {
	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := ctrl.service.UpdatePassword(c.Request.Context(), middleware.CurrentUserID(c), req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Password updated successfully"})
}

// Delete maneja DELETE /user/:id (solo admin)
// Borra también sus propiedades, reservas y reviews
func (ctrl *UserController) Delete(c *gin.Context) {
	result, err := ctrl.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "User deleted successfully", Data: result})
}
