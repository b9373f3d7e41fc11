package controllers

import (
	"errors"
	"net/http"

	"booking-api/domain"
	"booking-api/dto"

	"github.com/gin-gonic/gin"
)

// respondError traduce cualquier error al envelope {error, message} con su status.
// Los errores no tipados salen como 500 sin exponer el detalle.
func respondError(c *gin.Context, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		appErr = domain.NewInternal("internal server error", err)
	}

	message := appErr.Message
	if appErr.Kind == domain.KindInternal {
		_ = c.Error(err)
		message = "internal server error"
	}

	c.JSON(appErr.HTTPStatus(), dto.ErrorResponse{
		Error:   string(appErr.Kind),
		Message: message,
	})
}

// bindError es el 400 de gin binding (JSON mal formado, campos faltantes, etc.)
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   string(domain.KindValidation),
		Message: err.Error(),
	})
}
