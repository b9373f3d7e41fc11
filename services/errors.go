package services

import (
	"errors"

	"booking-api/domain"
)

// wrap deja pasar los errores tipados y convierte el resto en Internal
func wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return domain.NewInternal(message, err)
}
