package utils

import (
	"github.com/gabriel-vasile/mimetype"
)

// allowedImageTypes son los formatos de imagen aceptados en los uploads
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

// DetectImageType inspecciona los bytes (no confía en el header del cliente)
// y devuelve el MIME si es una imagen permitida.
func DetectImageType(data []byte) (string, bool) {
	mtype := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed) {
			return allowed, true
		}
	}
	return mtype.String(), false
}
