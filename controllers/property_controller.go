package controllers

import (
	"errors"
	"io"
	"net/http"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/middleware"
	"booking-api/services"

	"github.com/gin-gonic/gin"
)

// PropertyController maneja propiedades, fotos y comodidades
type PropertyController struct {
	service        services.PropertyService
	maxUploadBytes int64
}

func NewPropertyController(service services.PropertyService, maxUploadBytes int64) *PropertyController {
	return &PropertyController{service: service, maxUploadBytes: maxUploadBytes}
}

// Create maneja POST /property (multipart/form-data con el campo "image")
func (ctrl *PropertyController) Create(c *gin.Context) {
	var req dto.CreatePropertyRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	image, err := ctrl.readImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	property, err := ctrl.service.Create(c.Request.Context(), middleware.CurrentUserID(c), req, image)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Property created successfully", Data: property})
}

// List maneja GET /property?search=
func (ctrl *PropertyController) List(c *gin.Context) {
	items, err := ctrl.service.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Properties retrieved", Data: items})
}

// Search maneja GET /property/search?location=&type=
func (ctrl *PropertyController) Search(c *gin.Context) {
	var query dto.PropertySearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	items, err := ctrl.service.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Properties retrieved", Data: items})
}

// ListMine maneja GET /property/me
func (ctrl *PropertyController) ListMine(c *gin.Context) {
	items, err := ctrl.service.ListMine(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Properties retrieved", Data: items})
}

func (ctrl *PropertyController) GetByID(c *gin.Context) {
	property, err := ctrl.service.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Property retrieved", Data: property})
}

// Update maneja PUT /property/:id. Acepta JSON o multipart; la imagen es opcional.
func (ctrl *PropertyController) Update(c *gin.Context) {
	var req dto.UpdatePropertyRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	image, err := ctrl.readImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	property, err := ctrl.service.Update(c.Request.Context(), c.Param("id"), req, image)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Property updated successfully", Data: property})
}

// Delete maneja DELETE /property/:id y devuelve cuántas filas dependientes se borraron
func (ctrl *PropertyController) Delete(c *gin.Context) {
	result, err := ctrl.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Property deleted successfully", Data: result})
}

// ListPhotos maneja GET /property/:id/photos (portada primero)
func (ctrl *PropertyController) ListPhotos(c *gin.Context) {
	photos, err := ctrl.service.ListPhotos(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.PhotoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, dto.PhotoResponse{
			ID:          p.ID,
			Data:        p.Data,
			ContentType: p.ContentType,
			PropertyID:  p.PropertyID,
			IsCover:     p.IsCover,
		})
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Photos retrieved", Data: out})
}

// AddPhoto maneja POST /property/:id/photos
func (ctrl *PropertyController) AddPhoto(c *gin.Context) {
	image, err := ctrl.readImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	photo, err := ctrl.service.AddPhoto(c.Request.Context(), c.Param("id"), image)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Photo added successfully",
		Data: dto.PhotoResponse{
			ID:          photo.ID,
			ContentType: photo.ContentType,
			PropertyID:  photo.PropertyID,
			IsCover:     photo.IsCover,
		},
	})
}

// RemovePhoto maneja DELETE /property/:id/photos/:photoId
func (ctrl *PropertyController) RemovePhoto(c *gin.Context) {
	if err := ctrl.service.RemovePhoto(c.Request.Context(), c.Param("id"), c.Param("photoId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Photo removed successfully"})
}

// PhotoData maneja GET /photos/:photoId y devuelve el binario tal cual
func (ctrl *PropertyController) PhotoData(c *gin.Context) {
	photo, err := ctrl.service.GetPhotoData(c.Request.Context(), c.Param("photoId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, photo.ContentType, photo.Data)
}

func (ctrl *PropertyController) AddCommodities(c *gin.Context) {
	var req dto.CommoditiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := ctrl.service.AddCommodities(c.Request.Context(), c.Param("id"), req.CommodityIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Commodities added successfully"})
}

func (ctrl *PropertyController) RemoveCommodities(c *gin.Context) {
	var req dto.CommoditiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := ctrl.service.RemoveCommodities(c.Request.Context(), c.Param("id"), req.CommodityIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Commodities removed successfully"})
}

// readImage lee el campo "image" del multipart. Devuelve nil si no vino
// (el service decide si es obligatorio).
func (ctrl *PropertyController) readImage(c *gin.Context) (*dto.Image, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, domain.NewValidation("invalid multipart form: %v", err)
	}

	if ctrl.maxUploadBytes > 0 && header.Size > ctrl.maxUploadBytes {
		return nil, domain.NewValidation("image exceeds the maximum size of %d bytes", ctrl.maxUploadBytes)
	}

	file, err := header.Open()
	if err != nil {
		return nil, domain.NewInternal("error opening upload", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, domain.NewInternal("error reading upload", err)
	}

	return &dto.Image{Data: data, ContentType: header.Header.Get("Content-Type")}, nil
}
