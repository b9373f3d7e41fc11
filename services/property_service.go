package services

import (
	"context"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/events"
	"booking-api/repositories"
	"booking-api/utils"

	"github.com/sirupsen/logrus"
)

// PropertyService define las operaciones del catálogo de propiedades
type PropertyService interface {
	Create(ctx context.Context, hostID string, req dto.CreatePropertyRequest, image *dto.Image) (*domain.Property, error)
	Update(ctx context.Context, id string, req dto.UpdatePropertyRequest, image *dto.Image) (*domain.Property, error)
	Delete(ctx context.Context, id string) (repositories.CascadeResult, error)
	FindByID(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, search string) ([]dto.PropertyListItem, error)
	Search(ctx context.Context, query dto.PropertySearchQuery) ([]dto.PropertyListItem, error)
	ListMine(ctx context.Context, hostID string) ([]dto.PropertyListItem, error)
	AddPhoto(ctx context.Context, propertyID string, image *dto.Image) (*domain.Photo, error)
	RemovePhoto(ctx context.Context, propertyID, photoID string) error
	ListPhotos(ctx context.Context, propertyID string) ([]domain.Photo, error)
	GetPhotoData(ctx context.Context, photoID string) (*domain.Photo, error)
	AddCommodities(ctx context.Context, propertyID string, commodityIDs []uint) error
	RemoveCommodities(ctx context.Context, propertyID string, commodityIDs []uint) error
}

type propertyService struct {
	properties     repositories.PropertyRepository
	photos         repositories.PhotoRepository
	publisher      events.Publisher
	maxUploadBytes int64
	logger         *logrus.Logger
}

func NewPropertyService(
	properties repositories.PropertyRepository,
	photos repositories.PhotoRepository,
	publisher events.Publisher,
	maxUploadBytes int64,
	logger *logrus.Logger,
) PropertyService {
	return &propertyService{
		properties:     properties,
		photos:         photos,
		publisher:      publisher,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Create guarda la propiedad junto con su portada; la imagen es obligatoria
func (s *propertyService) Create(ctx context.Context, hostID string, req dto.CreatePropertyRequest, image *dto.Image) (*domain.Property, error) {
	if image == nil {
		return nil, domain.NewValidation("image is required")
	}
	if err := s.checkImage(image); err != nil {
		return nil, err
	}

	propertyType := domain.PropertyType(req.Type)
	if !propertyType.Valid() {
		return nil, domain.NewValidation("invalid property type %q", req.Type)
	}
	if req.PricePerNight <= 0 {
		return nil, domain.NewValidation("pricePerNight must be greater than zero")
	}

	status := domain.PropertyStatusAvailable
	if req.Status != "" {
		status = domain.PropertyStatus(req.Status)
		if !status.Valid() {
			return nil, domain.NewValidation("invalid property status %q", req.Status)
		}
	}

	mode := propertyType.DefaultOperatingMode()
	if req.OperatingMode != "" {
		mode = domain.OperatingMode(req.OperatingMode)
		if !mode.Valid() {
			return nil, domain.NewValidation("invalid operating mode %q", req.OperatingMode)
		}
	}

	property := &domain.Property{
		Title:         req.Title,
		Description:   req.Description,
		Type:          propertyType,
		Status:        status,
		Street:        req.Street,
		City:          req.City,
		State:         req.State,
		Country:       req.Country,
		ZipCode:       req.ZipCode,
		PricePerNight: req.PricePerNight,
		OperatingMode: mode,
		HostID:        hostID,
	}
	cover := &domain.Photo{Data: image.Data, ContentType: image.ContentType}

	if err := s.properties.CreateWithCover(ctx, property, cover); err != nil {
		return nil, wrap(err, "error creating property")
	}

	s.logger.WithFields(logrus.Fields{"property_id": property.ID, "host_id": hostID}).Info("Property created")
	s.publish(ctx, events.ActionCreate, property.ID)
	return property, nil
}

// Update mezcla los campos enviados. Si viene imagen, reemplaza la portada
// (o la crea si la propiedad no tenía).
func (s *propertyService) Update(ctx context.Context, id string, req dto.UpdatePropertyRequest, image *dto.Image) (*domain.Property, error) {
	var cover *domain.Photo
	if image != nil {
		if err := s.checkImage(image); err != nil {
			return nil, err
		}
		cover = &domain.Photo{Data: image.Data, ContentType: image.ContentType}
	}

	// El merge corre sobre la fila leída bajo lock: dos updates concurrentes
	// que tocan campos distintos no se pisan.
	property, err := s.properties.Update(ctx, id, func(property *domain.Property) error {
		return mergeProperty(property, req)
	}, cover)
	if err != nil {
		return nil, wrap(err, "error updating property")
	}

	s.publish(ctx, events.ActionUpdate, property.ID)
	return property, nil
}

func mergeProperty(property *domain.Property, req dto.UpdatePropertyRequest) error {
	if req.Type != nil {
		propertyType := domain.PropertyType(*req.Type)
		if !propertyType.Valid() {
			return domain.NewValidation("invalid property type %q", *req.Type)
		}
		property.Type = propertyType
	}
	if req.Status != nil {
		status := domain.PropertyStatus(*req.Status)
		if !status.Valid() {
			return domain.NewValidation("invalid property status %q", *req.Status)
		}
		property.Status = status
	}
	if req.OperatingMode != nil {
		mode := domain.OperatingMode(*req.OperatingMode)
		if !mode.Valid() {
			return domain.NewValidation("invalid operating mode %q", *req.OperatingMode)
		}
		property.OperatingMode = mode
	}
	if req.PricePerNight != nil {
		if *req.PricePerNight <= 0 {
			return domain.NewValidation("pricePerNight must be greater than zero")
		}
		property.PricePerNight = *req.PricePerNight
	}
	setString(&property.Title, req.Title)
	setString(&property.Description, req.Description)
	setString(&property.Street, req.Street)
	setString(&property.City, req.City)
	setString(&property.State, req.State)
	setString(&property.Country, req.Country)
	setString(&property.ZipCode, req.ZipCode)
	return nil
}

// Delete borra la propiedad y todo su árbol en una transacción
func (s *propertyService) Delete(ctx context.Context, id string) (repositories.CascadeResult, error) {
	result, err := s.properties.DeleteCascade(ctx, id)
	if err != nil {
		return result, wrap(err, "error deleting property")
	}

	s.logger.WithFields(logrus.Fields{
		"property_id":  id,
		"reservations": result.Reservations,
		"photos":       result.Photos,
		"reviews":      result.Reviews,
	}).Info("Property deleted")
	s.publish(ctx, events.ActionDelete, id)
	return result, nil
}

func (s *propertyService) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "error loading property")
	}
	return property, nil
}

func (s *propertyService) List(ctx context.Context, search string) ([]dto.PropertyListItem, error) {
	properties, err := s.properties.List(ctx, search)
	if err != nil {
		return nil, wrap(err, "error listing properties")
	}
	return s.toListItems(ctx, properties)
}

// Search filtra por ciudad y categoría; la categoría tiene que ser válida
func (s *propertyService) Search(ctx context.Context, query dto.PropertySearchQuery) ([]dto.PropertyListItem, error) {
	propertyType := domain.PropertyType(query.Type)
	if query.Type != "" && !propertyType.Valid() {
		return nil, domain.NewValidation("invalid property type %q", query.Type)
	}

	properties, err := s.properties.Search(ctx, query.Location, propertyType)
	if err != nil {
		return nil, wrap(err, "error searching properties")
	}
	return s.toListItems(ctx, properties)
}

func (s *propertyService) ListMine(ctx context.Context, hostID string) ([]dto.PropertyListItem, error) {
	properties, err := s.properties.ListByHost(ctx, hostID)
	if err != nil {
		return nil, wrap(err, "error listing properties")
	}
	return s.toListItems(ctx, properties)
}

// AddPhoto agrega una foto; si la propiedad no tenía portada, esta pasa a serlo
func (s *propertyService) AddPhoto(ctx context.Context, propertyID string, image *dto.Image) (*domain.Photo, error) {
	if image == nil {
		return nil, domain.NewValidation("image is required")
	}
	if err := s.checkImage(image); err != nil {
		return nil, err
	}

	photo, err := s.photos.Add(ctx, propertyID, image.Data, image.ContentType)
	if err != nil {
		return nil, wrap(err, "error adding photo")
	}

	s.publish(ctx, events.ActionUpdate, propertyID)
	return photo, nil
}

func (s *propertyService) RemovePhoto(ctx context.Context, propertyID, photoID string) error {
	if err := s.photos.Remove(ctx, propertyID, photoID); err != nil {
		return wrap(err, "error removing photo")
	}

	s.publish(ctx, events.ActionUpdate, propertyID)
	return nil
}

func (s *propertyService) ListPhotos(ctx context.Context, propertyID string) ([]domain.Photo, error) {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return nil, wrap(err, "error loading property")
	}

	photos, err := s.photos.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, wrap(err, "error listing photos")
	}
	return photos, nil
}

func (s *propertyService) GetPhotoData(ctx context.Context, photoID string) (*domain.Photo, error) {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, wrap(err, "error loading photo")
	}
	return photo, nil
}

// AddCommodities vincula comodidades del catálogo; los repetidos se ignoran
func (s *propertyService) AddCommodities(ctx context.Context, propertyID string, commodityIDs []uint) error {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return wrap(err, "error loading property")
	}

	ids := uniqueIDs(commodityIDs)
	if len(ids) == 0 {
		return domain.NewValidation("commodityIds is required")
	}

	found, err := s.properties.CountCommodities(ctx, ids)
	if err != nil {
		return wrap(err, "error loading commodities")
	}
	if found != int64(len(ids)) {
		return domain.NewNotFound("commodity not found")
	}

	return wrap(s.properties.AddCommodities(ctx, propertyID, ids), "error adding commodities")
}

// RemoveCommodities desvincula comodidades; un vínculo inexistente no es error
func (s *propertyService) RemoveCommodities(ctx context.Context, propertyID string, commodityIDs []uint) error {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return wrap(err, "error loading property")
	}

	ids := uniqueIDs(commodityIDs)
	if len(ids) == 0 {
		return nil
	}
	return wrap(s.properties.RemoveCommodities(ctx, propertyID, ids), "error removing commodities")
}

// checkImage valida tamaño y tipo real del archivo (por contenido, no por extensión)
func (s *propertyService) checkImage(image *dto.Image) error {
	if len(image.Data) == 0 {
		return domain.NewValidation("image is empty")
	}
	if s.maxUploadBytes > 0 && int64(len(image.Data)) > s.maxUploadBytes {
		return domain.NewValidation("image exceeds the maximum size of %d bytes", s.maxUploadBytes)
	}

	contentType, ok := utils.DetectImageType(image.Data)
	if !ok {
		return domain.NewUnsupportedMedia("only jpg, jpeg, png and gif images are allowed")
	}
	image.ContentType = contentType
	return nil
}

// toListItems arma los items resolviendo todas las portadas con una sola consulta
func (s *propertyService) toListItems(ctx context.Context, properties []domain.Property) ([]dto.PropertyListItem, error) {
	ids := make([]string, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}

	covers, err := s.properties.CoverPhotoIDs(ctx, ids)
	if err != nil {
		return nil, wrap(err, "error loading cover photos")
	}

	items := make([]dto.PropertyListItem, 0, len(properties))
	for _, p := range properties {
		items = append(items, dto.NewPropertyListItem(p, covers[p.ID]))
	}
	return items, nil
}

// publish avisa al indexador. La fila ya está commiteada, así que una falla
// acá solo se loguea.
func (s *propertyService) publish(ctx context.Context, action, propertyID string) {
	if err := s.publisher.PublishProperty(ctx, action, propertyID); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"action":      action,
			"property_id": propertyID,
		}).Warn("Failed to publish property message")
	}
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
