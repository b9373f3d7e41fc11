package repositories

import (
	"context"

	"booking-api/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PropertyRepository define el acceso a datos de propiedades
type PropertyRepository interface {
	CreateWithCover(ctx context.Context, property *domain.Property, cover *domain.Photo) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	Update(ctx context.Context, id string, apply func(*domain.Property) error, cover *domain.Photo) (*domain.Property, error)
	DeleteCascade(ctx context.Context, id string) (CascadeResult, error)
	List(ctx context.Context, search string) ([]domain.Property, error)
	Search(ctx context.Context, location string, propertyType domain.PropertyType) ([]domain.Property, error)
	ListByHost(ctx context.Context, hostID string) ([]domain.Property, error)
	CoverPhotoIDs(ctx context.Context, propertyIDs []string) (map[string]string, error)
	AddCommodities(ctx context.Context, propertyID string, commodityIDs []uint) error
	RemoveCommodities(ctx context.Context, propertyID string, commodityIDs []uint) error
	CountCommodities(ctx context.Context, commodityIDs []uint) (int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository crea una nueva instancia del repositorio
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// CreateWithCover inserta la propiedad y su foto de portada en la misma transacción
func (r *propertyRepository) CreateWithCover(ctx context.Context, property *domain.Property, cover *domain.Photo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(property).Error; err != nil {
			return err
		}
		if cover == nil {
			return nil
		}
		cover.PropertyID = property.ID
		cover.IsCover = true
		return tx.Create(cover).Error
	})
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	var property domain.Property
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error
	if err != nil {
		return nil, notFoundOr(err, "property %s not found", id)
	}
	return &property, nil
}

// Update lee la propiedad con la fila bloqueada, le aplica apply y guarda el
// resultado; si viene cover reemplaza (o crea) la portada. Un error de apply
// aborta la transacción sin escribir nada.
func (r *propertyRepository) Update(ctx context.Context, id string, apply func(*domain.Property) error, cover *domain.Photo) (*domain.Property, error) {
	var updated *domain.Property
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		property, err := lockProperty(tx, id)
		if err != nil {
			return err
		}
		if err := apply(property); err != nil {
			return err
		}
		if err := tx.Save(property).Error; err != nil {
			return err
		}
		updated = property
		if cover == nil {
			return nil
		}
		saved, err := upsertCover(tx, property.ID, cover.Data, cover.ContentType)
		if err != nil {
			return err
		}
		*cover = *saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCascade borra la propiedad con reviews, reservas, fotos y comodidades.
// Si algún paso falla la transacción completa hace rollback.
func (r *propertyRepository) DeleteCascade(ctx context.Context, id string) (CascadeResult, error) {
	var result CascadeResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property domain.Property
		if err := tx.Select("id").Where("id = ?", id).First(&property).Error; err != nil {
			return notFoundOr(err, "property %s not found", id)
		}

		var err error
		result, err = deletePropertyTree(tx, []string{id})
		return err
	})
	if err != nil {
		return CascadeResult{}, err
	}

	return result, nil
}

// List busca por título o descripción (OR, case-insensitive), más nuevas primero
func (r *propertyRepository) List(ctx context.Context, search string) ([]domain.Property, error) {
	query := r.db.WithContext(ctx).Model(&domain.Property{})
	if search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	var properties []domain.Property
	err := query.Order("created_at DESC").Find(&properties).Error
	return properties, err
}

// Search filtra por ciudad (substring) y categoría; ambos filtros son opcionales
func (r *propertyRepository) Search(ctx context.Context, location string, propertyType domain.PropertyType) ([]domain.Property, error) {
	query := r.db.WithContext(ctx).Model(&domain.Property{})
	if location != "" {
		query = query.Where("LOWER(city) LIKE ? ESCAPE '!'", likePattern(location))
	}
	if propertyType != "" {
		query = query.Where("type = ?", propertyType)
	}

	var properties []domain.Property
	err := query.Order("created_at DESC").Find(&properties).Error
	return properties, err
}

func (r *propertyRepository) ListByHost(ctx context.Context, hostID string) ([]domain.Property, error) {
	var properties []domain.Property
	err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at DESC").
		Find(&properties).Error
	return properties, err
}

// CoverPhotoIDs resuelve la portada de cada propiedad con una sola consulta.
// Devuelve property_id -> photo_id; las propiedades sin portada no aparecen.
func (r *propertyRepository) CoverPhotoIDs(ctx context.Context, propertyIDs []string) (map[string]string, error) {
	covers := make(map[string]string, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return covers, nil
	}

	var rows []struct {
		ID         string
		PropertyID string
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Photo{}).
		Select("id, property_id").
		Where("property_id IN ? AND is_cover = ?", propertyIDs, true).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		covers[row.PropertyID] = row.ID
	}
	return covers, nil
}

// AddCommodities vincula comodidades; los vínculos repetidos se ignoran
func (r *propertyRepository) AddCommodities(ctx context.Context, propertyID string, commodityIDs []uint) error {
	links := make([]domain.PropertyCommodity, 0, len(commodityIDs))
	for _, id := range commodityIDs {
		links = append(links, domain.PropertyCommodity{PropertyID: propertyID, CommodityID: id})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
}

// RemoveCommodities desvincula comodidades. Si el vínculo no existe no pasa nada.
func (r *propertyRepository) RemoveCommodities(ctx context.Context, propertyID string, commodityIDs []uint) error {
	return r.db.WithContext(ctx).
		Where("property_id = ? AND commodity_id IN ?", propertyID, commodityIDs).
		Delete(&domain.PropertyCommodity{}).Error
}

// CountCommodities cuenta cuántos de los ids existen en el catálogo
func (r *propertyRepository) CountCommodities(ctx context.Context, commodityIDs []uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Commodity{}).Where("id IN ?", commodityIDs).Count(&n).Error
	return n, err
}
