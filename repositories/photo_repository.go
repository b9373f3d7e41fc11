package repositories

import (
	"context"

	"booking-api/domain"

	"gorm.io/gorm"
)

// PhotoRepository maneja las fotos y el invariante de "una sola portada"
type PhotoRepository interface {
	Add(ctx context.Context, propertyID string, data []byte, contentType string) (*domain.Photo, error)
	GetByID(ctx context.Context, id string) (*domain.Photo, error)
	ListByProperty(ctx context.Context, propertyID string) ([]domain.Photo, error)
	Remove(ctx context.Context, propertyID, photoID string) error
}

type photoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

// Add agrega una foto común; si la propiedad no tiene portada, esta pasa a serlo
func (r *photoRepository) Add(ctx context.Context, propertyID string, data []byte, contentType string) (*domain.Photo, error) {
	photo := &domain.Photo{PropertyID: propertyID, Data: data, ContentType: contentType}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockProperty(tx, propertyID); err != nil {
			return err
		}

		var covers int64
		if err := tx.Model(&domain.Photo{}).
			Where("property_id = ? AND is_cover = ?", propertyID, true).
			Count(&covers).Error; err != nil {
			return err
		}
		photo.IsCover = covers == 0

		return tx.Create(photo).Error
	})
	if err != nil {
		return nil, err
	}
	return photo, nil
}

func (r *photoRepository) GetByID(ctx context.Context, id string) (*domain.Photo, error) {
	var photo domain.Photo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error
	if err != nil {
		return nil, notFoundOr(err, "photo %s not found", id)
	}
	return &photo, nil
}

// ListByProperty devuelve las fotos con la portada primero
func (r *photoRepository) ListByProperty(ctx context.Context, propertyID string) ([]domain.Photo, error) {
	var photos []domain.Photo
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("is_cover DESC, created_at ASC").
		Find(&photos).Error
	return photos, err
}

// Remove borra una foto de la propiedad. Si era la portada, la foto más vieja
// que quede pasa a ser la nueva portada.
func (r *photoRepository) Remove(ctx context.Context, propertyID, photoID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockProperty(tx, propertyID); err != nil {
			return err
		}

		var photo domain.Photo
		err := tx.Select("id, property_id, is_cover").
			Where("id = ? AND property_id = ?", photoID, propertyID).
			First(&photo).Error
		if err != nil {
			return notFoundOr(err, "photo not found in property")
		}

		if err := tx.Where("id = ?", photo.ID).Delete(&domain.Photo{}).Error; err != nil {
			return err
		}
		if !photo.IsCover {
			return nil
		}

		var next domain.Photo
		err = tx.Select("id").
			Where("property_id = ?", propertyID).
			Order("created_at ASC").
			First(&next).Error
		if isRecordNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&domain.Photo{}).Where("id = ?", next.ID).Update("is_cover", true).Error
	})
}
