package repositories

import (
	"booking-api/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CascadeResult cuenta las filas borradas por cada tabla en un borrado en cascada
type CascadeResult struct {
	Reviews      int64 `json:"reviews"`
	Reservations int64 `json:"reservations"`
	Photos       int64 `json:"photos"`
	Commodities  int64 `json:"commodities"`
	Properties   int64 `json:"properties"`
}

// Total es la suma de todas las filas borradas
func (r CascadeResult) Total() int64 {
	return r.Reviews + r.Reservations + r.Photos + r.Commodities + r.Properties
}

func (r *CascadeResult) add(other CascadeResult) {
	r.Reviews += other.Reviews
	r.Reservations += other.Reservations
	r.Photos += other.Photos
	r.Commodities += other.Commodities
	r.Properties += other.Properties
}

// deletePropertyTree borra las propiedades y todo lo que cuelga de ellas, en orden
// de dependencia: reviews -> reservas -> fotos -> comodidades -> propiedad.
// Tiene que correr dentro de una transacción (tx).
func deletePropertyTree(tx *gorm.DB, propertyIDs []string) (CascadeResult, error) {
	var result CascadeResult
	if len(propertyIDs) == 0 {
		return result, nil
	}

	reservationIDs := tx.Model(&domain.Reservation{}).Select("id").Where("property_id IN ?", propertyIDs)
	res := tx.Where("reservation_id IN (?)", reservationIDs).Delete(&domain.Review{})
	if res.Error != nil {
		return result, res.Error
	}
	result.Reviews = res.RowsAffected

	res = tx.Where("property_id IN ?", propertyIDs).Delete(&domain.Reservation{})
	if res.Error != nil {
		return result, res.Error
	}
	result.Reservations = res.RowsAffected

	res = tx.Where("property_id IN ?", propertyIDs).Delete(&domain.Photo{})
	if res.Error != nil {
		return result, res.Error
	}
	result.Photos = res.RowsAffected

	res = tx.Where("property_id IN ?", propertyIDs).Delete(&domain.PropertyCommodity{})
	if res.Error != nil {
		return result, res.Error
	}
	result.Commodities = res.RowsAffected

	res = tx.Where("id IN ?", propertyIDs).Delete(&domain.Property{})
	if res.Error != nil {
		return result, res.Error
	}
	result.Properties = res.RowsAffected

	return result, nil
}

// lockProperty toma el lock de fila de la propiedad (SELECT ... FOR UPDATE).
// Serializa la escritura de la portada y la creación de reservas por propiedad.
// En SQLite el driver omite la cláusula; ahí los writers ya están serializados.
func lockProperty(tx *gorm.DB, propertyID string) (*domain.Property, error) {
	var property domain.Property
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", propertyID).
		First(&property).Error
	if err != nil {
		return nil, notFoundOr(err, "property %s not found", propertyID)
	}
	return &property, nil
}

// upsertCover reemplaza el binario de la portada si existe, o crea una nueva.
// El caller tiene que tener el lock de la propiedad.
func upsertCover(tx *gorm.DB, propertyID string, data []byte, contentType string) (*domain.Photo, error) {
	var cover domain.Photo
	err := tx.Where("property_id = ? AND is_cover = ?", propertyID, true).First(&cover).Error
	switch {
	case err == nil:
		cover.Data = data
		cover.ContentType = contentType
		if err := tx.Model(&cover).Updates(map[string]interface{}{
			"data":         data,
			"content_type": contentType,
		}).Error; err != nil {
			return nil, err
		}
		return &cover, nil
	case isRecordNotFound(err):
		cover = domain.Photo{PropertyID: propertyID, Data: data, ContentType: contentType, IsCover: true}
		if err := tx.Create(&cover).Error; err != nil {
			return nil, err
		}
		return &cover, nil
	default:
		return nil, err
	}
}
