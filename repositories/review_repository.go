package repositories

import (
	"context"
	"time"

	"booking-api/domain"

	"gorm.io/gorm"
)

// ReviewRow es una review con el nombre del autor y las fechas de la reserva
type ReviewRow struct {
	domain.Review
	AuthorName string
	CheckIn    time.Time
	CheckOut   time.Time
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByProperty(ctx context.Context, propertyID string) ([]ReviewRow, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// ListByProperty trae las reviews de todas las reservas de la propiedad, más nuevas primero
func (r *reviewRepository) ListByProperty(ctx context.Context, propertyID string) ([]ReviewRow, error) {
	var rows []ReviewRow
	err := r.db.WithContext(ctx).
		Table("review").
		Select("review.*, app_user.name AS author_name, reservation.check_in AS check_in, reservation.check_out AS check_out").
		Joins("JOIN reservation ON reservation.id = review.reservation_id").
		Joins("LEFT JOIN app_user ON app_user.id = review.author_id").
		Where("reservation.property_id = ?", propertyID).
		Order("review.created_at DESC, review.id DESC").
		Scan(&rows).Error
	return rows, err
}
