package repositories

import (
	"context"
	"time"

	"booking-api/domain"

	"gorm.io/gorm"
)

// ReservationRow es una reserva con los datos de la propiedad y del huésped
// resueltos por JOIN
type ReservationRow struct {
	domain.Reservation
	PropertyTitle string
	PropertyType  domain.PropertyType
	GuestName     string
}

// ReservationRepository define el acceso a datos de reservas
type ReservationRepository interface {
	CreateIfAvailable(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReservationStatus) error
	ListByGuest(ctx context.Context, guestID string) ([]ReservationRow, error)
	ListByProperty(ctx context.Context, propertyID string) ([]ReservationRow, error)
	FindByGuestAndProperty(ctx context.Context, guestID, propertyID string) ([]domain.Reservation, error)
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// CreateIfAvailable inserta la reserva si no se pisa con otra no cancelada.
// El chequeo y el insert corren con la propiedad bloqueada, así dos reservas
// concurrentes sobre el mismo rango no pueden pasar las dos.
func (r *reservationRepository) CreateIfAvailable(ctx context.Context, reservation *domain.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		property, err := lockProperty(tx, reservation.PropertyID)
		if err != nil {
			return err
		}
		if property.Status == domain.PropertyStatusUnavailable {
			return domain.NewConflict("property %s is not available", property.ID)
		}

		query := tx.Model(&domain.Reservation{}).
			Where("property_id = ? AND status <> ?", property.ID, domain.ReservationStatusCanceled)
		query = overlapping(query, property.Type, reservation)

		var overlaps int64
		if err := query.Count(&overlaps).Error; err != nil {
			return err
		}
		if overlaps > 0 {
			return domain.NewConflict("property is already reserved for the requested dates")
		}

		return tx.Create(reservation).Error
	})
}

// overlapping agrega el filtro de solapamiento según la categoría:
//   - HOUSING: el día de salida queda libre para el siguiente huésped
//   - EVENTS: rangos de días inclusivos
//   - SPORTS: mismo día y mismo horario
func overlapping(query *gorm.DB, propertyType domain.PropertyType, reservation *domain.Reservation) *gorm.DB {
	switch propertyType {
	case domain.PropertyTypeSports:
		return query.Where("check_in = ? AND selected_time = ?", reservation.CheckIn, reservation.SelectedTime)
	case domain.PropertyTypeEvents:
		return query.Where("check_in <= ? AND check_out >= ?", reservation.CheckOut, reservation.CheckIn)
	default:
		checkOut := reservation.CheckOut
		if !checkOut.After(reservation.CheckIn) {
			checkOut = reservation.CheckIn.Add(24 * time.Hour)
		}
		return query.Where("check_in < ? AND (check_out > ? OR check_in = ?)", checkOut, reservation.CheckIn, reservation.CheckIn)
	}
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reservation).Error
	if err != nil {
		return nil, notFoundOr(err, "reservation %s not found", id)
	}
	return &reservation, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id string, status domain.ReservationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFound("reservation %s not found", id)
	}
	return nil
}

func (r *reservationRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reservation").
		Select("reservation.*, property.title AS property_title, property.type AS property_type, app_user.name AS guest_name").
		Joins("JOIN property ON property.id = reservation.property_id").
		Joins("LEFT JOIN app_user ON app_user.id = reservation.guest_id")
}

// ListByGuest devuelve las reservas del huésped, incluidas las canceladas
func (r *reservationRepository) ListByGuest(ctx context.Context, guestID string) ([]ReservationRow, error) {
	var rows []ReservationRow
	err := r.joined(ctx).
		Where("reservation.guest_id = ?", guestID).
		Order("reservation.check_in DESC").
		Scan(&rows).Error
	return rows, err
}

// ListByProperty es la vista del anfitrión: excluye las canceladas
func (r *reservationRepository) ListByProperty(ctx context.Context, propertyID string) ([]ReservationRow, error) {
	var rows []ReservationRow
	err := r.joined(ctx).
		Where("reservation.property_id = ? AND reservation.status <> ?", propertyID, domain.ReservationStatusCanceled).
		Order("reservation.check_in ASC").
		Scan(&rows).Error
	return rows, err
}

// FindByGuestAndProperty devuelve las reservas que vinculan huésped y propiedad,
// la más vieja primero
func (r *reservationRepository) FindByGuestAndProperty(ctx context.Context, guestID, propertyID string) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := r.db.WithContext(ctx).
		Where("guest_id = ? AND property_id = ?", guestID, propertyID).
		Order("created_at ASC").
		Find(&reservations).Error
	return reservations, err
}
