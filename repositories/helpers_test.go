package repositories

import (
	"context"
	"testing"
	"time"

	"booking-api/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB abre una base SQLite en memoria con el esquema completo.
// Una sola conexión: cada conexión nueva a :memory: es una base distinta.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(domain.Models()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, roles ...domain.Role) *domain.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleGuest}
	}
	user := &domain.User{Name: name, Email: email, Password: "hash", Roles: roles, Status: domain.UserStatusActive}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProperty(t *testing.T, db *gorm.DB, hostID string, propertyType domain.PropertyType) *domain.Property {
	t.Helper()
	property := &domain.Property{
		Title:         "Casa " + string(propertyType),
		Description:   "Una propiedad de prueba",
		Type:          propertyType,
		Status:        domain.PropertyStatusAvailable,
		City:          "Córdoba",
		PricePerNight: 100,
		OperatingMode: propertyType.DefaultOperatingMode(),
		HostID:        hostID,
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

func seedPhoto(t *testing.T, db *gorm.DB, propertyID string, cover bool, createdAt time.Time) *domain.Photo {
	t.Helper()
	photo := &domain.Photo{
		PropertyID:  propertyID,
		Data:        []byte{0x89, 'P', 'N', 'G'},
		ContentType: "image/png",
		IsCover:     cover,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(photo).Error)
	return photo
}

func seedReservation(t *testing.T, db *gorm.DB, propertyID, guestID string, checkIn, checkOut time.Time) *domain.Reservation {
	t.Helper()
	reservation := &domain.Reservation{
		PropertyID: propertyID,
		GuestID:    guestID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalPrice: 100,
		Status:     domain.ReservationStatusPending,
	}
	require.NoError(t, db.Create(reservation).Error)
	return reservation
}

func seedReview(t *testing.T, db *gorm.DB, reservationID, authorID string, rating int) *domain.Review {
	t.Helper()
	review := &domain.Review{
		ReservationID: reservationID,
		AuthorID:      authorID,
		Rating:        rating,
		Comment:       "ok",
		Type:          domain.ReviewGuestToHost,
	}
	require.NoError(t, db.Create(review).Error)
	return review
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d.UTC()
}

var ctx = context.Background()
