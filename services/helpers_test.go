package services

import (
	"context"
	"testing"
	"time"

	"booking-api/domain"
	"booking-api/events"
	"booking-api/repositories"
	"booking-api/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// pngHeader alcanza para que mimetype lo detecte como image/png
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

type fixture struct {
	db           *gorm.DB
	users        repositories.UserRepository
	properties   repositories.PropertyRepository
	photos       repositories.PhotoRepository
	reservations repositories.ReservationRepository
	reviews      repositories.ReviewRepository
	publisher    *events.RecordingPublisher

	propertySvc    PropertyService
	reservationSvc ReservationService
	reviewSvc      ReviewService
}

func newFixture(t *testing.T) *fixture {
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

	log := utils.NewNopLogger()
	f := &fixture{
		db:           db,
		users:        repositories.NewUserRepository(db),
		properties:   repositories.NewPropertyRepository(db),
		photos:       repositories.NewPhotoRepository(db),
		reservations: repositories.NewReservationRepository(db),
		reviews:      repositories.NewReviewRepository(db),
		publisher:    &events.RecordingPublisher{},
	}
	f.propertySvc = NewPropertyService(f.properties, f.photos, f.publisher, 5*1024*1024, log)
	f.reservationSvc = NewReservationService(f.reservations, f.properties, log)
	f.reviewSvc = NewReviewService(f.reviews, f.reservations, f.properties, log)
	return f
}

func (f *fixture) user(t *testing.T, name, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: email, Password: "x", Roles: domain.Roles{domain.RoleGuest, domain.RoleHost}, Status: domain.UserStatusActive}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) property(t *testing.T, hostID string, propertyType domain.PropertyType, price float64) *domain.Property {
	t.Helper()
	p := &domain.Property{
		Title: "Propiedad", Description: "desc", Type: propertyType, Status: domain.PropertyStatusAvailable,
		City: "Salta", PricePerNight: price, OperatingMode: propertyType.DefaultOperatingMode(), HostID: hostID,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func intPtr(v int) *int { return &v }
