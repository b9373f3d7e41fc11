package services

import (
	"context"
	"sync"
	"testing"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRequest() dto.CreatePropertyRequest {
	return dto.CreatePropertyRequest{
		Title: "Cabaña", Description: "Frente al lago", Type: "HOUSING",
		Street: "Av. Siempre Viva 742", City: "Bariloche", State: "Río Negro",
		Country: "AR", ZipCode: "8400", PricePerNight: 120,
	}
}

func TestPropertyService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, "Host", "host@test.com")

	property, err := f.propertySvc.Create(ctx, host.ID, createRequest(), &dto.Image{Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, host.ID, property.HostID)
	assert.Equal(t, domain.PropertyStatusAvailable, property.Status)
	assert.Equal(t, domain.OperatingModePerNight, property.OperatingMode)

	photos, err := f.propertySvc.ListPhotos(ctx, property.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.True(t, photos[0].IsCover)
	assert.Equal(t, "image/png", photos[0].ContentType)

	items, err := f.propertySvc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].CoverPhotoID)
	assert.Equal(t, photos[0].ID, *items[0].CoverPhotoID)

	assert.Equal(t, []events.PropertyMessage{{Action: events.ActionCreate, PropertyID: property.ID}}, f.publisher.Snapshot())
}

func TestPropertyService_CreateRejectsUploads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, "Host", "host@test.com")

	_, err := f.propertySvc.Create(ctx, host.ID, createRequest(), nil)
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = f.propertySvc.Create(ctx, host.ID, createRequest(), &dto.Image{Data: []byte("%PDF-1.4 not an image")})
	assert.True(t, domain.IsKind(err, domain.KindUnsupportedMedia))

	small := NewPropertyService(f.properties, f.photos, events.NopPublisher{}, 4, f.propertySvc.(*propertyService).logger)
	_, err = small.Create(ctx, host.ID, createRequest(), &dto.Image{Data: pngHeader})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	assert.Equal(t, int64(0), countRows(t, f, &domain.Property{}))
}

func TestPropertyService_UpdateMergesAndReplacesCover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, "Host", "host@test.com")
	property := f.property(t, host.ID, domain.PropertyTypeHousing, 100)

	title := "Nuevo"
	price := 150.0
	updated, err := f.propertySvc.Update(ctx, property.ID, dto.UpdatePropertyRequest{Title: &title, PricePerNight: &price}, &dto.Image{Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", updated.Title)
	assert.Equal(t, 150.0, updated.PricePerNight)
	assert.Equal(t, "Salta", updated.City)

	photos, err := f.propertySvc.ListPhotos(ctx, property.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.True(t, photos[0].IsCover)

	badType := "CASTLE"
	_, err = f.propertySvc.Update(ctx, property.ID, dto.UpdatePropertyRequest{Type: &badType}, nil)
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = f.propertySvc.Update(ctx, "missing", dto.UpdatePropertyRequest{}, nil)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestPropertyService_ConcurrentUpdatesKeepEveryField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, "Host", "host@test.com")
	property := f.property(t, host.ID, domain.PropertyTypeHousing, 100)

	title, description, street, city := "Título", "Descripción", "San Martín 123", "Jujuy"
	state, country, zip := "Jujuy", "Argentina", "4600"
	requests := []dto.UpdatePropertyRequest{
		{Title: &title}, {Description: &description}, {Street: &street}, {City: &city},
		{State: &state}, {Country: &country}, {ZipCode: &zip},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(requests))
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req dto.UpdatePropertyRequest) {
			defer wg.Done()
			_, errs[i] = f.propertySvc.Update(ctx, property.ID, req, nil)
		}(i, req)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	stored, err := f.properties.GetByID(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, title, stored.Title)
	assert.Equal(t, description, stored.Description)
	assert.Equal(t, street, stored.Street)
	assert.Equal(t, city, stored.City)
	assert.Equal(t, state, stored.State)
	assert.Equal(t, country, stored.Country)
	assert.Equal(t, zip, stored.ZipCode)
	assert.Len(t, f.publisher.Snapshot(), len(requests))
}

func TestPropertyService_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, "Host", "host@test.com")
	f.property(t, host.ID, domain.PropertyTypeSports, 40)

	_, err := f.propertySvc.Search(ctx, dto.PropertySearchQuery{Type: "CASTLE"})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	items, err := f.propertySvc.Search(ctx, dto.PropertySearchQuery{Location: "SAL", Type: "SPORTS"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].CoverPhotoID)
}

func TestPropertyService_DeleteCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, "Host", "host@test.com")
	guest := f.user(t, "Guest", "guest@test.com")

	property, err := f.propertySvc.Create(ctx, host.ID, createRequest(), &dto.Image{Data: pngHeader})
	require.NoError(t, err)
	_, err = f.propertySvc.AddPhoto(ctx, property.ID, &dto.Image{Data: pngHeader})
	require.NoError(t, err)
	_, err = f.reservationSvc.Reserve(ctx, property.ID, guest.ID, dto.CreateReservationRequest{StartDate: "2025-05-16", EndDate: "2025-05-18"})
	require.NoError(t, err)
	_, err = f.reviewSvc.CreatePropertyRating(ctx, property.ID, guest.ID, dto.CreateRatingRequest{Rating: 5, Comment: "genial"})
	require.NoError(t, err)

	result, err := f.propertySvc.Delete(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1+2+1+1), result.Total())

	_, err = f.propertySvc.FindByID(ctx, property.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	assert.Equal(t, int64(0), countRows(t, f, &domain.Photo{}))
	assert.Equal(t, int64(0), countRows(t, f, &domain.Reservation{}))
	assert.Equal(t, int64(0), countRows(t, f, &domain.Review{}))

	msgs := f.publisher.Snapshot()
	assert.Equal(t, events.PropertyMessage{Action: events.ActionDelete, PropertyID: property.ID}, msgs[len(msgs)-1])

	_, err = f.propertySvc.Delete(ctx, property.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestPropertyService_Photos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, "Host", "host@test.com")
	property := f.property(t, host.ID, domain.PropertyTypeHousing, 100)

	first, err := f.propertySvc.AddPhoto(ctx, property.ID, &dto.Image{Data: pngHeader})
	require.NoError(t, err)
	assert.True(t, first.IsCover)

	second, err := f.propertySvc.AddPhoto(ctx, property.ID, &dto.Image{Data: pngHeader})
	require.NoError(t, err)
	assert.False(t, second.IsCover)

	require.NoError(t, f.propertySvc.RemovePhoto(ctx, property.ID, first.ID))
	promoted, err := f.propertySvc.GetPhotoData(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsCover)

	err = f.propertySvc.RemovePhoto(ctx, property.ID, first.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = f.propertySvc.ListPhotos(ctx, "missing")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestPropertyService_Commodities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, "Host", "host@test.com")
	property := f.property(t, host.ID, domain.PropertyTypeHousing, 100)
	wifi := &domain.Commodity{Name: "wifi"}
	require.NoError(t, f.db.Create(wifi).Error)

	require.NoError(t, f.propertySvc.AddCommodities(ctx, property.ID, []uint{wifi.ID, wifi.ID}))
	require.NoError(t, f.propertySvc.AddCommodities(ctx, property.ID, []uint{wifi.ID}))
	assert.Equal(t, int64(1), countRows(t, f, &domain.PropertyCommodity{}))

	err := f.propertySvc.AddCommodities(ctx, property.ID, []uint{999})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	require.NoError(t, f.propertySvc.RemoveCommodities(ctx, property.ID, []uint{wifi.ID, 999}))
	assert.Equal(t, int64(0), countRows(t, f, &domain.PropertyCommodity{}))

	err = f.propertySvc.RemoveCommodities(ctx, "missing", []uint{wifi.ID})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func countRows(t *testing.T, f *fixture, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
