package services

import (
	"context"
	"math"
	"strings"
	"time"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/repositories"

	"github.com/sirupsen/logrus"
)

// ReservationService define las operaciones de reservas
type ReservationService interface {
	Reserve(ctx context.Context, propertyID, guestID string, req dto.CreateReservationRequest) (*domain.Reservation, error)
	ListByGuest(ctx context.Context, guestID string) ([]dto.ReservationResponse, error)
	ListByProperty(ctx context.Context, propertyID string) ([]dto.ReservationResponse, error)
	Cancel(ctx context.Context, reservationID, userID string) (*domain.Reservation, error)
}

type reservationService struct {
	reservations repositories.ReservationRepository
	properties   repositories.PropertyRepository
	logger       *logrus.Logger
}

func NewReservationService(
	reservations repositories.ReservationRepository,
	properties repositories.PropertyRepository,
	logger *logrus.Logger,
) ReservationService {
	return &reservationService{
		reservations: reservations,
		properties:   properties,
		logger:       logger,
	}
}

// selectedTime son minutos desde la medianoche (600 = 10:00)
const minutesPerDay = 24 * 60

// Quote es el resultado de cotizar un pedido de reserva
type Quote struct {
	CheckIn      time.Time
	CheckOut     time.Time
	SelectedTime int
	TotalPrice   float64
}

// NewQuote valida el pedido según la categoría de la propiedad y calcula el precio.
//   - SPORTS: startDate y selectedTime (minutos desde medianoche) obligatorios; se cobra el precio unitario
//   - HOUSING y EVENTS: startDate y endDate obligatorios
func NewQuote(propertyType domain.PropertyType, unitPrice float64, req dto.CreateReservationRequest) (Quote, error) {
	if strings.TrimSpace(req.StartDate) == "" {
		return Quote{}, domain.NewValidation("startDate is required")
	}
	checkIn, err := ParseReservationDate(req.StartDate)
	if err != nil {
		return Quote{}, domain.NewValidation("invalid startDate %q", req.StartDate)
	}

	checkOut := checkIn
	if strings.TrimSpace(req.EndDate) != "" {
		if checkOut, err = ParseReservationDate(req.EndDate); err != nil {
			return Quote{}, domain.NewValidation("invalid endDate %q", req.EndDate)
		}
	}

	quote := Quote{CheckIn: checkIn, CheckOut: checkOut}

	switch propertyType {
	case domain.PropertyTypeSports:
		if req.SelectedTime == nil {
			return Quote{}, domain.NewValidation("selectedTime is required for SPORTS properties")
		}
		if *req.SelectedTime < 0 || *req.SelectedTime >= minutesPerDay {
			return Quote{}, domain.NewValidation("selectedTime must be between 0 and %d (minutes since midnight)", minutesPerDay-1)
		}
		quote.CheckOut = checkIn
		quote.SelectedTime = *req.SelectedTime
	case domain.PropertyTypeHousing, domain.PropertyTypeEvents:
		if strings.TrimSpace(req.EndDate) == "" {
			return Quote{}, domain.NewValidation("startDate and endDate are required for %s properties", propertyType)
		}
		if checkOut.Before(checkIn) {
			return Quote{}, domain.NewValidation("endDate must not be before startDate")
		}
	default:
		return Quote{}, domain.NewValidation("invalid property type %q", propertyType)
	}

	quote.TotalPrice = CalculatePrice(propertyType, unitPrice, quote.CheckIn, quote.CheckOut)
	return quote, nil
}

// CalculatePrice es la regla de precios:
//
//	nights  = ceil(|checkOut - checkIn| en días) + 1
//	HOUSING = unit * (nights - 1)   (0 si es un solo día)
//	EVENTS  = unit * nights
//	SPORTS  = unit
func CalculatePrice(propertyType domain.PropertyType, unitPrice float64, checkIn, checkOut time.Time) float64 {
	nights := Nights(checkIn, checkOut)

	var total float64
	switch propertyType {
	case domain.PropertyTypeSports:
		total = unitPrice
	case domain.PropertyTypeEvents:
		total = unitPrice * float64(nights)
	default:
		if nights > 1 {
			total = unitPrice * float64(nights-1)
		}
	}
	return math.Round(total*100) / 100
}

// Nights cuenta los días calendario tocados por el rango, ambos extremos incluidos
func Nights(checkIn, checkOut time.Time) int {
	days := math.Abs(checkOut.Sub(checkIn).Hours()) / 24
	return int(math.Ceil(days)) + 1
}

// ParseReservationDate acepta YYYY-MM-DD o RFC 3339 y se queda con la fecha (UTC)
func ParseReservationDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, err
		}
	}

	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Reserve cotiza y guarda la reserva en estado PENDING. El chequeo de
// disponibilidad corre dentro de la transacción del insert.
func (s *reservationService) Reserve(ctx context.Context, propertyID, guestID string, req dto.CreateReservationRequest) (*domain.Reservation, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, wrap(err, "error loading property")
	}

	quote, err := NewQuote(property.Type, property.PricePerNight, req)
	if err != nil {
		return nil, err
	}

	reservation := &domain.Reservation{
		PropertyID:   property.ID,
		GuestID:      guestID,
		CheckIn:      quote.CheckIn,
		CheckOut:     quote.CheckOut,
		SelectedTime: quote.SelectedTime,
		TotalPrice:   quote.TotalPrice,
		Status:       domain.ReservationStatusPending,
	}

	if err := s.reservations.CreateIfAvailable(ctx, reservation); err != nil {
		return nil, wrap(err, "error creating reservation")
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"property_id":    property.ID,
		"guest_id":       guestID,
		"total_price":    reservation.TotalPrice,
	}).Info("Reservation created")
	return reservation, nil
}

// ListByGuest son "mis reservas", incluidas las canceladas
func (s *reservationService) ListByGuest(ctx context.Context, guestID string) ([]dto.ReservationResponse, error) {
	rows, err := s.reservations.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, wrap(err, "error listing reservations")
	}
	return toReservationResponses(rows), nil
}

// ListByProperty es la agenda del anfitrión (sin canceladas)
func (s *reservationService) ListByProperty(ctx context.Context, propertyID string) ([]dto.ReservationResponse, error) {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return nil, wrap(err, "error loading property")
	}

	rows, err := s.reservations.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, wrap(err, "error listing reservations")
	}
	return toReservationResponses(rows), nil
}

// Cancel la puede hacer el huésped o el anfitrión de la propiedad.
// Cancelar una reserva ya cancelada no hace nada.
func (s *reservationService) Cancel(ctx context.Context, reservationID, userID string) (*domain.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, wrap(err, "error loading reservation")
	}

	if reservation.GuestID != userID {
		property, err := s.properties.GetByID(ctx, reservation.PropertyID)
		if err != nil {
			return nil, wrap(err, "error loading property")
		}
		if property.HostID != userID {
			return nil, domain.NewForbidden("only the guest or the host can cancel this reservation")
		}
	}

	if reservation.Status == domain.ReservationStatusCanceled {
		return reservation, nil
	}

	if err := s.reservations.UpdateStatus(ctx, reservation.ID, domain.ReservationStatusCanceled); err != nil {
		return nil, wrap(err, "error canceling reservation")
	}
	reservation.Status = domain.ReservationStatusCanceled

	s.logger.WithFields(logrus.Fields{"reservation_id": reservation.ID, "user_id": userID}).Info("Reservation canceled")
	return reservation, nil
}

func toReservationResponses(rows []repositories.ReservationRow) []dto.ReservationResponse {
	out := make([]dto.ReservationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ReservationResponse{
			ID:            row.ID,
			PropertyID:    row.PropertyID,
			PropertyTitle: row.PropertyTitle,
			PropertyType:  row.PropertyType,
			GuestID:       row.GuestID,
			GuestName:     row.GuestName,
			CheckIn:       row.CheckIn,
			CheckOut:      row.CheckOut,
			SelectedTime:  row.SelectedTime,
			TotalPrice:    row.TotalPrice,
			Status:        row.Status,
		})
	}
	return out
}
