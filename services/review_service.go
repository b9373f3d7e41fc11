package services

import (
	"context"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/repositories"

	"github.com/sirupsen/logrus"
)

type ReviewService interface {
	CreatePropertyRating(ctx context.Context, propertyID, authorID string, req dto.CreateRatingRequest) (*domain.Review, error)
	ListByProperty(ctx context.Context, propertyID string) ([]dto.ReviewResponse, error)
}

type reviewService struct {
	reviews      repositories.ReviewRepository
	reservations repositories.ReservationRepository
	properties   repositories.PropertyRepository
	logger       *logrus.Logger
}

func NewReviewService(
	reviews repositories.ReviewRepository,
	reservations repositories.ReservationRepository,
	properties repositories.PropertyRepository,
	logger *logrus.Logger,
) ReviewService {
	return &reviewService{
		reviews:      reviews,
		reservations: reservations,
		properties:   properties,
		logger:       logger,
	}
}

// CreatePropertyRating registra la evaluación del huésped. Sin reserva no hay review:
// si viene reservationId tiene que ser una reserva del autor en esta propiedad,
// si no, se usa la más vieja.
func (s *reviewService) CreatePropertyRating(ctx context.Context, propertyID, authorID string, req dto.CreateRatingRequest) (*domain.Review, error) {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return nil, wrap(err, "error loading property")
	}

	if req.Rating < 1 || req.Rating > 5 {
		return nil, domain.NewValidation("rating must be between 1 and 5")
	}

	reservations, err := s.reservations.FindByGuestAndProperty(ctx, authorID, propertyID)
	if err != nil {
		return nil, wrap(err, "error loading reservations")
	}
	if len(reservations) == 0 {
		return nil, domain.NewNotFound("no reservation found for this user and property")
	}

	reservationID := reservations[0].ID
	if req.ReservationID != "" {
		reservationID = ""
		for _, r := range reservations {
			if r.ID == req.ReservationID {
				reservationID = r.ID
				break
			}
		}
		if reservationID == "" {
			return nil, domain.NewNotFound("reservation %s not found for this user and property", req.ReservationID)
		}
	}

	review := &domain.Review{
		ReservationID: reservationID,
		AuthorID:      authorID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		Type:          domain.ReviewGuestToHost,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, wrap(err, "error creating review")
	}

	s.logger.WithFields(logrus.Fields{
		"review_id":      review.ID,
		"property_id":    propertyID,
		"reservation_id": reservationID,
	}).Info("Review created")
	return review, nil
}

func (s *reviewService) ListByProperty(ctx context.Context, propertyID string) ([]dto.ReviewResponse, error) {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return nil, wrap(err, "error loading property")
	}

	rows, err := s.reviews.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, wrap(err, "error listing reviews")
	}

	out := make([]dto.ReviewResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ReviewResponse{
			ID:            row.ID,
			ReservationID: row.ReservationID,
			AuthorName:    row.AuthorName,
			Rating:        row.Rating,
			Comment:       row.Comment,
			Type:          row.Type,
			CreatedAt:     row.CreatedAt,
			CheckIn:       row.CheckIn,
			CheckOut:      row.CheckOut,
		})
	}
	return out, nil
}
