package service

import (
	"context"
	"errors"

	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/auth"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/internal/repository"
	"github.com/sefazor/cityevents-backend/pkg/sanitize"
)

type RatingService struct {
	ratingRepo RatingStore
	eventRepo  EventStore
}

func NewRatingService(ratingRepo RatingStore, eventRepo EventStore) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		eventRepo:  eventRepo,
	}
}

// Rate creates the caller's rating for the event or overwrites the existing one.
// Only published, unblocked events accept ratings.
func (s *RatingService) Rate(ctx context.Context, caller *auth.Identity, eventID uint, req models.RateRequest) (*models.RatingResponse, error) {
	if err := auth.Authorize(caller, auth.Authenticated); err != nil {
		return nil, err
	}
	if req.Stars == nil || *req.Stars < models.MinStars || *req.Stars > models.MaxStars {
		return nil, apperror.Validation("Stars must be 1-5")
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgEventNotFound)
		}
		return nil, internalError("load event", err)
	}
	if !event.Visible() {
		return nil, apperror.BusinessRule("Event not available for rating")
	}

	rating, err := s.ratingRepo.Upsert(ctx, &models.Rating{
		Stars:   *req.Stars,
		Comment: sanitize.OptionalHTML(req.Comment),
		EventID: eventID,
		UserID:  caller.ID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, apperror.NotFound(msgEventNotFound)
		}
		return nil, internalError("upsert rating", err)
	}

	resp := rating.Response()
	return &resp, nil
}
