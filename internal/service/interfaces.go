package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/internal/repository"
)

// The repository package satisfies these with its gorm-backed types.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	List(ctx context.Context) ([]models.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	GetDetail(ctx context.Context, id uint) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	Update(ctx context.Context, id uint, changes models.EventChanges) error
	Delete(ctx context.Context, id uint) error
}

type RatingStore interface {
	Upsert(ctx context.Context, rating *models.Rating) (*models.Rating, error)
}

func internalError(op string, err error) error {
	return apperror.Internal("Internal server error", fmt.Errorf("%s: %w", op, err))
}

// notFoundOr maps a missing event to NotFound and anything else to Internal.
func notFoundOr(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(msgEventNotFound)
	}
	return internalError(op, err)
}
