package repository

import (
	"context"
	"time"

	"github.com/sefazor/cityevents-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert inserts the rating or, when (event_id, user_id) already exists,
// overwrites stars and comment in the same statement. The unique index on the
// pair makes concurrent submissions converge on one row.
func (r *RatingRepository) Upsert(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	now := time.Now()
	row := &models.Rating{
		Stars:     rating.Stars,
		Comment:   rating.Comment,
		EventID:   rating.EventID,
		UserID:    rating.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"stars", "comment", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return nil, translate(err)
	}

	var stored models.Rating
	err = r.db.WithContext(ctx).
		Preload("User", selectSummary).
		Where("event_id = ? AND user_id = ?", rating.EventID, rating.UserID).
		First(&stored).Error
	if err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

// CountForPair is the number of rows stored for (eventID, userID); 0 or 1.
func (r *RatingRepository) CountForPair(ctx context.Context, eventID, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count, translate(err)
}

func (r *RatingRepository) CountForEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, translate(err)
}
