package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sefazor/cityevents-backend/internal/models"
	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func selectSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

// Create inserts event; an unknown CategoryID fails with ErrForeignKey.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	err := r.db.WithContext(ctx).Omit("Category", "CreatedBy", "Ratings").Create(event).Error
	return translate(err)
}

// GetByID loads the bare row.
func (r *EventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

// GetDetail loads the event with its category, creator and ratings (newest first, with authors).
func (r *EventRepository) GetDetail(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("CreatedBy", selectSummary).
		Preload("Ratings", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Order("id DESC")
		}).
		Preload("Ratings.User", selectSummary).
		First(&event, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

// List returns events matching filter ordered by start time, each with its
// category, creator and rating stars.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where(
			"(title ILIKE @q OR description ILIKE @q OR location ILIKE @q)",
			sql.Named("q", "%"+escapeLike(search)+"%"),
		)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.DateFrom != nil {
		query = query.Where("start_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("start_at <= ?", *filter.DateTo)
	}
	if !filter.IncludeUnpublished {
		query = query.Where("published = ?", true)
	}
	if !filter.IncludeBlocked {
		query = query.Where("blocked = ?", false)
	}

	events := []models.Event{}
	err := query.
		Preload("Category").
		Preload("CreatedBy", selectSummary).
		Preload("Ratings", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "event_id", "stars").Order("id ASC")
		}).
		Order("start_at ASC").
		Order("id ASC").
		Find(&events).Error
	return events, translate(err)
}

// Update writes only the columns present in changes.
func (r *EventRepository) Update(ctx context.Context, id uint, changes models.EventChanges) error {
	cols := changes.Columns()
	if len(cols) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the event and its ratings in one transaction.
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return translate(err)
		}
		result := tx.Delete(&models.Event{}, id)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// escapeLike neutralises LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
