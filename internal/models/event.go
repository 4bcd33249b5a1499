package models

import (
	"time"
)

type Event struct {
	ID          uint    `gorm:"primaryKey"`
	Title       string  `gorm:"not null"`
	Description *string `gorm:"type:text"`
	Location    *string
	ImageURL    *string
	StartAt     time.Time `gorm:"not null;index"`
	EndAt       *time.Time
	Published   bool      `gorm:"not null"`
	Blocked     bool      `gorm:"not null"`
	CategoryID  *uint     `gorm:"index"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	CreatedByID uint      `gorm:"not null;index"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	Ratings     []Rating  `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Visible is true for events the public listing shows and that accept ratings.
func (e *Event) Visible() bool {
	return e.Published && !e.Blocked
}

// EventFilter narrows event listings. Zero value lists public events only.
type EventFilter struct {
	Search             string
	CategoryID         *uint
	DateFrom           *time.Time
	DateTo             *time.Time
	IncludeUnpublished bool
	IncludeBlocked     bool
}

type CreateEventRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	StartAt     string  `json:"startAt" validate:"required"`
	EndAt       *string `json:"endAt"`
	CategoryID  *uint   `json:"categoryId" validate:"omitempty,min=1"`
	Published   *bool   `json:"published"`
}

// UpdateEventRequest is a partial update: absent keys leave columns untouched,
// explicit null clears nullable columns.
type UpdateEventRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Location    Optional[string] `json:"location"`
	ImageURL    Optional[string] `json:"imageUrl"`
	StartAt     Optional[string] `json:"startAt"`
	EndAt       Optional[string] `json:"endAt"`
	CategoryID  Optional[uint]   `json:"categoryId"`
	Published   Optional[bool]   `json:"published"`
	Blocked     Optional[bool]   `json:"blocked"`
}

// EventChanges is a validated UpdateEventRequest ready for the store.
type EventChanges struct {
	Title       *string
	Description Optional[string]
	Location    Optional[string]
	ImageURL    Optional[string]
	StartAt     *time.Time
	EndAt       Optional[time.Time]
	CategoryID  Optional[uint]
	Published   *bool
	Blocked     *bool
}

func (c EventChanges) Empty() bool {
	return c.Title == nil && !c.Description.Set && !c.Location.Set && !c.ImageURL.Set &&
		c.StartAt == nil && !c.EndAt.Set && !c.CategoryID.Set && c.Published == nil && c.Blocked == nil
}

// Columns maps the changes to column assignments; nil values write NULL.
func (c EventChanges) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if c.Title != nil {
		cols["title"] = *c.Title
	}
	setOptional(cols, "description", c.Description)
	setOptional(cols, "location", c.Location)
	setOptional(cols, "image_url", c.ImageURL)
	if c.StartAt != nil {
		cols["start_at"] = *c.StartAt
	}
	setOptional(cols, "end_at", c.EndAt)
	setOptional(cols, "category_id", c.CategoryID)
	if c.Published != nil {
		cols["published"] = *c.Published
	}
	if c.Blocked != nil {
		cols["blocked"] = *c.Blocked
	}
	return cols
}

// Apply copies the changes onto e.
func (c EventChanges) Apply(e *Event) {
	if c.Title != nil {
		e.Title = *c.Title
	}
	applyOptional(&e.Description, c.Description)
	applyOptional(&e.Location, c.Location)
	applyOptional(&e.ImageURL, c.ImageURL)
	if c.StartAt != nil {
		e.StartAt = *c.StartAt
	}
	applyOptional(&e.EndAt, c.EndAt)
	if c.CategoryID.Set {
		applyOptional(&e.CategoryID, c.CategoryID)
		e.Category = nil
	}
	if c.Published != nil {
		e.Published = *c.Published
	}
	if c.Blocked != nil {
		e.Blocked = *c.Blocked
	}
}

func setOptional[T any](cols map[string]interface{}, column string, o Optional[T]) {
	if !o.Set {
		return
	}
	if o.Valid {
		cols[column] = o.Value
	} else {
		cols[column] = nil
	}
}

func applyOptional[T any](dst **T, o Optional[T]) {
	if !o.Set {
		return
	}
	if o.Valid {
		v := o.Value
		*dst = &v
	} else {
		*dst = nil
	}
}

type EventResponse struct {
	ID            uint         `json:"id"`
	Title         string       `json:"title"`
	Description   *string      `json:"description"`
	Location      *string      `json:"location"`
	ImageURL      *string      `json:"imageUrl"`
	StartAt       time.Time    `json:"startAt"`
	EndAt         *time.Time   `json:"endAt"`
	Published     bool         `json:"published"`
	Blocked       bool         `json:"blocked"`
	CategoryID    *uint        `json:"categoryId"`
	CreatedByID   uint         `json:"createdById"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	Category      *Category    `json:"category"`
	CreatedBy     *UserSummary `json:"createdBy,omitempty"`
	Ratings       interface{}  `json:"ratings"`
	AverageRating *float64     `json:"averageRating"`
	RatingsCount  int          `json:"ratingsCount"`
}

func newEventResponse(e *Event) EventResponse {
	avg, count := AggregateRatings(e.Ratings)
	return EventResponse{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Location:      e.Location,
		ImageURL:      e.ImageURL,
		StartAt:       e.StartAt,
		EndAt:         e.EndAt,
		Published:     e.Published,
		Blocked:       e.Blocked,
		CategoryID:    e.CategoryID,
		CreatedByID:   e.CreatedByID,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		Category:      e.Category,
		CreatedBy:     e.CreatedBy.Summary(),
		AverageRating: avg,
		RatingsCount:  count,
	}
}

// ListItem renders e for listings: ratings carry only id and stars.
func (e *Event) ListItem() EventResponse {
	resp := newEventResponse(e)
	ratings := make([]RatingStars, 0, len(e.Ratings))
	for _, r := range e.Ratings {
		ratings = append(ratings, RatingStars{ID: r.ID, Stars: r.Stars})
	}
	resp.Ratings = ratings
	return resp
}

// Detail renders e with full ratings, newest first as loaded.
func (e *Event) Detail() EventResponse {
	resp := newEventResponse(e)
	ratings := make([]RatingResponse, 0, len(e.Ratings))
	for i := range e.Ratings {
		ratings = append(ratings, e.Ratings[i].Response())
	}
	resp.Ratings = ratings
	return resp
}
