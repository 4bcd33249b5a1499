package models

import (
	"time"
)

const (
	MinStars = 1
	MaxStars = 5
)

// Rating is unique per (EventID, UserID); repeated submissions overwrite it.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Stars     int       `json:"stars" gorm:"not null;check:stars >= 1 AND stars <= 5"`
	Comment   *string   `json:"comment"`
	EventID   uint      `json:"eventId" gorm:"not null;uniqueIndex:idx_ratings_event_user"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_ratings_event_user;index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RateRequest struct {
	Stars   *int    `json:"stars" validate:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

type RatingResponse struct {
	ID        uint         `json:"id"`
	Stars     int          `json:"stars"`
	Comment   *string      `json:"comment"`
	EventID   uint         `json:"eventId"`
	UserID    uint         `json:"userId"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	User      *UserSummary `json:"user,omitempty"`
}

// RatingStars is the trimmed rating shape used in event listings.
type RatingStars struct {
	ID    uint `json:"id"`
	Stars int  `json:"stars"`
}

func (r *Rating) Response() RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		Stars:     r.Stars,
		Comment:   r.Comment,
		EventID:   r.EventID,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		User:      r.User.Summary(),
	}
}

// AggregateRatings returns the mean of the stars and the number of ratings.
// The mean is nil when there are no ratings.
func AggregateRatings(ratings []Rating) (*float64, int) {
	if len(ratings) == 0 {
		return nil, 0
	}
	total := 0
	for _, r := range ratings {
		total += r.Stars
	}
	avg := float64(total) / float64(len(ratings))
	return &avg, len(ratings)
}
