// Package testutil provides in-memory stores that follow the repository
// contracts, for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/internal/repository"
)

// Store holds every table behind one mutex.
type Store struct {
	mu         sync.Mutex
	users      map[uint]models.User
	categories map[uint]models.Category
	events     map[uint]models.Event
	ratings    map[uint]models.Rating
	nextID     uint
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      map[uint]models.User{},
		categories: map[uint]models.Category{},
		events:     map[uint]models.Event{},
		ratings:    map[uint]models.Rating{},
		now:        time.Now,
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

func (s *Store) Users() *UserStore          { return &UserStore{s} }
func (s *Store) Categories() *CategoryStore { return &CategoryStore{s} }
func (s *Store) Events() *EventStore        { return &EventStore{s} }
func (s *Store) Ratings() *RatingStore      { return &RatingStore{s} }

// RatingCount is the number of stored ratings for the pair.
func (s *Store) RatingCount(eventID, userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.ratings {
		if r.EventID == eventID && r.UserID == userID {
			n++
		}
	}
	return n
}

// RatingsForEvent counts every rating row still pointing at eventID.
func (s *Store) RatingsForEvent(eventID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.ratings {
		if r.EventID == eventID {
			n++
		}
	}
	return n
}

// Event returns the raw row, for assertions.
func (s *Store) Event(id uint) (models.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	return e, ok
}

type UserStore struct{ s *Store }

func (r *UserStore) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = r.s.id()
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserStore) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

type CategoryStore struct{ s *Store }

func (r *CategoryStore) Create(_ context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	category.ID = r.s.id()
	category.CreatedAt = r.s.now()
	category.UpdatedAt = category.CreatedAt
	r.s.categories[category.ID] = *category
	return nil
}

func (r *CategoryStore) List(_ context.Context) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CategoryStore) Exists(_ context.Context, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.categories[id]
	return ok, nil
}

type EventStore struct{ s *Store }

func (r *EventStore) Create(_ context.Context, event *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if event.CategoryID != nil {
		if _, ok := r.s.categories[*event.CategoryID]; !ok {
			return repository.ErrForeignKey
		}
	}
	event.ID = r.s.id()
	event.CreatedAt = r.s.now()
	event.UpdatedAt = event.CreatedAt
	row := *event
	row.Category, row.CreatedBy, row.Ratings = nil, nil, nil
	r.s.events[event.ID] = row
	return nil
}

func (r *EventStore) GetByID(_ context.Context, id uint) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *EventStore) GetDetail(_ context.Context, id uint) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.s.hydrate(&e, true)
	return &e, nil
}

func (r *EventStore) List(_ context.Context, filter models.EventFilter) ([]models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := []models.Event{}
	for _, e := range r.s.events {
		if search != "" && !matches(e, search) {
			continue
		}
		if filter.CategoryID != nil && (e.CategoryID == nil || *e.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.DateFrom != nil && e.StartAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && e.StartAt.After(*filter.DateTo) {
			continue
		}
		if !filter.IncludeUnpublished && !e.Published {
			continue
		}
		if !filter.IncludeBlocked && e.Blocked {
			continue
		}
		r.s.hydrate(&e, false)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].StartAt.Before(out[j].StartAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *EventStore) Update(_ context.Context, id uint, changes models.EventChanges) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	if changes.CategoryID.Valid {
		if _, ok := r.s.categories[changes.CategoryID.Value]; !ok {
			return repository.ErrForeignKey
		}
	}
	changes.Apply(&e)
	e.UpdatedAt = r.s.now()
	r.s.events[id] = e
	return nil
}

func (r *EventStore) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return repository.ErrNotFound
	}
	for rid, rating := range r.s.ratings {
		if rating.EventID == id {
			delete(r.s.ratings, rid)
		}
	}
	delete(r.s.events, id)
	return nil
}

type RatingStore struct{ s *Store }

// Upsert keeps one row per (event, user), like the unique index in postgres.
func (r *RatingStore) Upsert(_ context.Context, rating *models.Rating) (*models.Rating, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[rating.EventID]; !ok {
		return nil, repository.ErrForeignKey
	}
	if _, ok := r.s.users[rating.UserID]; !ok {
		return nil, repository.ErrForeignKey
	}

	now := r.s.now()
	var stored models.Rating
	found := false
	for id, existing := range r.s.ratings {
		if existing.EventID == rating.EventID && existing.UserID == rating.UserID {
			existing.Stars = rating.Stars
			existing.Comment = rating.Comment
			existing.UpdatedAt = now
			r.s.ratings[id] = existing
			stored, found = existing, true
			break
		}
	}
	if !found {
		stored = models.Rating{
			ID:        r.s.id(),
			Stars:     rating.Stars,
			Comment:   rating.Comment,
			EventID:   rating.EventID,
			UserID:    rating.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.s.ratings[stored.ID] = stored
	}

	if u, ok := r.s.users[stored.UserID]; ok {
		stored.User = &models.User{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return &stored, nil
}

// hydrate fills associations the way the gorm preloads do. Caller holds mu.
func (s *Store) hydrate(e *models.Event, detail bool) {
	if e.CategoryID != nil {
		if c, ok := s.categories[*e.CategoryID]; ok {
			e.Category = &c
		}
	}
	if u, ok := s.users[e.CreatedByID]; ok {
		e.CreatedBy = &models.User{ID: u.ID, Name: u.Name, Email: u.Email}
	}

	ratings := []models.Rating{}
	for _, r := range s.ratings {
		if r.EventID != e.ID {
			continue
		}
		if detail {
			if u, ok := s.users[r.UserID]; ok {
				r.User = &models.User{ID: u.ID, Name: u.Name, Email: u.Email}
			}
		}
		ratings = append(ratings, r)
	}
	sort.Slice(ratings, func(i, j int) bool {
		if detail {
			if !ratings[i].CreatedAt.Equal(ratings[j].CreatedAt) {
				return ratings[i].CreatedAt.After(ratings[j].CreatedAt)
			}
			return ratings[i].ID > ratings[j].ID
		}
		return ratings[i].ID < ratings[j].ID
	})
	e.Ratings = ratings
}

func matches(e models.Event, search string) bool {
	fields := []string{e.Title}
	if e.Description != nil {
		fields = append(fields, *e.Description)
	}
	if e.Location != nil {
		fields = append(fields, *e.Location)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
