package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/auth"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/internal/repository"
	"github.com/sefazor/cityevents-backend/pkg/sanitize"
	"github.com/sefazor/cityevents-backend/pkg/utils"
)

const (
	msgEventNotFound    = "Event not found"
	msgCategoryNotFound = "Category not found"
)

type EventService struct {
	eventRepo    EventStore
	categoryRepo CategoryStore
	validator    *utils.Validator
	// flagsRequireAdmin drops includeUnpublished/includeBlocked for non-ADMIN callers.
	flagsRequireAdmin bool
}

func NewEventService(eventRepo EventStore, categoryRepo CategoryStore, validator *utils.Validator, flagsRequireAdmin bool) *EventService {
	return &EventService{
		eventRepo:         eventRepo,
		categoryRepo:      categoryRepo,
		validator:         validator,
		flagsRequireAdmin: flagsRequireAdmin,
	}
}

// List returns matching events ordered by start time. caller may be nil.
func (s *EventService) List(ctx context.Context, caller *auth.Identity, filter models.EventFilter) ([]models.EventResponse, error) {
	if s.flagsRequireAdmin && !caller.IsAdmin() {
		filter.IncludeUnpublished = false
		filter.IncludeBlocked = false
	}

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, internalError("list events", err)
	}

	items := make([]models.EventResponse, 0, len(events))
	for i := range events {
		items = append(items, events[i].ListItem())
	}
	return items, nil
}

func (s *EventService) Get(ctx context.Context, id uint) (*models.EventResponse, error) {
	event, err := s.eventRepo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgEventNotFound)
		}
		return nil, internalError("load event", err)
	}
	resp := event.Detail()
	return &resp, nil
}

// Create stores a new event owned by caller. Blocked always starts false.
func (s *EventService) Create(ctx context.Context, caller *auth.Identity, req models.CreateEventRequest) (*models.EventResponse, error) {
	if err := auth.Authorize(caller, auth.Authenticated); err != nil {
		return nil, err
	}

	req.ImageURL = trimmedOrNil(req.ImageURL)
	if err := s.validator.Struct(req); err != nil {
		return nil, apperror.Validation(utils.Message(err))
	}

	title := sanitize.Text(req.Title)
	if title == "" {
		return nil, apperror.Validation("title is required")
	}

	startAt, err := parseEventTime("startAt", req.StartAt)
	if err != nil {
		return nil, err
	}

	var endAt *time.Time
	if raw := trimmedOrNil(req.EndAt); raw != nil {
		t, err := parseEventTime("endAt", *raw)
		if err != nil {
			return nil, err
		}
		endAt = &t
	}
	if endAt != nil && endAt.Before(startAt) {
		return nil, apperror.Validation("endAt must not be before startAt")
	}

	if req.CategoryID != nil {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	event := &models.Event{
		Title:       title,
		Description: sanitize.OptionalHTML(req.Description),
		Location:    sanitize.OptionalText(req.Location),
		ImageURL:    req.ImageURL,
		StartAt:     startAt,
		EndAt:       endAt,
		Published:   published,
		Blocked:     false,
		CategoryID:  req.CategoryID,
		CreatedByID: caller.ID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, apperror.Validation(msgCategoryNotFound)
		}
		return nil, internalError("create event", err)
	}

	return s.Get(ctx, event.ID)
}

// Update applies a partial update. A missing event is reported before ownership is checked.
func (s *EventService) Update(ctx context.Context, caller *auth.Identity, id uint, req models.UpdateEventRequest) (*models.EventResponse, error) {
	if err := auth.Authorize(caller, auth.Authenticated); err != nil {
		return nil, err
	}

	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(caller, auth.OwnerOrAdmin(event.CreatedByID)); err != nil {
		return nil, err
	}

	changes, err := s.changesFrom(ctx, caller, req)
	if err != nil {
		return nil, err
	}

	updated := *event
	changes.Apply(&updated)
	if updated.EndAt != nil && updated.EndAt.Before(updated.StartAt) {
		return nil, apperror.Validation("endAt must not be before startAt")
	}

	if !changes.Empty() {
		if err := s.eventRepo.Update(ctx, id, changes); err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return nil, apperror.NotFound(msgEventNotFound)
			case errors.Is(err, repository.ErrForeignKey):
				return nil, apperror.Validation(msgCategoryNotFound)
			}
			return nil, internalError("update event", err)
		}
	}

	return s.Get(ctx, id)
}

// Delete removes the event and its ratings.
func (s *EventService) Delete(ctx context.Context, caller *auth.Identity, id uint) error {
	if err := auth.Authorize(caller, auth.Authenticated); err != nil {
		return err
	}

	event, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(caller, auth.OwnerOrAdmin(event.CreatedByID)); err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(msgEventNotFound)
		}
		return internalError("delete event", err)
	}
	return nil
}

func (s *EventService) load(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgEventNotFound)
		}
		return nil, internalError("load event", err)
	}
	return event, nil
}

func (s *EventService) ensureCategory(ctx context.Context, id uint) error {
	exists, err := s.categoryRepo.Exists(ctx, id)
	if err != nil {
		return internalError("check category", err)
	}
	if !exists {
		return apperror.Validation(msgCategoryNotFound)
	}
	return nil
}

func (s *EventService) changesFrom(ctx context.Context, caller *auth.Identity, req models.UpdateEventRequest) (models.EventChanges, error) {
	var changes models.EventChanges

	if req.Title.Set {
		title := ""
		if req.Title.Valid {
			title = sanitize.Text(req.Title.Value)
		}
		if title == "" {
			return changes, apperror.Validation("title cannot be empty")
		}
		changes.Title = &title
	}

	changes.Description = optionalString(req.Description, sanitize.HTML)
	changes.Location = optionalString(req.Location, sanitize.Text)
	changes.ImageURL = optionalString(req.ImageURL, strings.TrimSpace)
	if changes.ImageURL.Valid {
		if err := s.validator.Var(changes.ImageURL.Value, "url"); err != nil {
			return changes, apperror.Validation("imageUrl must be a valid URL")
		}
	}

	if req.StartAt.Set {
		if !req.StartAt.Valid {
			return changes, apperror.Validation("startAt cannot be empty")
		}
		t, err := parseEventTime("startAt", req.StartAt.Value)
		if err != nil {
			return changes, err
		}
		changes.StartAt = &t
	}

	if raw := optionalString(req.EndAt, strings.TrimSpace); raw.Set {
		if raw.Valid {
			t, err := parseEventTime("endAt", raw.Value)
			if err != nil {
				return changes, err
			}
			changes.EndAt = models.Some(t)
		} else {
			changes.EndAt = models.Null[time.Time]()
		}
	}

	if req.CategoryID.Set {
		if req.CategoryID.Valid {
			if err := s.ensureCategory(ctx, req.CategoryID.Value); err != nil {
				return changes, err
			}
		}
		changes.CategoryID = req.CategoryID
	}

	if req.Published.Set {
		if !req.Published.Valid {
			return changes, apperror.Validation("published must be a boolean")
		}
		changes.Published = &req.Published.Value
	}

	if req.Blocked.Set {
		if !req.Blocked.Valid {
			return changes, apperror.Validation("blocked must be a boolean")
		}
		if err := auth.Authorize(caller, auth.AdminOnly); err != nil {
			return changes, err
		}
		changes.Blocked = &req.Blocked.Value
	}

	return changes, nil
}

// optionalString cleans a nullable text field; values that clean to "" become null.
func optionalString(o models.Optional[string], clean func(string) string) models.Optional[string] {
	if !o.Set {
		return o
	}
	if !o.Valid {
		return models.Null[string]()
	}
	if v := clean(o.Value); v != "" {
		return models.Some(v)
	}
	return models.Null[string]()
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func parseEventTime(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, apperror.Validation(field + " is required")
	}
	t, _, err := utils.ParseTime(value)
	if err != nil {
		return time.Time{}, apperror.Validation(field + " must be a valid date")
	}
	return t, nil
}
