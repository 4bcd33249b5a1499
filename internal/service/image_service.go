package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/auth"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/pkg/storage"
	"github.com/sefazor/cityevents-backend/pkg/utils"
	"go.uber.org/zap"
)

// MaxImageSize is the largest accepted event image.
const MaxImageSize = 5 << 20

type ImageService struct {
	eventRepo EventStore
	storage   storage.ObjectStorage
	validator *utils.Validator
	logger    *zap.Logger
}

func NewImageService(eventRepo EventStore, objectStorage storage.ObjectStorage, validator *utils.Validator, logger *zap.Logger) *ImageService {
	return &ImageService{
		eventRepo: eventRepo,
		storage:   objectStorage,
		validator: validator,
		logger:    logger.Named("image"),
	}
}

// Upload stores body as the event's image and points imageUrl at it. The
// content type is sniffed from the bytes, not taken from the client.
func (s *ImageService) Upload(ctx context.Context, caller *auth.Identity, eventID uint, body io.Reader, size int64) (*models.EventResponse, error) {
	if err := auth.Authorize(caller, auth.Authenticated); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err, "load event")
	}
	if err := auth.Authorize(caller, auth.OwnerOrAdmin(event.CreatedByID)); err != nil {
		return nil, err
	}

	if size <= 0 {
		return nil, apperror.Validation("image is required")
	}
	if size > MaxImageSize {
		return nil, apperror.Validation("Image must be at most 5 MiB")
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxImageSize+1))
	if err != nil {
		return nil, internalError("read image", err)
	}
	if len(data) > MaxImageSize {
		return nil, apperror.Validation("Image must be at most 5 MiB")
	}

	contentType := mimetype.Detect(data).String()
	if err := s.validator.Var(contentType, "supported_image"); err != nil {
		return nil, apperror.Validation(utils.Message(err))
	}
	ext := utils.SupportedImageTypes[contentType]

	key := fmt.Sprintf("events/%d/%s%s", eventID, uuid.NewString(), ext)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, internalError("upload image", err)
	}

	url := s.storage.PublicURL(key)
	if err := s.eventRepo.Update(ctx, eventID, models.EventChanges{ImageURL: models.Some(url)}); err != nil {
		s.removeObject(ctx, key)
		return nil, notFoundOr(err, "update image url")
	}

	if event.ImageURL != nil {
		if oldKey, ok := s.storage.KeyFromURL(*event.ImageURL); ok {
			s.removeObject(ctx, oldKey)
		}
	}

	detail, err := s.eventRepo.GetDetail(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err, "load event")
	}
	resp := detail.Detail()
	return &resp, nil
}

func (s *ImageService) removeObject(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete image object", zap.String("key", key), zap.Error(err))
	}
}
