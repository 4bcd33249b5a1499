package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/auth"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/internal/service"
)

type EventHandler struct {
	eventService *service.EventService
	imageService *service.ImageService
}

// NewEventHandler wires the handler. imageService may be nil when storage is not configured.
func NewEventHandler(eventService *service.EventService, imageService *service.ImageService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		imageService: imageService,
	}
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	filter, err := parseEventFilter(c)
	if err != nil {
		return err
	}

	events, err := h.eventService.List(c.UserContext(), auth.IdentityFrom(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(events)
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	event, err := h.eventService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(event)
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req models.CreateEventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	event, err := h.eventService.Create(c.UserContext(), auth.IdentityFrom(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req models.UpdateEventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	event, err := h.eventService.Update(c.UserContext(), auth.IdentityFrom(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(event)
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.eventService.Delete(c.UserContext(), auth.IdentityFrom(c), id); err != nil {
		return err
	}
	return c.JSON(models.SuccessMessage("Deleted"))
}

// UploadImage expects a multipart form with the file in field "image".
func (h *EventHandler) UploadImage(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return apperror.Validation("image is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperror.Internal("Internal server error", err)
	}
	defer file.Close()

	event, err := h.imageService.Upload(c.UserContext(), auth.IdentityFrom(c), id, file, fileHeader.Size)
	if err != nil {
		return err
	}
	return c.JSON(event)
}
