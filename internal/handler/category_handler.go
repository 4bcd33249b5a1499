package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/cityevents-backend/internal/auth"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/internal/service"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categoryService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req models.CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	category, err := h.categoryService.Create(c.UserContext(), auth.IdentityFrom(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
