package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/cityevents-backend/internal/models"
)

const identityKey = "identity"

// Identity is the caller decoded from a verified token.
type Identity struct {
	ID    uint
	Email string
	Role  models.Role
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

// SetIdentity attaches id to the request.
func SetIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals(identityKey, id)
}

// IdentityFrom returns the caller attached by the auth middleware, or nil.
func IdentityFrom(c *fiber.Ctx) *Identity {
	id, _ := c.Locals(identityKey).(*Identity)
	return id
}
