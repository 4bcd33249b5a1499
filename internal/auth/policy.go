package auth

import (
	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/models"
)

// Requirement describes what an operation asks of its caller.
type Requirement struct {
	// Role, when set, must be held by the caller.
	Role models.Role
	// OwnerID, when set, must equal the caller's id unless the caller is ADMIN.
	OwnerID *uint
}

var (
	Authenticated = Requirement{}
	AdminOnly     = Requirement{Role: models.RoleAdmin}
)

func OwnerOrAdmin(ownerID uint) Requirement {
	return Requirement{OwnerID: &ownerID}
}

// Authorize is the single capability check for every protected operation.
// No identity yields an authentication error; a role or ownership mismatch
// yields an authorization error.
func Authorize(id *Identity, req Requirement) error {
	if id == nil || id.ID == 0 {
		return apperror.Authentication("Missing token")
	}
	if id.IsAdmin() {
		return nil
	}
	if req.Role != "" && id.Role != req.Role {
		return apperror.Authorization("Admin only")
	}
	if req.OwnerID != nil && *req.OwnerID != id.ID {
		return apperror.Authorization("Not allowed")
	}
	return nil
}
