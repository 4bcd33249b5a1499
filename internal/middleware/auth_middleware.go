package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/auth"
	"github.com/sefazor/cityevents-backend/internal/models"
	jwtPkg "github.com/sefazor/cityevents-backend/pkg/jwt"
)

// AuthMiddleware rejects requests without a valid bearer token and attaches
// the decoded identity for the handlers.
func AuthMiddleware(tokens *jwtPkg.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := identityFromRequest(c, tokens)
		if err != nil {
			if errors.Is(err, jwtPkg.ErrMissingToken) {
				return apperror.Authentication("Missing token")
			}
			return apperror.Authentication("Invalid token")
		}

		auth.SetIdentity(c, identity)
		return c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is presented and
// otherwise continues anonymously.
func OptionalAuth(tokens *jwtPkg.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if identity, err := identityFromRequest(c, tokens); err == nil {
			auth.SetIdentity(c, identity)
		}
		return c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.Authorize(auth.IdentityFrom(c), auth.AdminOnly); err != nil {
			return err
		}
		return c.Next()
	}
}

func identityFromRequest(c *fiber.Ctx, tokens *jwtPkg.Manager) (*auth.Identity, error) {
	tokenString, err := jwtPkg.TokenFromHeader(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return nil, err
	}

	claims, err := tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	role := models.Role(claims.Role)
	if !role.Valid() {
		return nil, jwtPkg.ErrInvalidToken
	}

	return &auth.Identity{
		ID:    claims.ID,
		Email: claims.Email,
		Role:  role,
	}, nil
}
