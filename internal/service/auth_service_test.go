package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("issues token bound to the new user", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.auth.Register(ctx, models.RegisterRequest{
			Email:    "  Ann@Example.com ",
			Password: "secret",
			Name:     ptr("<b>Ann</b>"),
		})
		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", resp.User.Email)
		assert.Equal(t, models.RoleUser, resp.User.Role)
		require.NotNil(t, resp.User.Name)
		assert.Equal(t, "Ann", *resp.User.Name)

		claims, err := f.tokens.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.ID)
		assert.Equal(t, "USER", claims.Role)

		select {
		case sent := <-f.mailer.Sent:
			assert.Equal(t, "ann@example.com", sent)
		case <-time.After(time.Second):
			t.Fatal("welcome email not sent")
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newFixture(t)
		req := models.RegisterRequest{Email: "dup@example.com", Password: "secret"}
		_, err := f.auth.Register(ctx, req)
		require.NoError(t, err)

		_, err = f.auth.Register(ctx, req)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Register(ctx, models.RegisterRequest{Email: "x@example.com"})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		assert.Equal(t, "password is required", apperror.PublicMessage(err))

		_, err = f.auth.Register(ctx, models.RegisterRequest{Email: "not-an-email", Password: "p"})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("admin requires the configured code", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Register(ctx, models.RegisterRequest{
			Email: "a@example.com", Password: "p", Role: models.RoleAdmin, AdminCode: "wrong",
		})
		assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))

		_, err = f.auth.Register(ctx, models.RegisterRequest{
			Email: "b@example.com", Password: "p", Role: models.RoleAdmin,
		})
		assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))

		resp, err := f.auth.Register(ctx, models.RegisterRequest{
			Email: "c@example.com", Password: "p", Role: models.RoleAdmin, AdminCode: testAdminCode,
		})
		require.NoError(t, err)
		claims, err := f.tokens.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "ADMIN", claims.Role)
	})

	t.Run("password longer than bcrypt accepts", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Register(ctx, models.RegisterRequest{
			Email: "long@example.com", Password: strings.Repeat("a", 80),
		})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		assert.Equal(t, "password must be at most 72 bytes", apperror.PublicMessage(err))

		// 25 runes of three bytes each exceed the limit only when counted in bytes.
		_, err = f.auth.Register(ctx, models.RegisterRequest{
			Email: "runes@example.com", Password: strings.Repeat("€", 25),
		})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		_, err = f.auth.Register(ctx, models.RegisterRequest{
			Email: "edge@example.com", Password: strings.Repeat("a", 72),
		})
		require.NoError(t, err)
	})

	t.Run("empty admin code disables admin registration", func(t *testing.T) {
		f := newFixture(t)
		f.auth.adminCode = ""
		_, err := f.auth.Register(ctx, models.RegisterRequest{
			Email: "a@example.com", Password: "p", Role: models.RoleAdmin,
		})
		assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.auth.Register(ctx, models.RegisterRequest{Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)

	resp, err := f.auth.Login(ctx, models.LoginRequest{Email: "ANN@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, wrongPassword := f.auth.Login(ctx, models.LoginRequest{Email: "ann@example.com", Password: "nope"})
	_, unknownEmail := f.auth.Login(ctx, models.LoginRequest{Email: "bob@example.com", Password: "secret"})

	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(wrongPassword))
	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(unknownEmail))
	assert.Equal(t, apperror.PublicMessage(wrongPassword), apperror.PublicMessage(unknownEmail))

	_, err = f.auth.Login(ctx, models.LoginRequest{Email: "ann@example.com"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestLoginMalformedStoredHash(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.Users().Create(ctx, &models.User{
		Email: "plain@example.com", PasswordHash: "secret", Role: models.RoleUser,
	}))

	_, err := f.auth.Login(ctx, models.LoginRequest{Email: "plain@example.com", Password: "secret"})
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.Equal(t, "Internal server error", apperror.PublicMessage(err))
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.user(t, "me@example.com", models.RoleAdmin)

	profile, err := f.auth.Me(ctx, id.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", profile.Email)
	assert.Equal(t, models.RoleAdmin, profile.Role)

	_, err = f.auth.Me(ctx, 999)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
