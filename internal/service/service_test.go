package service

import (
	"context"
	"testing"
	"time"

	"github.com/sefazor/cityevents-backend/internal/auth"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/internal/testutil"
	"github.com/sefazor/cityevents-backend/pkg/bcrypt"
	jwtPkg "github.com/sefazor/cityevents-backend/pkg/jwt"
	"github.com/sefazor/cityevents-backend/pkg/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAdminCode = "letmein"

type fixture struct {
	store      *testutil.Store
	mailer     *testutil.RecordingSender
	objects    *testutil.MemoryStorage
	tokens     *jwtPkg.Manager
	auth       *AuthService
	categories *CategoryService
	events     *EventService
	ratings    *RatingService
	images     *ImageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	v := utils.NewValidator()
	log := zap.NewNop()
	f := &fixture{
		store:   store,
		mailer:  testutil.NewRecordingSender(),
		objects: testutil.NewMemoryStorage(),
		tokens:  jwtPkg.NewManager("test-secret", time.Hour),
	}
	f.auth = NewAuthService(store.Users(), f.tokens, f.mailer, v, testAdminCode, log)
	f.categories = NewCategoryService(store.Categories())
	f.events = NewEventService(store.Events(), store.Categories(), v, true)
	f.ratings = NewRatingService(store.Ratings(), store.Events())
	f.images = NewImageService(store.Events(), f.objects, v, log)
	return f
}

// user stores an account directly and returns its identity.
func (f *fixture) user(t *testing.T, email string, role models.Role) *auth.Identity {
	t.Helper()
	hash, err := bcrypt.HashPassword("password")
	require.NoError(t, err)
	u := &models.User{Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return &auth.Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

func (f *fixture) event(t *testing.T, owner *auth.Identity, req models.CreateEventRequest) *models.EventResponse {
	t.Helper()
	if req.Title == "" {
		req.Title = "Concert"
	}
	if req.StartAt == "" {
		req.StartAt = "2030-06-01T18:00:00Z"
	}
	resp, err := f.events.Create(context.Background(), owner, req)
	require.NoError(t, err)
	return resp
}

func ptr[T any](v T) *T { return &v }
