package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner@example.com", models.RoleUser)

	t.Run("requires title and start", func(t *testing.T) {
		_, err := f.events.Create(ctx, owner, models.CreateEventRequest{StartAt: "2030-01-01"})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		_, err = f.events.Create(ctx, owner, models.CreateEventRequest{Title: "Fair"})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		_, err = f.events.Create(ctx, owner, models.CreateEventRequest{Title: "<p> </p>", StartAt: "2030-01-01"})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		_, err = f.events.Create(ctx, owner, models.CreateEventRequest{Title: "Fair", StartAt: "soon"})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("anonymous caller", func(t *testing.T) {
		_, err := f.events.Create(ctx, nil, models.CreateEventRequest{Title: "Fair", StartAt: "2030-01-01"})
		assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))
	})

	t.Run("defaults", func(t *testing.T) {
		resp := f.event(t, owner, models.CreateEventRequest{
			Title:       "Jazz <script>alert(1)</script>night",
			Description: ptr("<p>Live <b>music</b></p><script>x</script>"),
			Location:    ptr("   "),
		})
		assert.Equal(t, owner.ID, resp.CreatedByID)
		require.NotNil(t, resp.CreatedBy)
		assert.Equal(t, owner.Email, resp.CreatedBy.Email)
		assert.True(t, resp.Published)
		assert.False(t, resp.Blocked)
		assert.Equal(t, "Jazz night", resp.Title)
		require.NotNil(t, resp.Description)
		assert.Equal(t, "<p>Live <b>music</b></p>", *resp.Description)
		assert.Nil(t, resp.Location)
		assert.Nil(t, resp.AverageRating)
		assert.Equal(t, 0, resp.RatingsCount)
	})

	t.Run("explicit unpublished", func(t *testing.T) {
		resp := f.event(t, owner, models.CreateEventRequest{Published: ptr(false)})
		assert.False(t, resp.Published)
	})

	t.Run("category must exist", func(t *testing.T) {
		_, err := f.events.Create(ctx, owner, models.CreateEventRequest{
			Title: "Fair", StartAt: "2030-01-01", CategoryID: ptr(uint(404)),
		})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		admin := f.user(t, "cat-admin@example.com", models.RoleAdmin)
		cat, err := f.categories.Create(ctx, admin, models.CategoryRequest{Name: "Music"})
		require.NoError(t, err)

		resp := f.event(t, owner, models.CreateEventRequest{CategoryID: &cat.ID})
		require.NotNil(t, resp.Category)
		assert.Equal(t, "Music", resp.Category.Name)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := f.events.Create(ctx, owner, models.CreateEventRequest{
			Title: "Fair", StartAt: "2030-01-02", EndAt: ptr("2030-01-01"),
		})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func decodeUpdate(t *testing.T, body string) models.UpdateEventRequest {
	t.Helper()
	var req models.UpdateEventRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner@example.com", models.RoleUser)
	other := f.user(t, "other@example.com", models.RoleUser)
	admin := f.user(t, "admin@example.com", models.RoleAdmin)
	cat, err := f.categories.Create(ctx, admin, models.CategoryRequest{Name: "Sports"})
	require.NoError(t, err)

	created := f.event(t, owner, models.CreateEventRequest{
		Location:   ptr("Main square"),
		CategoryID: &cat.ID,
		EndAt:      ptr("2030-06-01T22:00:00Z"),
	})

	t.Run("not found before ownership", func(t *testing.T) {
		_, err := f.events.Update(ctx, other, 9999, decodeUpdate(t, `{"title":"x"}`))
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("non-owner is forbidden and nothing changes", func(t *testing.T) {
		_, err := f.events.Update(ctx, other, created.ID, decodeUpdate(t, `{"title":"Hijacked"}`))
		assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))

		row, ok := f.store.Event(created.ID)
		require.True(t, ok)
		assert.Equal(t, "Concert", row.Title)
	})

	t.Run("partial update leaves other fields", func(t *testing.T) {
		resp, err := f.events.Update(ctx, owner, created.ID, decodeUpdate(t, `{"title":"Open air"}`))
		require.NoError(t, err)
		assert.Equal(t, "Open air", resp.Title)
		require.NotNil(t, resp.Location)
		assert.Equal(t, "Main square", *resp.Location)
		require.NotNil(t, resp.CategoryID)
		assert.Equal(t, cat.ID, *resp.CategoryID)
	})

	t.Run("explicit null detaches category and clears end", func(t *testing.T) {
		resp, err := f.events.Update(ctx, owner, created.ID, decodeUpdate(t, `{"categoryId":null,"endAt":null}`))
		require.NoError(t, err)
		assert.Nil(t, resp.CategoryID)
		assert.Nil(t, resp.Category)
		assert.Nil(t, resp.EndAt)
		require.NotNil(t, resp.Location)
	})

	t.Run("null title rejected", func(t *testing.T) {
		_, err := f.events.Update(ctx, owner, created.ID, decodeUpdate(t, `{"title":null}`))
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		_, err = f.events.Update(ctx, owner, created.ID, decodeUpdate(t, `{"startAt":null}`))
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("blocked is admin only", func(t *testing.T) {
		_, err := f.events.Update(ctx, owner, created.ID, decodeUpdate(t, `{"blocked":true}`))
		assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))

		resp, err := f.events.Update(ctx, admin, created.ID, decodeUpdate(t, `{"blocked":true,"published":false}`))
		require.NoError(t, err)
		assert.True(t, resp.Blocked)
		assert.False(t, resp.Published)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := f.events.Update(ctx, owner, created.ID, decodeUpdate(t, `{"categoryId":404}`))
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("empty body is a no-op", func(t *testing.T) {
		resp, err := f.events.Update(ctx, owner, created.ID, decodeUpdate(t, `{}`))
		require.NoError(t, err)
		assert.Equal(t, "Open air", resp.Title)
	})
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner@example.com", models.RoleUser)
	other := f.user(t, "other@example.com", models.RoleUser)
	admin := f.user(t, "admin@example.com", models.RoleAdmin)

	created := f.event(t, owner, models.CreateEventRequest{})
	_, err := f.ratings.Rate(ctx, other, created.ID, models.RateRequest{Stars: ptr(4)})
	require.NoError(t, err)

	err = f.events.Delete(ctx, other, created.ID)
	assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))

	err = f.events.Delete(ctx, owner, 12345)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	require.NoError(t, f.events.Delete(ctx, owner, created.ID))
	assert.Equal(t, 0, f.store.RatingsForEvent(created.ID))

	_, err = f.events.Get(ctx, created.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	second := f.event(t, owner, models.CreateEventRequest{})
	require.NoError(t, f.events.Delete(ctx, admin, second.ID))
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner@example.com", models.RoleUser)
	admin := f.user(t, "admin@example.com", models.RoleAdmin)

	late := f.event(t, owner, models.CreateEventRequest{Title: "Late show", StartAt: "2030-06-02T20:00:00Z"})
	early := f.event(t, owner, models.CreateEventRequest{Title: "Morning run", StartAt: "2030-06-01T08:00:00Z", Location: ptr("River park")})
	hidden := f.event(t, owner, models.CreateEventRequest{Title: "Draft", Published: ptr(false)})
	blocked := f.event(t, owner, models.CreateEventRequest{Title: "Spam"})
	_, err := f.events.Update(ctx, admin, blocked.ID, decodeUpdate(t, `{"blocked":true}`))
	require.NoError(t, err)

	ids := func(items []models.EventResponse) []uint {
		out := []uint{}
		for _, e := range items {
			out = append(out, e.ID)
		}
		return out
	}

	items, err := f.events.List(ctx, nil, models.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint{early.ID, late.ID}, ids(items))

	items, err = f.events.List(ctx, owner, models.EventFilter{IncludeUnpublished: true, IncludeBlocked: true})
	require.NoError(t, err)
	assert.Equal(t, []uint{early.ID, late.ID}, ids(items), "flags ignored for non-admin")

	items, err = f.events.List(ctx, admin, models.EventFilter{IncludeUnpublished: true, IncludeBlocked: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{early.ID, late.ID, hidden.ID, blocked.ID}, ids(items))

	items, err = f.events.List(ctx, nil, models.EventFilter{Search: "river"})
	require.NoError(t, err)
	assert.Equal(t, []uint{early.ID}, ids(items))

	open := NewEventService(f.store.Events(), f.store.Categories(), f.events.validator, false)
	items, err = open.List(ctx, nil, models.EventFilter{IncludeUnpublished: true, IncludeBlocked: true})
	require.NoError(t, err)
	assert.Len(t, items, 4)
}
