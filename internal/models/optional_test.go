package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDistinguishesAbsentNullAndValue(t *testing.T) {
	var req UpdateEventRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Concert","categoryId":null}`), &req))

	assert.True(t, req.Title.Set)
	assert.True(t, req.Title.Valid)
	assert.Equal(t, "Concert", req.Title.Value)

	assert.True(t, req.CategoryID.Set)
	assert.True(t, req.CategoryID.Null())

	assert.False(t, req.Location.Set)
	assert.False(t, req.Published.Set)
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var req UpdateEventRequest
	assert.Error(t, json.Unmarshal([]byte(`{"categoryId":"abc"}`), &req))
}

func TestEventChangesColumns(t *testing.T) {
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	title := "Fair"
	published := false
	changes := EventChanges{
		Title:      &title,
		StartAt:    &start,
		CategoryID: Null[uint](),
		EndAt:      Null[time.Time](),
		Location:   Some("Town hall"),
		Published:  &published,
	}

	cols := changes.Columns()
	assert.Equal(t, map[string]interface{}{
		"title":       "Fair",
		"start_at":    start,
		"category_id": nil,
		"end_at":      nil,
		"location":    "Town hall",
		"published":   false,
	}, cols)
	assert.False(t, changes.Empty())
	assert.True(t, EventChanges{}.Empty())
}

func TestEventChangesApply(t *testing.T) {
	catID := uint(3)
	desc := "old"
	e := &Event{Title: "Old", CategoryID: &catID, Category: &Category{ID: 3}, Description: &desc, Published: true}

	EventChanges{CategoryID: Null[uint](), Description: Some("new")}.Apply(e)

	assert.Equal(t, "Old", e.Title)
	assert.Nil(t, e.CategoryID)
	assert.Nil(t, e.Category)
	require.NotNil(t, e.Description)
	assert.Equal(t, "new", *e.Description)
	assert.True(t, e.Published)
}
