package editor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/vine/pkg/catalog"
	"github.com/Ramsey-B/vine/pkg/models"
)

var (
	anchor = models.Entity{ID: "anchor", Type: "Work", Name: "The Anchor"}
	e1     = models.Entity{ID: "e1", Type: "Creator", Name: "One"}
	e2     = models.Entity{ID: "e2", Type: "Edition", Name: "Two"}
	e3     = models.Entity{ID: "e3", Type: "Publisher"}
)

func intp(n int) *int { return &n }

func entp(e models.Entity) *models.Entity { return &e }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]models.RelationshipType{
		{ID: 1, Label: "Authored", DisplayTemplate: "{{source}} wrote {{target}}"},
		{ID: 7, Label: "Edition of", DisplayTemplate: "{{source}} is an edition of {{target}}"},
		{ID: 9, Label: "Old", DisplayTemplate: "{{source}} old {{target}}", Deprecated: true},
	})
	require.NoError(t, err)
	return c
}

// newTestCollection returns a collection with one pre-existing relationship
// (row 0) and the open slot (row 1).
func newTestCollection(t *testing.T) *Collection {
	t.Helper()
	return New(anchor, []models.Relationship{
		{Source: entp(e1), Target: entp(anchor), TypeID: intp(1)},
	}, testCatalog(t))
}

// requireOneOpenTail asserts the open slot is the last row and is untouched.
func requireOneOpenTail(t *testing.T, c *Collection) {
	t.Helper()
	keys := c.Keys()
	require.NotEmpty(t, keys)
	require.Equal(t, c.OpenSlot(), keys[len(keys)-1])

	tail, err := c.Row(c.OpenSlot())
	require.NoError(t, err)
	require.False(t, tail.Changed())
	require.True(t, models.SameEntity(tail.GetValue().Source, &anchor))
}
