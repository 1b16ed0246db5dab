package models

import (
	"fmt"
	"strings"
)

// UnnamedEntity is displayed for entities that carry no name.
const UnnamedEntity = "(unnamed)"

// Entity is a reference to a catalog entity. Two entities are the same
// entity when their IDs match; Name and Type are display data only.
type Entity struct {
	ID   string `json:"id" validate:"required"`
	Type string `json:"type" validate:"required"`
	Name string `json:"name,omitempty"`
}

// DisplayName returns the entity name or UnnamedEntity when it has none.
func (e Entity) DisplayName() string {
	if strings.TrimSpace(e.Name) == "" {
		return UnnamedEntity
	}
	return e.Name
}

// Link returns the canonical page path of the entity.
func (e Entity) Link() string {
	return EntityLink(e.Type, e.ID)
}

// EntityLink builds the canonical page path for an entity type and id.
func EntityLink(entityType, id string) string {
	return fmt.Sprintf("/%s/%s", strings.ToLower(entityType), id)
}

// SameEntity reports whether a and b refer to the same entity. Two unset
// references are the same.
func SameEntity(a, b *Entity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID == b.ID
}
