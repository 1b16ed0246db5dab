package models

// RelationshipType is one entry of the relationship-type catalog.
type RelationshipType struct {
	ID              int    `json:"id" db:"id" validate:"required,gt=0"`
	Label           string `json:"label" db:"label" validate:"required"`
	DisplayTemplate string `json:"display_template" db:"display_template"`
	Deprecated      bool   `json:"deprecated" db:"deprecated"`
}
