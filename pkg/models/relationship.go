package models

// Relationship is a (source, target, type) triple. Any part may be unset
// while the relationship is being edited.
type Relationship struct {
	Source *Entity `json:"source"`
	Target *Entity `json:"target"`
	TypeID *int    `json:"type_id"`
}

// Complete reports whether every part of the relationship is set.
func (r Relationship) Complete() bool {
	return r.Source != nil && r.Target != nil && r.TypeID != nil
}

// SubmittedRelationship is the wire form of a relationship sent for persistence.
type SubmittedRelationship struct {
	Source Entity `json:"source"`
	Target Entity `json:"target"`
	TypeID int    `json:"type_id"`
}
