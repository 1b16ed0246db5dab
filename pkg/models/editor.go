package models

import "time"

// CreateEditorRequest is the request body for opening an editor session.
type CreateEditorRequest struct {
	Anchor            Entity             `json:"anchor" validate:"required"`
	Relationships     []Relationship     `json:"relationships"`
	RelationshipTypes []RelationshipType `json:"relationship_types" validate:"dive"`
}

// EditorEventRequest is a single UI event delivered to an editor session.
type EditorEventRequest struct {
	Type  string  `json:"type" validate:"required"`
	Key   int     `json:"key"`
	Value *Entity `json:"value,omitempty"`
	// TypeID carries the type picker's raw value for type_changed events.
	TypeID string `json:"type_id,omitempty"`
}

// RowView is the rendered state of one editor row.
type RowView struct {
	Key                int                `json:"key"`
	Source             *Entity            `json:"source"`
	Target             *Entity            `json:"target"`
	TypeID             *int               `json:"type_id"`
	Status             string             `json:"status"`
	Valid              bool               `json:"valid"`
	Added              bool               `json:"added"`
	Changed            bool               `json:"changed"`
	Disabled           bool               `json:"disabled"`
	Deleted            bool               `json:"deleted"`
	Selected           bool               `json:"selected"`
	Deletable          bool               `json:"deletable"`
	Selectable         bool               `json:"selectable"`
	SourceLocked       bool               `json:"source_locked"`
	TargetLocked       bool               `json:"target_locked"`
	Sentence           string             `json:"sentence,omitempty"`
	DeprecationWarning string             `json:"deprecation_warning,omitempty"`
	TypeOptions        []RelationshipType `json:"type_options"`
}

// EditorView is the rendered state of an editor session.
type EditorView struct {
	ID            string    `json:"id"`
	Anchor        Entity    `json:"anchor"`
	Rows          []RowView `json:"rows"`
	SelectedCount int       `json:"selected_count"`
	Submittable   bool      `json:"submittable"`
	Submitting    bool      `json:"submitting"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// SubmitResponse tells the page where to navigate after a submission.
type SubmitResponse struct {
	Redirect       string `json:"redirect"`
	SessionExpired bool   `json:"session_expired"`
	Count          int    `json:"count"`
}
