package editor

import (
	"strconv"
	"strings"

	"github.com/Ramsey-B/vine/pkg/models"
)

// Value is the point-in-time content of a row's three pickers.
type Value = models.Relationship

// Record holds one row's baseline and current state. Entity pointers held by
// a record are treated as immutable and may be shared between copies.
type Record struct {
	Key           int            `json:"key"`
	Source        *models.Entity `json:"source"`
	Target        *models.Entity `json:"target"`
	TypeID        *int           `json:"type_id"`
	InitialSource *models.Entity `json:"initial_source"`
	InitialTarget *models.Entity `json:"initial_target"`
	InitialTypeID *int           `json:"initial_type_id"`
	Deleted       bool           `json:"deleted"`
	Selected      bool           `json:"selected"`
}

func newRecord(key int, v Value) *Record {
	v = normalize(v)
	return &Record{
		Key:           key,
		Source:        v.Source,
		Target:        v.Target,
		TypeID:        v.TypeID,
		InitialSource: v.Source,
		InitialTarget: v.Target,
		InitialTypeID: v.TypeID,
	}
}

// Value returns the current source, target and type.
func (r *Record) Value() Value {
	return Value{Source: r.Source, Target: r.Target, TypeID: r.TypeID}
}

// Valid reports whether source, target and type are all set.
func (r *Record) Valid() bool {
	return r.Value().Complete()
}

// Changed reports whether any field differs from its baseline. Entities are
// compared by id.
func (r *Record) Changed() bool {
	return !models.SameEntity(r.InitialSource, r.Source) ||
		!models.SameEntity(r.InitialTarget, r.Target) ||
		!sameTypeID(r.InitialTypeID, r.TypeID)
}

// Added reports whether the row started without a target and type and now
// has at least one of them.
func (r *Record) Added() bool {
	return r.New() && (r.Target != nil || r.TypeID != nil)
}

// New reports whether the row has no baseline target and type.
func (r *Record) New() bool {
	return r.InitialTarget == nil && r.InitialTypeID == nil
}

// Disabled reports whether the row is a pre-existing relationship.
func (r *Record) Disabled() bool {
	return r.InitialSource != nil && r.InitialTarget != nil
}

func (r *Record) clone() *Record {
	cp := *r
	return &cp
}

func sameTypeID(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// normalize treats entity references without an id as unset.
func normalize(v Value) Value {
	if v.Source != nil && strings.TrimSpace(v.Source.ID) == "" {
		v.Source = nil
	}
	if v.Target != nil && strings.TrimSpace(v.Target.ID) == "" {
		v.Target = nil
	}
	return v
}

// ParseTypeID converts the type picker's raw value. An empty value is unset.
func ParseTypeID(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return nil, ErrInvalidTypeID
	}
	return &id, nil
}
