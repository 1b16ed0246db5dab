package editor

import (
	"github.com/Ramsey-B/vine/pkg/models"
	"github.com/Ramsey-B/vine/pkg/render"
)

// Status is the visual classification of a row.
type Status string

const (
	StatusNeutral Status = "neutral"
	StatusDanger  Status = "danger"
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
)

const deprecationWarning = "Relationship type deprecated, please avoid!"

// Row is the controller for a single record of a collection.
type Row struct {
	record *Record
	owner  *Collection
}

func (r *Row) Key() int { return r.record.Key }

// GetValue returns the current content of the row's pickers.
func (r *Row) GetValue() Value { return r.record.Value() }

func (r *Row) Valid() bool    { return r.record.Valid() }
func (r *Row) Added() bool    { return r.record.Added() }
func (r *Row) Changed() bool  { return r.record.Changed() }
func (r *Row) Disabled() bool { return r.record.Disabled() }
func (r *Row) Deleted() bool  { return r.record.Deleted }
func (r *Row) Selected() bool { return r.record.Selected }

func (r *Row) Select()   { r.record.Selected = true }
func (r *Row) Deselect() { r.record.Selected = false }

// RequestDelete soft-deletes the row unless it is disabled, then lets the
// collection decide whether the row is removed outright.
func (r *Row) RequestDelete() {
	if !r.Disabled() {
		r.record.Deleted = true
	}
	r.owner.removeIfAdded(r.record.Key)
}

// RequestReset restores a soft-deleted row.
func (r *Row) RequestReset() {
	r.record.Deleted = false
}

// SwapEndpoints exchanges source and target.
func (r *Row) SwapEndpoints() {
	if r.Disabled() {
		return
	}
	r.record.Source, r.record.Target = r.record.Target, r.record.Source
}

// SetValue writes new picker values into the row.
func (r *Row) SetValue(v Value) error {
	if r.Disabled() || r.Deleted() {
		return ErrRowLocked
	}
	v = normalize(v)

	if r.SourceLocked() && !models.SameEntity(r.record.Source, v.Source) {
		return ErrEndpointLocked
	}
	if r.TargetLocked() && !models.SameEntity(r.record.Target, v.Target) {
		return ErrEndpointLocked
	}
	if r.owner.isAnchor(v.Source) && r.owner.isAnchor(v.Target) {
		return ErrSelfReference
	}

	if v.TypeID != nil && !sameTypeID(r.record.TypeID, v.TypeID) {
		rt, ok := r.owner.catalog.Lookup(*v.TypeID)
		if !ok {
			return ErrUnknownType
		}
		if rt.Deprecated && r.record.New() {
			return ErrDeprecatedType
		}
	}

	r.record.Source = v.Source
	r.record.Target = v.Target
	r.record.TypeID = v.TypeID
	return nil
}

// Status classifies the row. The first matching rule wins.
func (r *Row) Status() Status {
	switch {
	case r.Disabled():
		return StatusNeutral
	case r.Deleted():
		return StatusDanger
	case r.Added():
		return StatusSuccess
	case r.Changed():
		return StatusWarning
	default:
		return StatusNeutral
	}
}

// Deletable reports whether the row offers a delete control.
func (r *Row) Deletable() bool {
	if r.Disabled() || r.Deleted() {
		return false
	}
	return r.Status() != StatusNeutral || r.Valid()
}

// Selectable reports whether the row's bulk-selection checkbox is enabled.
func (r *Row) Selectable() bool {
	return !r.Disabled() && !r.Deleted()
}

// SourceLocked reports whether the source picker is disabled.
func (r *Row) SourceLocked() bool {
	return r.Disabled() || r.Deleted() || r.owner.isAnchor(r.record.Source)
}

// TargetLocked reports whether the target picker is disabled.
func (r *Row) TargetLocked() bool {
	return r.Disabled() || r.Deleted() || r.owner.isAnchor(r.record.Target)
}

// TypeOptions returns the types the row's type picker offers. New rows never
// offer deprecated types.
func (r *Row) TypeOptions() []models.RelationshipType {
	return r.owner.catalog.Selectable(!r.record.New())
}

// DeprecationWarning returns a warning when the current type is deprecated.
func (r *Row) DeprecationWarning() string {
	if r.record.TypeID == nil {
		return ""
	}
	if rt, ok := r.owner.catalog.Lookup(*r.record.TypeID); ok && rt.Deprecated {
		return deprecationWarning
	}
	return ""
}

// Sentence renders the relationship when the row is valid.
func (r *Row) Sentence() string {
	if !r.Valid() {
		return ""
	}
	return render.Sentence(r.owner.catalog, *r.record.TypeID, *r.record.Source, *r.record.Target)
}

// View renders the row for the page.
func (r *Row) View() models.RowView {
	return models.RowView{
		Key:                r.record.Key,
		Source:             r.record.Source,
		Target:             r.record.Target,
		TypeID:             r.record.TypeID,
		Status:             string(r.Status()),
		Valid:              r.Valid(),
		Added:              r.Added(),
		Changed:            r.Changed(),
		Disabled:           r.Disabled(),
		Deleted:            r.Deleted(),
		Selected:           r.Selected(),
		Deletable:          r.Deletable(),
		Selectable:         r.Selectable(),
		SourceLocked:       r.SourceLocked(),
		TargetLocked:       r.TargetLocked(),
		Sentence:           r.Sentence(),
		DeprecationWarning: r.DeprecationWarning(),
		TypeOptions:        r.TypeOptions(),
	}
}
