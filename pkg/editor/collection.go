// Package editor implements the relationship-set editor: an ordered
// collection of editable relationship rows, each tracked against the
// baseline it was created with.
package editor

import (
	"fmt"
	"slices"

	"github.com/Ramsey-B/vine/pkg/catalog"
	"github.com/Ramsey-B/vine/pkg/models"
)

// Collection owns the rows of one editor. Rows are stored by key; order
// holds the display sequence. The open slot is the trailing untouched row
// new relationships are typed into.
type Collection struct {
	anchor        models.Entity
	catalog       *catalog.Catalog
	rows          map[int]*Record
	order         []int
	openSlot      int
	nextKey       int
	selectedCount int
}

// New seeds a collection from existing relationships, followed by one open
// slot anchored to anchor.
func New(anchor models.Entity, existing []models.Relationship, c *catalog.Catalog) *Collection {
	if c == nil {
		c = catalog.Empty()
	}

	col := &Collection{
		anchor:  anchor,
		catalog: c,
		rows:    make(map[int]*Record, len(existing)+1),
		order:   make([]int, 0, len(existing)+1),
	}

	for _, rel := range existing {
		col.append(newRecord(col.nextKey, rel))
	}
	col.spawn()

	return col
}

func (c *Collection) append(r *Record) {
	c.rows[r.Key] = r
	c.order = append(c.order, r.Key)
	c.nextKey++
}

// spawn appends a fresh open slot.
func (c *Collection) spawn() {
	anchor := c.anchor
	r := newRecord(c.nextKey, Value{Source: &anchor})
	c.openSlot = r.Key
	c.append(r)
}

func (c *Collection) isAnchor(e *models.Entity) bool {
	return e != nil && e.ID == c.anchor.ID
}

func (c *Collection) Anchor() models.Entity     { return c.anchor }
func (c *Collection) Catalog() *catalog.Catalog { return c.catalog }
func (c *Collection) Len() int                  { return len(c.order) }
func (c *Collection) OpenSlot() int             { return c.openSlot }
func (c *Collection) SelectedCount() int        { return c.selectedCount }
func (c *Collection) Keys() []int               { return slices.Clone(c.order) }

// NextKey returns the key the next spawned row will get.
func (c *Collection) NextKey() int { return c.nextKey }

// Row returns the controller for the row with the given key.
func (c *Collection) Row(key int) (*Row, error) {
	r, ok := c.rows[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %d", ErrRowNotFound, key)
	}
	return &Row{record: r, owner: c}, nil
}

// At returns the row at a display position.
func (c *Collection) At(index int) (*Row, error) {
	if index < 0 || index >= len(c.order) {
		return nil, fmt.Errorf("%w: index %d", ErrRowNotFound, index)
	}
	return c.Row(c.order[index])
}

// Rows returns the controllers of every row in display order.
func (c *Collection) Rows() []*Row {
	rows := make([]*Row, 0, len(c.order))
	for _, key := range c.order {
		rows = append(rows, &Row{record: c.rows[key], owner: c})
	}
	return rows
}

// Records returns copies of every record in display order.
func (c *Collection) Records() []Record {
	out := make([]Record, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.rows[key])
	}
	return out
}

func (c *Collection) indexOf(key int) int {
	return slices.Index(c.order, key)
}

func (c *Collection) isLast(key int) bool {
	return len(c.order) > 0 && c.order[len(c.order)-1] == key
}

// spawnIfNeeded appends a new open slot once an edit to the last row leaves
// it touched.
func (c *Collection) spawnIfNeeded(key int) {
	if !c.isLast(key) {
		return
	}
	if !c.rows[key].Changed() {
		return
	}
	c.spawn()
}

// HandleRowChanged writes new picker values into a row.
func (c *Collection) HandleRowChanged(key int, v Value) error {
	row, err := c.Row(key)
	if err != nil {
		return err
	}
	if err := row.SetValue(v); err != nil {
		return fmt.Errorf("row %d: %w", key, err)
	}
	c.spawnIfNeeded(key)
	return nil
}

// HandleSwap exchanges a row's source and target.
func (c *Collection) HandleSwap(key int) error {
	row, err := c.Row(key)
	if err != nil {
		return err
	}
	if row.Disabled() || row.Deleted() {
		return fmt.Errorf("row %d: %w", key, ErrRowLocked)
	}
	row.SwapEndpoints()
	c.spawnIfNeeded(key)
	return nil
}

// HandleRowSelected toggles a row's bulk-selection checkbox.
func (c *Collection) HandleRowSelected(key int) error {
	row, err := c.Row(key)
	if err != nil {
		return err
	}
	if row.Selected() {
		row.Deselect()
		c.selectedCount--
		return nil
	}
	if !row.Selectable() {
		return fmt.Errorf("row %d: %w", key, ErrNotSelectable)
	}
	row.Select()
	c.selectedCount++
	return nil
}

// HandleRowDeleted deletes a row. Rows that were only ever added are removed
// from the sequence; any other row keeps its place with the deleted flag set.
func (c *Collection) HandleRowDeleted(key int) error {
	row, err := c.Row(key)
	if err != nil {
		return err
	}
	row.RequestDelete()
	return nil
}

// HandleRowReset clears a row's deleted flag.
func (c *Collection) HandleRowReset(key int) error {
	row, err := c.Row(key)
	if err != nil {
		return err
	}
	row.RequestReset()
	return nil
}

func (c *Collection) removeIfAdded(key int) {
	r, ok := c.rows[key]
	if !ok || !r.Added() {
		return
	}

	if r.Selected {
		c.selectedCount--
	}
	delete(c.rows, key)
	i := c.indexOf(key)
	c.order = slices.Delete(c.order, i, i+1)
}

// HandleBulkDelete deletes every selected row, last position first, then
// clears the selection.
func (c *Collection) HandleBulkDelete() {
	var indexes []int
	for i, key := range c.order {
		if c.rows[key].Selected {
			indexes = append(indexes, i)
		}
	}

	slices.Sort(indexes)
	slices.Reverse(indexes)

	for _, i := range indexes {
		row := &Row{record: c.rows[c.order[i]], owner: c}
		row.RequestDelete()
	}

	for _, r := range c.rows {
		r.Selected = false
	}
	c.selectedCount = 0
}

// ExtractSubmissionSet returns the relationships that need to be sent.
func (c *Collection) ExtractSubmissionSet() []models.SubmittedRelationship {
	return FilterSubmission(c.Records())
}

// HasSubmittableChanges reports whether there is anything to submit.
func (c *Collection) HasSubmittableChanges() bool {
	return len(c.ExtractSubmissionSet()) > 0
}

// Clone returns a deep copy of the collection.
func (c *Collection) Clone() *Collection {
	cp := *c
	cp.rows = make(map[int]*Record, len(c.rows))
	for k, r := range c.rows {
		cp.rows[k] = r.clone()
	}
	cp.order = slices.Clone(c.order)
	return &cp
}

// View renders every row of the collection.
func (c *Collection) View() []models.RowView {
	rows := c.Rows()
	out := make([]models.RowView, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.View())
	}
	return out
}
