// Package catalog holds the relationship-type catalog an editor session
// offers in its type pickers.
package catalog

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/valyala/fasttemplate"

	"github.com/Ramsey-B/vine/pkg/models"
)

const (
	SlotSource = "source"
	SlotTarget = "target"

	startTag = "{{"
	endTag   = "}}"
)

var (
	ErrInvalidTemplate = errors.New("invalid display template")
	ErrInvalidType     = errors.New("invalid relationship type")
	ErrDuplicateType   = errors.New("duplicate relationship type")
)

// legacySlots maps positional slot names used by older templates.
var legacySlots = map[string]string{
	"entities.[0]": SlotSource,
	"entities.[1]": SlotTarget,
	"entities.0":   SlotSource,
	"entities.1":   SlotTarget,
}

type entry struct {
	relationshipType models.RelationshipType
	template         *fasttemplate.Template
}

// Catalog is an immutable, ordered set of relationship types.
type Catalog struct {
	types []models.RelationshipType
	byID  map[int]entry
}

// New builds a catalog and validates every display template against the
// slot vocabulary. A malformed template fails the whole catalog.
func New(types []models.RelationshipType) (*Catalog, error) {
	c := &Catalog{
		types: make([]models.RelationshipType, 0, len(types)),
		byID:  make(map[int]entry, len(types)),
	}

	for _, t := range types {
		if t.ID <= 0 {
			return nil, fmt.Errorf("%w: id %d must be positive", ErrInvalidType, t.ID)
		}
		if _, ok := c.byID[t.ID]; ok {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateType, t.ID)
		}

		tmpl, err := parseTemplate(t.DisplayTemplate)
		if err != nil {
			return nil, fmt.Errorf("relationship type %d (%s): %w", t.ID, t.Label, err)
		}

		c.types = append(c.types, t)
		c.byID[t.ID] = entry{relationshipType: t, template: tmpl}
	}

	return c, nil
}

// Empty returns a catalog with no types.
func Empty() *Catalog {
	c, _ := New(nil)
	return c
}

func parseTemplate(raw string) (*fasttemplate.Template, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	// Triple braces mean "unescaped" in older templates; slot values are
	// always pre-rendered markup here, so they collapse to plain slots.
	normalized := strings.NewReplacer("{{{", startTag, "}}}", endTag).Replace(raw)

	tmpl, err := fasttemplate.NewTemplate(normalized, startTag, endTag)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	_, err = tmpl.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		if _, ok := slotName(tag); !ok {
			return 0, fmt.Errorf("%w: unknown slot %q", ErrInvalidTemplate, strings.TrimSpace(tag))
		}
		return 0, nil
	})
	if err != nil {
		return nil, err
	}

	return tmpl, nil
}

func slotName(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	switch tag {
	case SlotSource, SlotTarget:
		return tag, true
	}
	if slot, ok := legacySlots[tag]; ok {
		return slot, true
	}
	return "", false
}

// Lookup returns the relationship type with the given id.
func (c *Catalog) Lookup(id int) (models.RelationshipType, bool) {
	e, ok := c.byID[id]
	return e.relationshipType, ok
}

// Contains reports whether the catalog has a type with the given id.
func (c *Catalog) Contains(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns every type in catalog order.
func (c *Catalog) All() []models.RelationshipType {
	return append([]models.RelationshipType(nil), c.types...)
}

// Selectable returns the types a picker offers. Deprecated types are only
// included when includeDeprecated is set.
func (c *Catalog) Selectable(includeDeprecated bool) []models.RelationshipType {
	if includeDeprecated {
		return c.All()
	}
	return ectolinq.Filter(c.types, func(t models.RelationshipType) bool {
		return !t.Deprecated
	})
}

// Len returns the number of types in the catalog.
func (c *Catalog) Len() int {
	return len(c.types)
}

// Fill substitutes pre-rendered source and target markup into the display
// template of a type. ok is false when the type is unknown; a type without a
// template falls back to "source label target".
func (c *Catalog) Fill(id int, source, target string) (string, bool) {
	e, ok := c.byID[id]
	if !ok {
		return "", false
	}

	if e.template == nil {
		return fmt.Sprintf("%s %s %s", source, html.EscapeString(e.relationshipType.Label), target), true
	}

	return e.template.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		slot, _ := slotName(tag)
		if slot == SlotSource {
			return w.Write([]byte(source))
		}
		return w.Write([]byte(target))
	}), true
}
