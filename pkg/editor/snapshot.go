package editor

import (
	"fmt"

	"github.com/Ramsey-B/vine/pkg/catalog"
	"github.com/Ramsey-B/vine/pkg/models"
)

// Snapshot is the serializable form of a collection.
type Snapshot struct {
	Anchor            models.Entity             `json:"anchor"`
	RelationshipTypes []models.RelationshipType `json:"relationship_types"`
	Records           []Record                  `json:"records"`
	OpenSlot          int                       `json:"open_slot"`
	NextKey           int                       `json:"next_key"`
}

// Snapshot captures the collection's full state.
func (c *Collection) Snapshot() Snapshot {
	return Snapshot{
		Anchor:            c.anchor,
		RelationshipTypes: c.catalog.All(),
		Records:           c.Records(),
		OpenSlot:          c.openSlot,
		NextKey:           c.nextKey,
	}
}

// Restore rebuilds a collection from a snapshot.
func Restore(s Snapshot) (*Collection, error) {
	cat, err := catalog.New(s.RelationshipTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to restore catalog: %w", err)
	}

	c := &Collection{
		anchor:   s.Anchor,
		catalog:  cat,
		rows:     make(map[int]*Record, len(s.Records)),
		order:    make([]int, 0, len(s.Records)),
		openSlot: s.OpenSlot,
		nextKey:  s.NextKey,
	}

	for i := range s.Records {
		r := s.Records[i]
		if _, ok := c.rows[r.Key]; ok {
			return nil, fmt.Errorf("duplicate row key %d in snapshot", r.Key)
		}
		if r.Key >= c.nextKey {
			return nil, fmt.Errorf("row key %d is not below next key %d", r.Key, c.nextKey)
		}
		c.rows[r.Key] = &r
		c.order = append(c.order, r.Key)
		if r.Selected {
			c.selectedCount++
		}
	}

	if _, ok := c.rows[c.openSlot]; !ok {
		return nil, fmt.Errorf("open slot %d missing from snapshot", c.openSlot)
	}

	return c, nil
}
