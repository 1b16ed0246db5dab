package editor

import (
	"fmt"

	"github.com/Ramsey-B/vine/pkg/models"
)

// EventType names a UI event delivered to a collection.
type EventType string

const (
	EventSourceChanged EventType = "source_changed"
	EventTargetChanged EventType = "target_changed"
	EventTypeChanged   EventType = "type_changed"
	EventSwap          EventType = "swap"
	EventSelect        EventType = "select"
	EventDelete        EventType = "delete"
	EventReset         EventType = "reset"
	EventBulkDelete    EventType = "bulk_delete"
)

// Event is a single UI event. Value is used by endpoint changes and RawTypeID
// by type changes; Key is ignored by bulk deletes.
type Event struct {
	Type      EventType
	Key       int
	Value     *models.Entity
	RawTypeID string
}

// Reduce applies an event to a copy of state. On error the returned
// collection is state itself, unchanged.
func Reduce(state *Collection, event Event) (*Collection, error) {
	next := state.Clone()
	if err := apply(next, event); err != nil {
		return state, err
	}
	return next, nil
}

func apply(c *Collection, event Event) error {
	switch event.Type {
	case EventSourceChanged, EventTargetChanged, EventTypeChanged:
		row, err := c.Row(event.Key)
		if err != nil {
			return err
		}
		v := row.GetValue()
		switch event.Type {
		case EventSourceChanged:
			v.Source = event.Value
		case EventTargetChanged:
			v.Target = event.Value
		default:
			typeID, err := ParseTypeID(event.RawTypeID)
			if err != nil {
				return fmt.Errorf("row %d: %w", event.Key, err)
			}
			v.TypeID = typeID
		}
		return c.HandleRowChanged(event.Key, v)
	case EventSwap:
		return c.HandleSwap(event.Key)
	case EventSelect:
		return c.HandleRowSelected(event.Key)
	case EventDelete:
		return c.HandleRowDeleted(event.Key)
	case EventReset:
		return c.HandleRowReset(event.Key)
	case EventBulkDelete:
		c.HandleBulkDelete()
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}
}
