package editor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestore(t *testing.T) {
	c := newTestCollection(t)
	require.NoError(t, c.HandleRowChanged(1, Value{Source: entp(anchor), Target: entp(e2), TypeID: intp(7)}))
	require.NoError(t, c.HandleRowSelected(1))

	data, err := json.Marshal(c.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	restored, err := Restore(snap)
	require.NoError(t, err)

	assert.Equal(t, c.Keys(), restored.Keys())
	assert.Equal(t, c.OpenSlot(), restored.OpenSlot())
	assert.Equal(t, c.NextKey(), restored.NextKey())
	assert.Equal(t, 1, restored.SelectedCount())
	assert.Equal(t, c.ExtractSubmissionSet(), restored.ExtractSubmissionSet())
	assert.Equal(t, c.Catalog().All(), restored.Catalog().All())
}

func TestRestoreRejectsCorruptSnapshots(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{name: "DuplicateKey", mutate: func(s *Snapshot) { s.Records[1].Key = s.Records[0].Key }},
		{name: "KeyAboveCounter", mutate: func(s *Snapshot) { s.NextKey = 1 }},
		{name: "MissingOpenSlot", mutate: func(s *Snapshot) { s.OpenSlot = 0; s.Records = s.Records[1:] }},
		{name: "BadTemplate", mutate: func(s *Snapshot) { s.RelationshipTypes[0].DisplayTemplate = "{{nope}}" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := newTestCollection(t).Snapshot()
			tt.mutate(&snap)
			_, err := Restore(snap)
			assert.Error(t, err)
		})
	}
}
