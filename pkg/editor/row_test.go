package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/vine/pkg/models"
)

func TestRecordPredicates(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		valid    bool
		changed  bool
		added    bool
		disabled bool
	}{
		{
			name:   "PristineOpenSlot",
			record: Record{Source: entp(anchor), InitialSource: entp(anchor)},
		},
		{
			name:    "OpenSlotWithTarget",
			record:  Record{Source: entp(anchor), InitialSource: entp(anchor), Target: entp(e1)},
			changed: true,
			added:   true,
		},
		{
			name:    "OpenSlotWithTypeOnly",
			record:  Record{Source: entp(anchor), InitialSource: entp(anchor), TypeID: intp(1)},
			changed: true,
			added:   true,
		},
		{
			name: "PreExisting",
			record: Record{
				Source: entp(e1), Target: entp(e2), TypeID: intp(1),
				InitialSource: entp(e1), InitialTarget: entp(e2), InitialTypeID: intp(1),
			},
			valid:    true,
			disabled: true,
		},
		{
			name: "PartialBaselineEdited",
			record: Record{
				Source: entp(anchor), Target: entp(e2), TypeID: intp(7),
				InitialTypeID: intp(7),
			},
			valid:   true,
			changed: true,
		},
		{
			name:    "TypeChangedOnly",
			record:  Record{TypeID: intp(7), InitialTypeID: intp(1)},
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.record.Valid(), "valid")
			assert.Equal(t, tt.changed, tt.record.Changed(), "changed")
			assert.Equal(t, tt.added, tt.record.Added(), "added")
			assert.Equal(t, tt.disabled, tt.record.Disabled(), "disabled")
		})
	}
}

func TestRowStatus(t *testing.T) {
	c := New(anchor, []models.Relationship{
		{Source: entp(e1), Target: entp(anchor), TypeID: intp(1)},
		{TypeID: intp(1)},
		{TypeID: intp(7)},
	}, testCatalog(t))

	require.NoError(t, c.HandleRowChanged(2, Value{TypeID: intp(1)}))
	require.NoError(t, c.HandleRowDeleted(1))
	require.NoError(t, c.HandleRowChanged(3, Value{Source: entp(anchor), Target: entp(e2)}))

	want := map[int]Status{
		0: StatusNeutral,
		1: StatusDanger,
		2: StatusWarning,
		3: StatusSuccess,
		4: StatusNeutral,
	}
	for key, status := range want {
		row, err := c.Row(key)
		require.NoError(t, err)
		assert.Equal(t, status, row.Status(), "row %d", key)
	}
}

func TestRowControls(t *testing.T) {
	c := New(anchor, []models.Relationship{
		{Source: entp(e1), Target: entp(anchor), TypeID: intp(9)},
		{TypeID: intp(1)},
	}, testCatalog(t))

	t.Run("DisabledRow", func(t *testing.T) {
		row, err := c.Row(0)
		require.NoError(t, err)
		assert.False(t, row.Deletable())
		assert.False(t, row.Selectable())
		assert.True(t, row.SourceLocked())
		assert.True(t, row.TargetLocked())
		assert.Equal(t, deprecationWarning, row.DeprecationWarning())
		assert.Equal(t, `<a href="/creator/e1">One</a> old <a href="/work/anchor">The Anchor</a>`, row.Sentence())
	})

	t.Run("ExistingRowOffersAllTypes", func(t *testing.T) {
		row, err := c.Row(1)
		require.NoError(t, err)
		assert.Len(t, row.TypeOptions(), 3)
		assert.False(t, row.Deletable())
		assert.Empty(t, row.Sentence())
	})

	t.Run("OpenSlot", func(t *testing.T) {
		row, err := c.Row(c.OpenSlot())
		require.NoError(t, err)
		assert.Len(t, row.TypeOptions(), 2)
		assert.False(t, row.Deletable())
		assert.True(t, row.Selectable())
		assert.True(t, row.SourceLocked())
		assert.False(t, row.TargetLocked())
	})

	t.Run("ValidNewRowDeletable", func(t *testing.T) {
		cp := c.Clone()
		require.NoError(t, cp.HandleRowChanged(2, Value{Source: entp(anchor), Target: entp(e2), TypeID: intp(7)}))
		row, err := cp.Row(2)
		require.NoError(t, err)
		assert.True(t, row.Deletable())

		view := row.View()
		assert.Equal(t, 2, view.Key)
		assert.Equal(t, string(StatusSuccess), view.Status)
		assert.True(t, view.Valid)
		assert.Equal(t, `<a href="/work/anchor">The Anchor</a> is an edition of <a href="/edition/e2">Two</a>`, view.Sentence)
	})
}

func TestParseTypeID(t *testing.T) {
	tests := []struct {
		raw     string
		want    *int
		wantErr bool
	}{
		{raw: "", want: nil},
		{raw: "  ", want: nil},
		{raw: "7", want: intp(7)},
		{raw: " 12 ", want: intp(12)},
		{raw: "abc", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTypeID(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTypeID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
