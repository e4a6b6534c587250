package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows(t *testing.T) {
	t.Run("builds columns in header order", func(t *testing.T) {
		tbl := FromRows(
			[]string{"City", "Country", "Stations"},
			[][]string{
				{"London", "UK", "272"},
				{"Oslo", "Norway", "101"},
			},
		)

		assert.Equal(t, []string{"City", "Country", "Stations"}, tbl.Columns())
		assert.Equal(t, 2, tbl.NumRows())
		assert.Equal(t, "Oslo", tbl.Cell("City", 1).String())
	})

	t.Run("empty and whitespace cells become null", func(t *testing.T) {
		tbl := FromRows(
			[]string{"City", "Stations"},
			[][]string{
				{"London", ""},
				{"Oslo", "   "},
			},
		)

		assert.True(t, tbl.Cell("Stations", 0).IsNull())
		assert.True(t, tbl.Cell("Stations", 1).IsNull())
	})

	t.Run("short rows are padded with null", func(t *testing.T) {
		tbl := FromRows(
			[]string{"City", "Country"},
			[][]string{{"London"}},
		)

		assert.Equal(t, "London", tbl.Cell("City", 0).String())
		assert.True(t, tbl.Cell("Country", 0).IsNull())
	})
}

func TestTableRename(t *testing.T) {
	t.Run("renames mapped columns and keeps the rest", func(t *testing.T) {
		tbl := FromRows(
			[]string{"City", "Ridden?", "Logo"},
			[][]string{{"London", "yes", "x"}},
		)

		collisions := tbl.Rename(map[string]string{"Ridden?": "VISITED"})

		require.Empty(t, collisions)
		assert.Equal(t, []string{"City", "VISITED", "Logo"}, tbl.Columns())
		assert.Equal(t, "yes", tbl.Cell("VISITED", 0).String())
	})

	t.Run("first column wins on collision", func(t *testing.T) {
		tbl := FromRows(
			[]string{"SYSTEM_ID", "Sequence"},
			[][]string{{"LONDON_UK", "1"}},
		)

		collisions := tbl.Rename(map[string]string{"Sequence": "SYSTEM_ID"})

		assert.Equal(t, []Collision{{Dropped: "Sequence", Target: "SYSTEM_ID"}}, collisions)
		assert.Equal(t, []string{"SYSTEM_ID"}, tbl.Columns())
		assert.Equal(t, "LONDON_UK", tbl.Cell("SYSTEM_ID", 0).String())
	})
}

func TestTableFilter(t *testing.T) {
	tbl := FromRows(
		[]string{"City", "Sequence"},
		[][]string{
			{"London", "1"},
			{"Nowhere", ""},
			{"Oslo", "2"},
		},
	)

	removed := tbl.Filter(func(row int) bool {
		return !tbl.Cell("Sequence", row).IsNull()
	})

	assert.Equal(t, 1, removed)
	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, "London", tbl.Cell("City", 0).String())
	assert.Equal(t, "Oslo", tbl.Cell("City", 1).String())
}

func TestTableSetColumn(t *testing.T) {
	tbl := FromRows([]string{"Stations"}, [][]string{{"272"}, {"101"}})

	tbl.SetColumn("Stations", []Value{Number(272), Number(101)})

	f, ok := tbl.Cell("Stations", 0).Float()
	require.True(t, ok)
	assert.Equal(t, 272.0, f)

	assert.Panics(t, func() { tbl.SetColumn("Missing", []Value{Null(), Null()}) })
	assert.Panics(t, func() { tbl.SetColumn("Stations", []Value{Null()}) })
}

func TestValueRendering(t *testing.T) {
	assert.Equal(t, "", Null().String())
	assert.Equal(t, "3.5", Number(3.5).String())
	assert.Equal(t, "1500000000", Number(1.5e9).String())

	b, err := Number(2).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "2", string(b))

	b, err = Null().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestParseVisited(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want Visited
	}{
		{"yes text", Text("Yes"), VisitedYes},
		{"single letter", Text("y"), VisitedYes},
		{"no text", Text("no"), VisitedNo},
		{"false text", Text("FALSE"), VisitedNo},
		{"numeric one", Number(1), VisitedYes},
		{"numeric zero", Number(0), VisitedNo},
		{"null", Null(), VisitedUnknown},
		{"unrecognized", Text("maybe"), VisitedUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVisited(tt.in))
		})
	}
}
