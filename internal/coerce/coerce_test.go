package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/schema"
)

func texts(ss ...string) []domain.Value {
	out := make([]domain.Value, len(ss))
	for i, s := range ss {
		if s == "" {
			out[i] = domain.Null()
			continue
		}
		out[i] = domain.Text(s)
	}
	return out
}

func number(t *testing.T, v domain.Value) float64 {
	t.Helper()
	f, ok := v.Float()
	require.True(t, ok, "expected a number, got %q", v.String())
	return f
}

func TestColumnRidership(t *testing.T) {
	t.Run("billion and million scale and truncate", func(t *testing.T) {
		got, failed := Column(texts("4.03 billion", "2.5 million", "1,100 million"), schema.ColAnnualRidership)

		require.Empty(t, failed)
		assert.Equal(t, 4.03e9, number(t, got[0]))
		assert.Equal(t, 2.5e6, number(t, got[1]))
		assert.Equal(t, 1.1e9, number(t, got[2]))
	})

	t.Run("parenthetical notes are stripped", func(t *testing.T) {
		got, failed := Column(texts("1,234,567 (2019 data)"), schema.ColAnnualRidership)

		require.Empty(t, failed)
		assert.Equal(t, 1234567.0, number(t, got[0]))
	})

	t.Run("unconvertible values become null without failure report", func(t *testing.T) {
		got, failed := Column(texts("no data"), schema.ColAnnualRidership)

		assert.Empty(t, failed)
		assert.True(t, got[0].IsNull())
	})
}

func TestColumnDistanceAndCoordinates(t *testing.T) {
	t.Run("unit suffixes and parentheses", func(t *testing.T) {
		got, failed := Column(texts("245.5 miles", "(250 mi)", "402 km", "245.5"), schema.ColTotalMiles)

		require.Empty(t, failed)
		assert.Equal(t, 245.5, number(t, got[0]))
		assert.Equal(t, 250.0, number(t, got[1]))
		// km values keep their magnitude; no unit conversion happens.
		assert.Equal(t, 402.0, number(t, got[2]))
		assert.Equal(t, 245.5, number(t, got[3]))
	})

	t.Run("non-breaking spaces are tolerated", func(t *testing.T) {
		got, failed := Column(texts("245.5 miles"), schema.ColTotalMiles)

		require.Empty(t, failed)
		assert.Equal(t, 245.5, number(t, got[0]))
	})

	t.Run("signed coordinates", func(t *testing.T) {
		got, failed := Column(texts("-73.98", "+40.75"), schema.ColLongitude)

		require.Empty(t, failed)
		assert.Equal(t, -73.98, number(t, got[0]))
		assert.Equal(t, 40.75, number(t, got[1]))
	})
}

func TestColumnLastMajorUpdate(t *testing.T) {
	got, failed := Column(texts("2019", "March 2021", "2021-05-01", "soon"), schema.ColLastMajorUpdate)

	assert.Empty(t, failed)
	assert.Equal(t, 2019.0, number(t, got[0]))
	assert.Equal(t, 2021.0, number(t, got[1]))
	assert.Equal(t, 2021.0, number(t, got[2]))
	assert.True(t, got[3].IsNull())
}

func TestColumnGeneric(t *testing.T) {
	t.Run("thousand separators", func(t *testing.T) {
		got, failed := Column(texts("1,234", "12"), schema.ColStations)

		require.Empty(t, failed)
		assert.Equal(t, 1234.0, number(t, got[0]))
		assert.Equal(t, 12.0, number(t, got[1]))
	})

	t.Run("annotations after the number", func(t *testing.T) {
		got, failed := Column(texts("245.5 (approx)"), schema.ColStations)

		require.Empty(t, failed)
		assert.Equal(t, 245.5, number(t, got[0]))
	})

	t.Run("null tokens are missing not failing", func(t *testing.T) {
		got, failed := Column(texts("N/A", "nan", "NaT", "<NA>", "None"), schema.ColNumberOfLines)

		assert.Empty(t, failed)
		for _, v := range got {
			assert.True(t, v.IsNull())
		}
	})

	t.Run("failures report at most three distinct values", func(t *testing.T) {
		got, failed := Column(
			texts("many", "several", "many", "lots", "few"),
			schema.ColNumberOfLines,
		)

		assert.Equal(t, []string{"many", "several", "lots"}, failed)
		for _, v := range got {
			assert.True(t, v.IsNull())
		}
	})

	t.Run("numeric cells pass through", func(t *testing.T) {
		got, failed := Column([]domain.Value{domain.Number(42)}, schema.ColStations)

		require.Empty(t, failed)
		assert.Equal(t, 42.0, number(t, got[0]))
	})
}
