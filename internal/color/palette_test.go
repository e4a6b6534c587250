package color

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metroatlas/metroatlas-server/internal/domain"
)

func TestForVisited(t *testing.T) {
	assert.Equal(t, RGBA{152, 223, 138, 255}, ForVisited(domain.VisitedYes))
	assert.Equal(t, RGBA{255, 182, 193, 255}, ForVisited(domain.VisitedNo))
	assert.Equal(t, RGBA{128, 128, 128, 150}, ForVisited(domain.VisitedUnknown))
}

func TestForOpenedYear(t *testing.T) {
	assert.Equal(t, RGBA{255, 218, 185, 255}, ForOpenedYear(domain.Number(1900)))
	assert.Equal(t, RGBA{100, 149, 237, 255}, ForOpenedYear(domain.Number(1985)))
	assert.Equal(t, RGBA{128, 128, 128, 150}, ForOpenedYear(domain.Null()))
}

func TestOpenedEra(t *testing.T) {
	assert.Equal(t, "pre-1985", OpenedEra(domain.Number(1984)))
	assert.Equal(t, "1985+", OpenedEra(domain.Number(2000)))
	assert.Equal(t, "unknown", OpenedEra(domain.Null()))
}
