// Package color provides the marker palettes for the map view.
package color

import "github.com/metroatlas/metroatlas-server/internal/domain"

// RGBA is a map marker color with 0-255 components.
type RGBA [4]uint8

// Marker palettes. Values are tuned for readability against a light
// basemap; gray marks rows with missing data in the active dimension.
var (
	// DefaultPoint is used when no color dimension is selected.
	DefaultPoint = RGBA{100, 149, 237, 200} // royal blue

	visitedYes     = RGBA{152, 223, 138, 255} // soft green
	visitedNo      = RGBA{255, 182, 193, 255} // soft red
	visitedUnknown = RGBA{128, 128, 128, 150}

	openedPre1985 = RGBA{255, 218, 185, 255} // soft orange
	openedModern  = RGBA{100, 149, 237, 255} // royal blue
	openedUnknown = RGBA{128, 128, 128, 150}
)

// openedEraCutoff splits systems into the pre-1985 and 1985+ buckets.
const openedEraCutoff = 1985

// ForVisited returns the marker color for a visited state.
func ForVisited(v domain.Visited) RGBA {
	switch v {
	case domain.VisitedYes:
		return visitedYes
	case domain.VisitedNo:
		return visitedNo
	default:
		return visitedUnknown
	}
}

// ForOpenedYear buckets an opening year into the era palette. Null years
// get the unknown color.
func ForOpenedYear(year domain.Value) RGBA {
	y, ok := year.Float()
	if !ok {
		return openedUnknown
	}
	if y < openedEraCutoff {
		return openedPre1985
	}
	return openedModern
}

// OpenedEra names the era bucket for an opening year, for legends and
// tooltips.
func OpenedEra(year domain.Value) string {
	y, ok := year.Float()
	if !ok {
		return "unknown"
	}
	if y < openedEraCutoff {
		return "pre-1985"
	}
	return "1985+"
}
