package domain

import "strings"

// Visited is the tri-state answer to "has the user ridden this system":
// yes, no, or not recorded.
type Visited string

const (
	VisitedYes     Visited = "yes"
	VisitedNo      Visited = "no"
	VisitedUnknown Visited = "unknown"
)

var (
	visitedTrue  = map[string]bool{"true": true, "t": true, "yes": true, "y": true, "1": true}
	visitedFalse = map[string]bool{"false": true, "f": true, "no": true, "n": true, "0": true}
)

// ParseVisited interprets a VISITED cell. Numbers follow the usual
// convention (zero is no, anything else is yes); unrecognized text and
// null cells are unknown.
func ParseVisited(v Value) Visited {
	if v.IsNull() {
		return VisitedUnknown
	}
	if f, ok := v.Float(); ok {
		if f == 0 {
			return VisitedNo
		}
		return VisitedYes
	}
	s := strings.ToLower(strings.TrimSpace(v.String()))
	switch {
	case visitedTrue[s]:
		return VisitedYes
	case visitedFalse[s]:
		return VisitedNo
	default:
		return VisitedUnknown
	}
}
