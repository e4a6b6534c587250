// Package coerce converts free-text spreadsheet cells into numbers.
// Source sheets mix formats freely: thousand separators, unit suffixes,
// "4.03 billion", parenthetical notes, and dates where a year is wanted.
package coerce

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/schema"
)

const maxReportedFailures = 3

var (
	billionRe = regexp.MustCompile(`(?i)([\d,]+\.?\d*)\s*billion`)
	millionRe = regexp.MustCompile(`(?i)([\d,]+\.?\d*)\s*million`)
	parensRe  = regexp.MustCompile(`\([^)]*\)`)
	yearRe    = regexp.MustCompile(`\d{4}`)

	// Grouped number with optional sign, thousand separators, and
	// decimals, e.g. "1,234,567.8" or "-12.5".
	numberRe = regexp.MustCompile(`[-+]?\d{1,3}(?:,\d{3})*(?:\.\d+)?`)

	// Same number, optionally wrapped in parentheses and followed by a
	// distance unit, e.g. "(250 mi)" or "245.5 km".
	distanceRe = regexp.MustCompile(`(?i)\(?\s*([-+]?\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s*(?:mi|miles?|km|kilometers?)?\s*\)?`)
)

// nullTokens are cell texts treated as missing rather than failing.
var nullTokens = map[string]bool{
	"nan": true, "None": true, "": true, "NaT": true, "<NA>": true, "N/A": true,
}

// Column converts one column's cells to numbers using the extraction
// rules for the named canonical column. It returns the converted cells
// and up to three distinct original values that could not be converted.
// Null cells, null-like tokens, and cells that are already numbers never
// count as failures.
func Column(cells []domain.Value, column string) ([]domain.Value, []string) {
	out := make([]domain.Value, len(cells))
	var failed []string
	seen := make(map[string]bool)

	for i, cell := range cells {
		if cell.IsNull() || cell.IsNumber() {
			out[i] = cell
			continue
		}
		raw := cell.String()
		if nullTokens[strings.TrimSpace(raw)] {
			out[i] = domain.Null()
			continue
		}
		if f, ok := extract(strings.TrimSpace(raw), column); ok {
			out[i] = domain.Number(f)
			continue
		}
		out[i] = domain.Null()
		if !seen[raw] && len(failed) < maxReportedFailures {
			seen[raw] = true
			failed = append(failed, raw)
		}
	}
	return out, failed
}

// extract pulls a number out of free text using the column's rules.
func extract(val, column string) (float64, bool) {
	switch column {
	case schema.ColAnnualRidership:
		if m := billionRe.FindStringSubmatch(val); m != nil {
			return scaled(m[1], 1e9)
		}
		if m := millionRe.FindStringSubmatch(val); m != nil {
			return scaled(m[1], 1e6)
		}
		val = strings.TrimSpace(parensRe.ReplaceAllString(val, ""))
		return parseMatch(numberRe.FindString(val))

	case schema.ColTotalMiles, schema.ColLatitude, schema.ColLongitude:
		val = strings.ReplaceAll(val, " ", " ")
		if m := distanceRe.FindStringSubmatch(val); m != nil {
			return parseMatch(m[1])
		}
		return parseMatch(numberRe.FindString(val))

	case schema.ColLastMajorUpdate:
		return parseMatch(yearRe.FindString(val))

	default:
		val = parensRe.ReplaceAllString(val, "")
		return parseMatch(numberRe.FindString(val))
	}
}

// scaled parses a grouped number and multiplies it by factor, truncating
// to a whole count ("4.03 billion" riders is 4,030,000,000, not a
// fraction).
func scaled(digits string, factor float64) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return math.Trunc(f * factor), true
}

func parseMatch(match string) (float64, bool) {
	if match == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
