package schema

import (
	"strings"
	"unicode"
)

// NormalizeHeader converts an arbitrary header to ALL_CAPS_WITH_UNDERSCORES.
//
// Normalization rules:
//  1. Trim whitespace
//  2. Replace spaces with underscores
//  3. Replace remaining non-alphanumeric runes with underscores
//  4. Uppercase
//  5. Collapse consecutive underscores
//  6. Trim leading/trailing underscores
//
// Examples:
//
//	"System length   miles" → "SYSTEM_LENGTH_MILES"
//	"Ridden?"               → "RIDDEN"
//	"  Annual Ridership "   → "ANNUAL_RIDERSHIP"
func NormalizeHeader(header string) string {
	s := strings.TrimSpace(header)

	s = strings.ReplaceAll(s, " ", "_")

	s = strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)

	s = strings.ToUpper(s)

	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}

	return strings.Trim(s, "_")
}

// BuildMapping computes the rename mapping for a set of raw headers.
//
// Canonical variants claim their slot first; per canonical column only the
// first variant present maps. Every other header then falls back to
// NormalizeHeader, but only renames when the normalized form differs from
// the original, the header is not on the ignore list, and the normalized
// name is not already a mapping target. Headers that map to nothing keep
// their original names; the mapping renames, it never drops.
func BuildMapping(headers []string) map[string]string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	out := make(map[string]string)
	taken := make(map[string]bool)
	for _, m := range columnMappings {
		for _, variant := range m.Variants {
			if present[variant] {
				out[variant] = m.Canonical
				taken[m.Canonical] = true
				break
			}
		}
	}

	for _, h := range headers {
		if _, mapped := out[h]; mapped {
			continue
		}
		normalized := NormalizeHeader(h)
		if normalized == h || taken[normalized] || IsIgnored(h) {
			continue
		}
		out[h] = normalized
		taken[normalized] = true
	}

	return out
}
