package domain

import "time"

// IssueSeverity separates blocking validation failures from advisory ones.
type IssueSeverity string

const (
	// SeverityError marks advisory issues where cell data was nulled or
	// dropped. Fatal conditions never appear as issues; they abort
	// processing with an error instead.
	SeverityError IssueSeverity = "error"

	// SeverityWarning marks purely informational issues.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one validation finding, surfaced to the user alongside the
// cleaned table.
type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Column   string        `json:"column,omitempty"`
	Message  string        `json:"message"`
}

// Dataset is a cleaned table together with its identity: where it came
// from and the content hash of the raw upload bytes that names this
// version of the data. Version is a cache tag; in-place enrichment such
// as geocoder coordinate backfill does not change it.
type Dataset struct {
	ID        string    `json:"id"`
	Version   string    `json:"version"`
	Source    string    `json:"source"`
	Sheet     string    `json:"sheet,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Table  *Table  `json:"-"`
	Issues []Issue `json:"issues"`
}

// ErrorIssues returns only the blocking issues.
func ErrorIssues(issues []Issue) []Issue {
	var out []Issue
	for _, is := range issues {
		if is.Severity == SeverityError {
			out = append(out, is)
		}
	}
	return out
}
