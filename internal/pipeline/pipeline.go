// Package pipeline validates and cleans raw subway system tables.
//
// A run filters out non-data rows, maps headers onto the canonical
// schema, checks required columns, backfills SYSTEM_ID, and coerces the
// numeric columns. Problems split two ways: fatal conditions (missing
// CITY or COUNTRY, empty input) abort the run with an error, everything
// else degrades to null cells plus an advisory issue.
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/metroatlas/metroatlas-server/internal/coerce"
	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/errors"
	"github.com/metroatlas/metroatlas-server/internal/logger"
	"github.com/metroatlas/metroatlas-server/internal/schema"
)

// exemptColumns never report coercion failures; these columns are known
// to carry prose in real sheets and silently null instead.
var exemptColumns = map[string]bool{
	schema.ColAnnualRidership: true,
	schema.ColLastMajorUpdate: true,
}

// Result is the outcome of a successful pipeline run.
type Result struct {
	Table  *domain.Table
	Issues []domain.Issue
}

// Pipeline cleans raw tables into the canonical schema.
type Pipeline struct {
	logger *logger.Logger
}

// New creates a pipeline.
func New(log *logger.Logger) *Pipeline {
	return &Pipeline{logger: log}
}

// Run validates and cleans a raw table. The input table is not modified.
// Advisory issues are ordered with cell-nulling errors first, then
// informational warnings. A nil result is returned only with a fatal
// error.
func (p *Pipeline) Run(raw *domain.Table) (*Result, error) {
	if raw == nil || len(raw.Columns()) == 0 || raw.NumRows() == 0 {
		return nil, errors.InvalidData("the sheet contains no data rows")
	}

	table := raw.Clone()
	var errorIssues, warnIssues []domain.Issue

	// Rows whose Sequence cell is not numeric are section headers or
	// notes; drop them before any cleaning.
	if table.Has(schema.SequenceHeader) {
		seq := table.Column(schema.SequenceHeader)
		removed := table.Filter(func(row int) bool {
			return isNumericCell(seq[row])
		})
		if removed > 0 {
			warnIssues = append(warnIssues, domain.Issue{
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("Filtered out %d row(s) with non-numeric 'Sequence' values.", removed),
			})
		}
		if table.NumRows() == 0 {
			return nil, errors.InvalidData("the sheet contains no data rows")
		}
	}

	// Map headers onto the canonical schema. On a rename collision the
	// earlier column wins and the later one is dropped with an issue;
	// silent data loss is worse than a noisy rename.
	mapping := schema.BuildMapping(table.Columns())
	for _, c := range table.Rename(mapping) {
		errorIssues = append(errorIssues, domain.Issue{
			Severity: domain.SeverityError,
			Column:   c.Target,
			Message: fmt.Sprintf("Column '%s' was dropped: it maps to '%s', which is already taken by another column.",
				c.Dropped, c.Target),
		})
	}

	if missing := missingRequired(table); len(missing) > 0 {
		return nil, errors.InvalidDataWithDetails(
			fmt.Sprintf("Missing required columns: %s. CITY and COUNTRY are required for geocoding.",
				strings.Join(missing, ", ")),
			missing,
		)
	}

	warnIssues = append(warnIssues, backfillSystemID(table)...)

	for _, col := range schema.NumericColumns {
		if !table.Has(col) {
			continue
		}
		converted, failed := coerce.Column(table.Column(col), col)
		table.SetColumn(col, converted)
		if len(failed) > 0 && !exemptColumns[col] {
			errorIssues = append(errorIssues, domain.Issue{
				Severity: domain.SeverityError,
				Column:   col,
				Message: fmt.Sprintf("Column '%s': Could not convert values to numeric. Example failing values: %v",
					col, failed),
			})
		}
	}

	issues := append(errorIssues, warnIssues...)
	p.logger.Info("pipeline run complete",
		"rows", table.NumRows(),
		"columns", len(table.Columns()),
		"issues", len(issues),
	)

	return &Result{Table: table, Issues: issues}, nil
}

// Hash computes the content hash of raw upload bytes, used as the
// dataset version tag.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// missingRequired returns the fatal subset of absent required columns.
// SYSTEM_ID is derivable and never fatal on its own.
func missingRequired(table *domain.Table) []string {
	var missing []string
	for _, col := range schema.RequiredColumns {
		if !table.Has(col) {
			missing = append(missing, col)
		}
	}
	if slices.Contains(missing, schema.ColCity) || slices.Contains(missing, schema.ColCountry) {
		return missing
	}
	return nil
}

// backfillSystemID derives SYSTEM_ID from CITY and COUNTRY when the
// column is absent or entirely null. Derived IDs are uppercased
// city_country with spaces turned into underscores; duplicates are kept
// as-is and reported.
func backfillSystemID(table *domain.Table) []domain.Issue {
	if table.Has(schema.ColSystemID) && !allNull(table.Column(schema.ColSystemID)) {
		return nil
	}

	ids := make([]domain.Value, table.NumRows())
	counts := make(map[string]int)
	for i := range ids {
		city := strings.TrimSpace(table.Cell(schema.ColCity, i).String())
		country := strings.TrimSpace(table.Cell(schema.ColCountry, i).String())
		id := strings.ToUpper(city + "_" + country)
		id = strings.ReplaceAll(id, " ", "_")
		ids[i] = domain.Text(id)
		counts[id]++
	}

	if table.Has(schema.ColSystemID) {
		table.SetColumn(schema.ColSystemID, ids)
	} else {
		table.AddColumn(schema.ColSystemID, ids)
	}

	var dupes []string
	for id, n := range counts {
		if n > 1 {
			dupes = append(dupes, id)
		}
	}
	if len(dupes) == 0 {
		return nil
	}
	slices.Sort(dupes)
	return []domain.Issue{{
		Severity: domain.SeverityWarning,
		Column:   schema.ColSystemID,
		Message: fmt.Sprintf("Derived SYSTEM_ID values are not unique: %s. Rows are kept as-is.",
			strings.Join(dupes, ", ")),
	}}
}

func isNumericCell(v domain.Value) bool {
	if v.IsNull() {
		return false
	}
	if v.IsNumber() {
		return true
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
	return err == nil
}

func allNull(cells []domain.Value) bool {
	for _, c := range cells {
		if !c.IsNull() {
			return false
		}
	}
	return true
}
