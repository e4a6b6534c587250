package storage

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/errors"
)

// EncodeCSV renders a table as CSV with a header row. Null cells become
// empty fields.
func EncodeCSV(table *domain.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	cols := table.Columns()
	if err := w.Write(cols); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "write csv header")
	}

	record := make([]string, len(cols))
	for i := 0; i < table.NumRows(); i++ {
		for j, col := range cols {
			record[j] = table.Cell(col, i).String()
		}
		if err := w.Write(record); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "write csv row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "flush csv")
	}
	return buf.Bytes(), nil
}

// DecodeCSV parses a CSV blob back into a table. A column whose
// non-empty cells all parse as numbers is restored as numeric, so a
// round trip through the store preserves cell kinds.
func DecodeCSV(data []byte) (*domain.Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidData, "the stored blob is not readable CSV")
	}
	if len(records) == 0 {
		return nil, errors.InvalidData("the stored blob is empty")
	}

	table := domain.FromRows(records[0], records[1:])
	for _, col := range table.Columns() {
		restoreNumbers(table, col)
	}
	return table, nil
}

func restoreNumbers(table *domain.Table, col string) {
	cells := table.Column(col)
	parsed := make([]domain.Value, len(cells))
	for i, cell := range cells {
		if cell.IsNull() {
			parsed[i] = cell
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(cell.String()), 64)
		if err != nil {
			return
		}
		parsed[i] = domain.Number(f)
	}
	table.SetColumn(col, parsed)
}
