package ingest

import (
	"bytes"
	"encoding/csv"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/errors"
)

// ReadCSV reads CSV bytes into a raw table. The first record is the
// header; ragged rows are tolerated the same way the XLSX reader
// tolerates short rows.
func ReadCSV(data []byte) (*domain.Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidData, "the file is not readable CSV")
	}
	if len(records) == 0 {
		return nil, errors.InvalidData("the file contains no data rows")
	}

	return tableFromRaw(records[0], records[1:]), nil
}
