// Package ingest reads uploaded spreadsheet bytes into raw tables.
// XLSX parsing is done directly on the OOXML parts (a .xlsx file is a
// ZIP of XML documents); the subset needed here is sheet discovery,
// shared strings, and row iteration.
package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/errors"
)

// Workbook is an opened XLSX file.
type Workbook struct {
	zr     *zip.Reader
	sheets []workbookSheet
	rels   map[string]string
	shared []string
}

type workbookSheet struct {
	Name    string
	SheetID int
	RID     string
}

// OpenWorkbook parses XLSX bytes. It fails when the bytes are not a
// readable workbook or the workbook declares no sheets.
func OpenWorkbook(data []byte) (*Workbook, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidData, "the file is not a readable Excel workbook")
	}

	w := &Workbook{
		zr:     zr,
		sheets: parseWorkbook(readZipFile(zr, "xl/workbook.xml")),
		rels:   parseRelationships(readZipFile(zr, "xl/_rels/workbook.xml.rels")),
		shared: parseSharedStrings(readZipFile(zr, "xl/sharedStrings.xml")),
	}
	if len(w.sheets) == 0 {
		return nil, errors.InvalidData("the workbook contains no sheets")
	}
	return w, nil
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.Name
	}
	return names
}

// ReadSheet reads the named sheet into a raw table. An empty name reads
// the first sheet. The first row becomes the header; columns with a
// blank header cell are skipped.
func (w *Workbook) ReadSheet(name string) (*domain.Table, error) {
	target := ""
	if name == "" {
		target = w.sheetPath(w.sheets[0])
	} else {
		for _, s := range w.sheets {
			if strings.EqualFold(s.Name, name) {
				target = w.sheetPath(s)
				break
			}
		}
		if target == "" {
			return nil, errors.NotFoundf("sheet %q not found in workbook", name).
				WithDetails(w.SheetNames())
		}
	}

	rr := newSheetRowReader(readZipFile(w.zr, target), w.shared)
	header, ok := rr.Next()
	if !ok {
		return nil, errors.InvalidData("the sheet contains no data rows")
	}

	var rows [][]string
	for {
		row, ok := rr.Next()
		if !ok {
			break
		}
		rows = append(rows, row)
	}

	return tableFromRaw(header, rows), nil
}

// sheetPath resolves a sheet's worksheet XML path via the relationship
// table, falling back to the conventional location.
func (w *Workbook) sheetPath(s workbookSheet) string {
	if rel, ok := w.rels[s.RID]; ok {
		return normalizeRelPath(rel)
	}
	id := s.SheetID
	if id <= 0 {
		id = 1
	}
	return "xl/worksheets/sheet" + strconv.Itoa(id) + ".xml"
}

// tableFromRaw trims header names and drops blank-header columns before
// building the table.
func tableFromRaw(header []string, rows [][]string) *domain.Table {
	var names []string
	var keep []int
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		names = append(names, header[i])
		keep = append(keep, i)
	}

	trimmed := make([][]string, len(rows))
	for j, row := range rows {
		out := make([]string, len(keep))
		for k, i := range keep {
			if i < len(row) {
				out[k] = row[i]
			}
		}
		trimmed[j] = out
	}
	return domain.FromRows(names, trimmed)
}

// parseWorkbook extracts sheet entries with names and relationship ids.
func parseWorkbook(data []byte) []workbookSheet {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sheets []workbookSheet
	for {
		tok, err := dec.Token()
		if err != nil {
			return sheets
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s workbookSheet
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.Name = a.Value
			case "sheetId":
				s.SheetID = atoiSafe(a.Value)
			case "id":
				s.RID = a.Value // in the r: namespace
			}
		}
		sheets = append(sheets, s)
	}
}

// parseRelationships returns map[r:id]Target.
func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	if len(data) == 0 {
		return out
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
}

func readZipFile(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			defer rc.Close()
			b, _ := io.ReadAll(rc)
			return b
		}
	}
	return nil
}

func parseSharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	var inT bool
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "si" {
				buf.Reset()
			}
			if se.Name.Local == "t" {
				inT = true
			}
		case xml.EndElement:
			if se.Name.Local == "t" {
				inT = false
			}
			if se.Name.Local == "si" {
				out = append(out, buf.String())
				buf.Reset()
			}
		case xml.CharData:
			if inT {
				buf.Write([]byte(se))
			}
		}
	}
}

// sheetRowReader iterates <row> elements of a worksheet, resolving
// shared-string cells.
type sheetRowReader struct {
	dec    *xml.Decoder
	shared []string
	inRow  bool
	curRow []string
	maxCol int
}

func newSheetRowReader(data []byte, shared []string) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

func (r *sheetRowReader) Next() ([]string, bool) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				r.inRow = true
				r.curRow = nil
				r.maxCol = 0
			}
			if r.inRow && se.Name.Local == "c" {
				var rAttr, tAttr string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						rAttr = a.Value
					case "t":
						tAttr = a.Value
					}
				}
				colIdx := colIndexFromRef(rAttr)
				if colIdx < 0 {
					// Cells may omit the r attribute; place them after
					// the last cell seen in this row.
					colIdx = len(r.curRow)
				}
				if colIdx+1 > r.maxCol {
					r.maxCol = colIdx + 1
				}
				val := r.readCellValue(tAttr)
				if len(r.curRow) <= colIdx {
					tmp := make([]string, colIdx+1)
					copy(tmp, r.curRow)
					r.curRow = tmp
				}
				r.curRow[colIdx] = val
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				if len(r.curRow) < r.maxCol {
					tmp := make([]string, r.maxCol)
					copy(tmp, r.curRow)
					r.curRow = tmp
				}
				r.inRow = false
				return r.curRow, true
			}
		}
	}
}

// readCellValue reads until the cell closes, capturing <v> or <is><t>
// content. Shared-string cells (t="s") are resolved through the shared
// string table.
func (r *sheetRowReader) readCellValue(tAttr string) string {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				for {
					tk, er := r.dec.Token()
					if er != nil {
						break
					}
					if ed, ok := tk.(xml.EndElement); ok && (ed.Name.Local == "v" || ed.Name.Local == "t") {
						break
					}
					if ch, ok := tk.(xml.CharData); ok {
						sb.Write([]byte(ch))
					}
				}
				val = sb.String()
			}
		case xml.EndElement:
			if se.Name.Local == "c" {
				if tAttr == "s" {
					idx := atoiSafe(val)
					if idx >= 0 && idx < len(r.shared) {
						return r.shared[idx]
					}
					return ""
				}
				return val
			}
		}
	}
}

// colIndexFromRef converts refs like "C12" to a 0-based column index.
func colIndexFromRef(ref string) int {
	i := 0
	for i < len(ref) {
		c := ref[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
			i++
			continue
		}
		break
	}
	s := strings.ToUpper(ref[:i])
	idx := 0
	for j := 0; j < len(s); j++ {
		idx = idx*26 + int(s[j]-'A'+1)
	}
	return idx - 1
}

func atoiSafe(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// normalizeRelPath converts relationship Target paths to ZIP entry
// paths. Targets may carry a leading slash or be relative to xl/.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}
