package domain

import (
	"encoding/json"
	"strconv"
)

type valueKind uint8

const (
	kindNull valueKind = iota
	kindText
	kindNumber
)

// Value is a single table cell. A cell is either null, free text, or a
// number; cleaned numeric columns contain only null and number cells.
type Value struct {
	kind valueKind
	num  float64
	text string
}

// Null returns the null cell value.
func Null() Value {
	return Value{}
}

// Text returns a text cell. The empty string is not a valid text cell;
// callers map it to Null before building a table.
func Text(s string) Value {
	return Value{kind: kindText, text: s}
}

// Number returns a numeric cell.
func Number(f float64) Value {
	return Value{kind: kindNumber, num: f}
}

// IsNull reports whether the cell is null.
func (v Value) IsNull() bool {
	return v.kind == kindNull
}

// IsNumber reports whether the cell holds a number.
func (v Value) IsNumber() bool {
	return v.kind == kindNumber
}

// Float returns the numeric value of the cell. ok is false for null and
// text cells.
func (v Value) Float() (f float64, ok bool) {
	if v.kind != kindNumber {
		return 0, false
	}
	return v.num, true
}

// String renders the cell for display and hashing. Null renders as the
// empty string; numbers render with the shortest exact representation.
func (v Value) String() string {
	switch v.kind {
	case kindText:
		return v.text
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// MarshalJSON encodes null cells as JSON null, numbers as JSON numbers,
// and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindText:
		return json.Marshal(v.text)
	case kindNumber:
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}
