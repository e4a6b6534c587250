package domain

import "strings"

// Table is a column-ordered table of cells. Columns are stored by name;
// the order slice preserves the source column order for display and
// round-tripping through CSV.
type Table struct {
	order   []string
	columns map[string][]Value
	rows    int
}

// NewTable returns an empty table with no columns.
func NewTable() *Table {
	return &Table{columns: make(map[string][]Value)}
}

// FromRows builds a table from a header row and data rows, as produced by
// the spreadsheet and CSV readers. Empty cells become null. Short rows are
// padded with nulls; cells beyond the header width are discarded.
func FromRows(header []string, rows [][]string) *Table {
	t := NewTable()
	for i, name := range header {
		col := make([]Value, len(rows))
		for j, row := range rows {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				col[j] = Text(row[i])
			}
		}
		t.AddColumn(name, col)
	}
	return t
}

// Columns returns the column names in table order. The returned slice is
// shared; callers must not modify it.
func (t *Table) Columns() []string {
	return t.order
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return t.rows
}

// Has reports whether a column with the given name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the cells of the named column, or nil if absent.
func (t *Table) Column(name string) []Value {
	return t.columns[name]
}

// Cell returns the cell at the named column and row index. Out-of-range
// access returns null.
func (t *Table) Cell(name string, row int) Value {
	col := t.columns[name]
	if row < 0 || row >= len(col) {
		return Null()
	}
	return col[row]
}

// AddColumn appends a column. Adding a name that already exists replaces
// its cells in place without changing column order. The first column added
// fixes the table's row count; later columns are padded or truncated to it.
func (t *Table) AddColumn(name string, cells []Value) {
	if len(t.order) == 0 {
		t.rows = len(cells)
	}
	cells = fitLength(cells, t.rows)
	if _, ok := t.columns[name]; !ok {
		t.order = append(t.order, name)
	}
	t.columns[name] = cells
}

// SetColumn replaces the cells of an existing column. It panics if the
// column does not exist or the length does not match the row count;
// both indicate a programming error in the pipeline.
func (t *Table) SetColumn(name string, cells []Value) {
	if _, ok := t.columns[name]; !ok {
		panic("table: SetColumn on missing column " + name)
	}
	if len(cells) != t.rows {
		panic("table: SetColumn length mismatch for " + name)
	}
	t.columns[name] = cells
}

// Collision records a column dropped during Rename together with the
// target name it collided with.
type Collision struct {
	Dropped string
	Target  string
}

// Rename applies a header rename mapping. Columns are visited in table
// order; when a rename would produce a name that is already present in the
// result, the later column is dropped and reported as a collision. Names
// without a mapping entry are kept unchanged.
func (t *Table) Rename(mapping map[string]string) (collisions []Collision) {
	out := NewTable()
	for _, name := range t.order {
		target := name
		if to, ok := mapping[name]; ok {
			target = to
		}
		if out.Has(target) {
			collisions = append(collisions, Collision{Dropped: name, Target: target})
			continue
		}
		out.AddColumn(target, t.columns[name])
	}
	*t = *out
	return collisions
}

// Filter keeps only the rows for which keep returns true, preserving
// order. It returns the number of rows removed.
func (t *Table) Filter(keep func(row int) bool) int {
	idx := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	removed := t.rows - len(idx)
	if removed == 0 {
		return 0
	}
	for name, col := range t.columns {
		next := make([]Value, len(idx))
		for j, i := range idx {
			next[j] = col[i]
		}
		t.columns[name] = next
	}
	t.rows = len(idx)
	return removed
}

// Row returns the cells of one row in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.order))
	for j, name := range t.order {
		row[j] = t.Cell(name, i)
	}
	return row
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable()
	for _, name := range t.order {
		col := make([]Value, t.rows)
		copy(col, t.columns[name])
		out.AddColumn(name, col)
	}
	return out
}

func fitLength(cells []Value, n int) []Value {
	if len(cells) == n {
		return cells
	}
	out := make([]Value, n)
	copy(out, cells)
	return out
}
