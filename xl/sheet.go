package xl

import "fmt"

type Sheet struct {
	Name string
	Data SheetData
	SheetOptions

	Columns map[int]*ColumnLayout // 1-based
}

// ColumnLayout holds the presentation attributes of a worksheet column.
type ColumnLayout struct {
	Width float32
}

// SheetOptions are the sheet-level view and print settings. The zero value
// produces no markup.
type SheetOptions struct {
	StickyRows    int // number of frozen rows at the top
	StickyColumns int // number of frozen columns at the left
	Orientation   Orientation
}

// Orientation is the page orientation used when printing.
type Orientation string

const (
	OrientationDefault   Orientation = ""
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// SetColumnWidth sets the width of a 1-based column, a non-positive width
// resets it to the default.
func (s *Sheet) SetColumnWidth(colNumber int, w float32) {
	if colNumber <= 0 {
		return
	}
	if s.Columns == nil {
		s.Columns = map[int]*ColumnLayout{}
	}
	if w <= 0.0 {
		delete(s.Columns, colNumber)
	} else {
		c, exists := s.Columns[colNumber]
		if !exists {
			c = &ColumnLayout{
				Width: w,
			}
		} else {
			c.Width = w
		}
		s.Columns[colNumber] = c
	}
}

// SheetData is the content of a sheet: either Rows, a matrix of cells, or
// Records, a list of items projected through a column schema.
type SheetData interface {
	grid(header Style) (*sheetGrid, error)
}

type sheetGrid struct {
	rows   [][]Cell
	widths map[int]float32 // 1-based column number to width
}

// Rows is raw sheet content, every cell carries its own style.
type Rows [][]Cell

func (rr Rows) grid(Style) (*sheetGrid, error) {
	if len(rr) > MaxRows {
		return nil, fmt.Errorf("%w: %d rows, at most %d allowed", ErrGridBoundsExceeded, len(rr), MaxRows)
	}
	for i, r := range rr {
		if len(r) > MaxColumns {
			return nil, fmt.Errorf("%w: row %d has %d columns, at most %d allowed", ErrGridBoundsExceeded, i+1, len(r), MaxColumns)
		}
	}
	return &sheetGrid{rows: rr}, nil
}

// Column is one entry of a record schema.
type Column[T any] struct {
	Name  string      // header text
	Type  CellType    // CellTypeUnset infers the type from the projected value
	Value func(T) any // projects an item to the cell value
	Style Style       // applied to every data cell of the column
	Width float32     // 0 = default width
}

// Records is schema-driven sheet content: a bold header row with the column
// names followed by one row per item.
type Records[T any] struct {
	Columns []Column[T]
	Items   []T
}

func (rs Records[T]) grid(header Style) (*sheetGrid, error) {
	if len(rs.Columns) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInvalidSchema)
	}
	for i, c := range rs.Columns {
		if c.Value == nil {
			return nil, fmt.Errorf("%w: column %d (%q) has no value function", ErrInvalidSchema, i+1, c.Name)
		}
	}
	if len(rs.Columns) > MaxColumns {
		return nil, fmt.Errorf("%w: %d columns, at most %d allowed", ErrGridBoundsExceeded, len(rs.Columns), MaxColumns)
	}
	if len(rs.Items)+1 > MaxRows {
		return nil, fmt.Errorf("%w: %d rows, at most %d allowed", ErrGridBoundsExceeded, len(rs.Items)+1, MaxRows)
	}

	g := &sheetGrid{
		rows:   make([][]Cell, 0, len(rs.Items)+1),
		widths: map[int]float32{},
	}

	hr := make([]Cell, len(rs.Columns))
	for i, c := range rs.Columns {
		hr[i] = Cell{Value: c.Name, Type: CellTypeString, Style: header}
		if c.Width > 0 {
			g.widths[i+1] = c.Width
		}
	}
	g.rows = append(g.rows, hr)

	for _, item := range rs.Items {
		r := make([]Cell, len(rs.Columns))
		for i, c := range rs.Columns {
			r[i] = Cell{Value: c.Value(item), Type: c.Type, Style: c.Style}
		}
		g.rows = append(g.rows, r)
	}
	return g, nil
}
