package xl

// Cell is a single value to be written to a sheet together with its
// formatting.
type Cell struct {
	Value any      // string, bool, any integer or float kind, time.Time or nil
	Type  CellType // CellTypeUnset infers the type from Value
	Style
}

// CellType is the type of cell value type.
type CellType int

// Cell value types enumeration.
const (
	CellTypeUnset CellType = iota
	CellTypeString
	CellTypeNumber
	CellTypeBool
	CellTypeDate
)

func (t CellType) String() string {
	switch t {
	case CellTypeUnset:
		return "unset"
	case CellTypeString:
		return "string"
	case CellTypeNumber:
		return "number"
	case CellTypeBool:
		return "bool"
	case CellTypeDate:
		return "date"
	}
	return "unknown"
}

// Str returns a string cell.
func Str(v string) Cell {
	return Cell{Value: v, Type: CellTypeString}
}

// Num returns a numeric cell.
func Num(v float64) Cell {
	return Cell{Value: v, Type: CellTypeNumber}
}

// Bool returns a boolean cell.
func Bool(v bool) Cell {
	return Cell{Value: v, Type: CellTypeBool}
}
