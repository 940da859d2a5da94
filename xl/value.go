package xl

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// DefaultDateFormat is applied to date cells that carry no number format.
const DefaultDateFormat = "yyyy-mm-dd"

const secondsPerDay = 24 * 60 * 60

// counting from here matches excel from 1900-03-01 on, earlier dates are one
// day off because excel treats 1900 as a leap year
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ExcelSerial converts t to the number of days since the Excel epoch. The
// fractional part is the time of day. The wall clock of t is used, so the
// spreadsheet shows the same date and time as t.Format does. Serial 60 is
// the nonexistent 1900-02-29 and is never produced.
func ExcelSerial(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	secs := wall.Unix() - excelEpoch.Unix()
	serial := float64(secs)/secondsPerDay + float64(wall.Nanosecond())/(secondsPerDay*1e9)
	if serial < 61 {
		serial--
	}
	return serial
}

// encodedValue is the markup-level form of a cell value.
type encodedValue struct {
	typ    string // "t" attribute, "" for numbers
	v      string
	isDate bool
}

// encodeValue determines the cell type marker and literal for c. Strings are
// interned into ss.
func encodeValue(c *Cell, ss *SharedStrings) (encodedValue, error) {
	typ := c.Type
	if typ == CellTypeUnset {
		typ = inferCellType(c.Value)
	}

	switch typ {
	case CellTypeString:
		if s, ok := c.Value.(string); ok {
			return encodedValue{typ: "s", v: strconv.Itoa(ss.Intern(s))}, nil
		}
	case CellTypeNumber:
		if v, ok := formatNumber(c.Value); ok {
			return encodedValue{v: v}, nil
		}
	case CellTypeBool:
		if b, ok := c.Value.(bool); ok {
			if b {
				return encodedValue{typ: "b", v: "1"}, nil
			}
			return encodedValue{typ: "b", v: "0"}, nil
		}
	case CellTypeDate:
		if t, ok := c.Value.(time.Time); ok {
			return encodedValue{v: formatFloat(ExcelSerial(t)), isDate: true}, nil
		}
	}
	return encodedValue{}, fmt.Errorf("%w: %T as %s", ErrUnsupportedCellType, c.Value, typ)
}

func inferCellType(v any) CellType {
	switch v.(type) {
	case string:
		return CellTypeString
	case bool:
		return CellTypeBool
	case time.Time:
		return CellTypeDate
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return CellTypeNumber
	}
	return CellTypeUnset
}

func formatNumber(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return "", false
		}
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "", false
		}
		return formatFloat(n), true
	}
	return "", false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
