package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/adnsv/go-xlsxwrite/xl"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// document is the input accepted by the command, in JSON or YAML.
type document struct {
	FontFamily  string     `json:"fontFamily" yaml:"fontFamily"`
	FontSize    float64    `json:"fontSize" yaml:"fontSize"`
	DateFormat  string     `json:"dateFormat" yaml:"dateFormat"`
	HeaderStyle *styleDoc  `json:"headerStyle" yaml:"headerStyle"`
	Sheets      []sheetDoc `json:"sheets" yaml:"sheets"`
}

type sheetDoc struct {
	Name          string    `json:"name" yaml:"name"`
	StickyRows    int       `json:"stickyRows" yaml:"stickyRows"`
	StickyColumns int       `json:"stickyColumns" yaml:"stickyColumns"`
	Orientation   string    `json:"orientation" yaml:"orientation"`
	ColumnWidths  []float32 `json:"columnWidths" yaml:"columnWidths"`

	// schema mode
	Columns []columnDoc      `json:"columns" yaml:"columns"`
	Records []map[string]any `json:"records" yaml:"records"`

	// raw mode, a cell is either a bare value or an object with a value
	// and style attributes
	Rows [][]any `json:"rows" yaml:"rows"`
}

type columnDoc struct {
	Name  string   `json:"name" yaml:"name"`
	Key   string   `json:"key" yaml:"key"` // record field, defaults to Name
	Type  string   `json:"type" yaml:"type"`
	Width float32  `json:"width" yaml:"width"`
	Style styleDoc `json:"style" yaml:"style"`
}

type styleDoc struct {
	FontWeight      string `json:"fontWeight" yaml:"fontWeight"`
	Color           string `json:"color" yaml:"color"`
	BackgroundColor string `json:"backgroundColor" yaml:"backgroundColor"`
	Align           string `json:"align" yaml:"align"`
	AlignVertical   string `json:"alignVertical" yaml:"alignVertical"`
	Wrap            bool   `json:"wrap" yaml:"wrap"`
	Format          string `json:"format" yaml:"format"`
}

type cellDoc struct {
	Value any    `json:"value"`
	Type  string `json:"type"`
	styleDoc
}

func (s *styleDoc) style() xl.Style {
	return xl.Style{
		FontWeight:      xl.FontWeight(s.FontWeight),
		Color:           s.Color,
		BackgroundColor: s.BackgroundColor,
		Align:           xl.HAlign(s.Align),
		AlignVertical:   xl.VAlign(s.AlignVertical),
		Wrap:            s.Wrap,
		Format:          s.Format,
	}
}

func decodeDocument(blob []byte, format string) (*document, error) {
	doc := &document{}
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(blob, doc)
	case "yaml", "yml":
		err = yaml.Unmarshal(blob, doc)
	default:
		return nil, fmt.Errorf("unknown input format '%s'", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s input: %w", format, err)
	}
	return doc, nil
}

func parseCellType(s string) (xl.CellType, error) {
	switch strings.ToLower(s) {
	case "":
		return xl.CellTypeUnset, nil
	case "string":
		return xl.CellTypeString, nil
	case "number":
		return xl.CellTypeNumber, nil
	case "bool", "boolean":
		return xl.CellTypeBool, nil
	case "date":
		return xl.CellTypeDate, nil
	}
	return xl.CellTypeUnset, fmt.Errorf("%w: '%s'", xl.ErrUnsupportedCellType, s)
}

// coerce converts decoded text to a time for date cells, other values are
// passed through for the encoder to check.
func coerce(v any, typ xl.CellType) any {
	s, ok := v.(string)
	if !ok || typ != xl.CellTypeDate {
		return v
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return v
}

// workbook converts the document into a workbook.
func (doc *document) workbook() (*xl.Workbook, error) {
	wb := xl.NewWorkbook()
	wb.Font = xl.Font{Family: doc.FontFamily, Size: doc.FontSize}
	wb.DateFormat = doc.DateFormat
	if doc.HeaderStyle != nil {
		hs := doc.HeaderStyle.style()
		wb.HeaderStyle = &hs
	}

	for i := range doc.Sheets {
		sd := &doc.Sheets[i]
		data, err := sd.data()
		if err != nil {
			return nil, fmt.Errorf("sheet %d: %w", i+1, err)
		}
		sh, err := wb.AddSheet(sd.Name, data)
		if err != nil {
			return nil, err
		}
		sh.StickyRows = sd.StickyRows
		sh.StickyColumns = sd.StickyColumns
		sh.Orientation = xl.Orientation(sd.Orientation)
		for n, w := range sd.ColumnWidths {
			sh.SetColumnWidth(n+1, w)
		}
	}
	return wb, nil
}

func (sd *sheetDoc) data() (xl.SheetData, error) {
	switch {
	case len(sd.Columns) > 0 && len(sd.Rows) > 0:
		return nil, fmt.Errorf("%w: columns and rows are mutually exclusive", xl.ErrInvalidSchema)
	case len(sd.Columns) > 0:
		return sd.records()
	case len(sd.Records) > 0:
		return nil, fmt.Errorf("%w: records without columns", xl.ErrInvalidSchema)
	}
	return sd.rows()
}

func (sd *sheetDoc) records() (xl.SheetData, error) {
	rs := xl.Records[map[string]any]{
		Items: sd.Records,
	}
	for _, cd := range sd.Columns {
		typ, err := parseCellType(cd.Type)
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", cd.Name, err)
		}
		key := cd.Key
		if key == "" {
			key = cd.Name
		}
		rs.Columns = append(rs.Columns, xl.Column[map[string]any]{
			Name: cd.Name,
			Type: typ,
			Value: func(rec map[string]any) any {
				return coerce(rec[key], typ)
			},
			Style: cd.Style.style(),
			Width: cd.Width,
		})
	}
	return rs, nil
}

func (sd *sheetDoc) rows() (xl.SheetData, error) {
	rows := make(xl.Rows, len(sd.Rows))
	for i, r := range sd.Rows {
		rows[i] = make([]xl.Cell, len(r))
		for j, v := range r {
			c, err := decodeCell(v)
			if err != nil {
				return nil, fmt.Errorf("row %d, cell %d: %w", i+1, j+1, err)
			}
			rows[i][j] = c
		}
	}
	return rows, nil
}

func decodeCell(v any) (xl.Cell, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return xl.Cell{Value: v}, nil
	}
	blob, err := json.Marshal(m)
	if err != nil {
		return xl.Cell{}, err
	}
	var cd cellDoc
	if err = json.Unmarshal(blob, &cd); err != nil {
		return xl.Cell{}, err
	}
	typ, err := parseCellType(cd.Type)
	if err != nil {
		return xl.Cell{}, err
	}
	return xl.Cell{
		Value: coerce(cd.Value, typ),
		Type:  typ,
		Style: cd.style(),
	}, nil
}
