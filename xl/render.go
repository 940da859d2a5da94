package xl

import (
	"bytes"
	"fmt"

	"github.com/adnsv/srw/xml"
)

// sheetRenderer turns sheets into worksheet parts. The registries it holds
// belong to a single Assemble call.
type sheetRenderer struct {
	styles     *StyleRegistry
	strings    *SharedStrings
	header     Style
	dateFormat string
}

type renderedCell struct {
	coord string
	style int
	typ   string
	v     string
}

type renderedRow struct {
	rowNumber int
	cells     []renderedCell
}

// render validates and encodes every cell of sh before producing any markup.
func (r *sheetRenderer) render(sh *Sheet, name string) ([]byte, error) {
	if sh.Data == nil {
		return nil, fmt.Errorf("%w: sheet %q has no data", ErrInvalidSchema, name)
	}
	g, err := sh.Data.grid(r.header)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}
	if sh.StickyRows < 0 || sh.StickyRows >= MaxRows || sh.StickyColumns < 0 || sh.StickyColumns >= MaxColumns {
		return nil, fmt.Errorf("sheet %q: %w: frozen pane at %d rows, %d columns", name, ErrGridBoundsExceeded, sh.StickyRows, sh.StickyColumns)
	}

	switch sh.Orientation {
	case OrientationDefault, OrientationPortrait, OrientationLandscape:
	default:
		return nil, fmt.Errorf("sheet %q: unknown page orientation '%s'", name, sh.Orientation)
	}

	rows := make([]renderedRow, 0, len(g.rows))
	maxCol := 0
	for i, cells := range g.rows {
		rr := renderedRow{rowNumber: i + 1}
		for j := range cells {
			c := &cells[j]
			if c.Value == nil {
				continue
			}
			coord := CellCoordAsString(j+1, rr.rowNumber)
			rc, err := r.renderCell(c)
			if err != nil {
				return nil, fmt.Errorf("sheet %q cell %s: %w", name, coord, err)
			}
			rc.coord = coord
			rr.cells = append(rr.cells, rc)
			maxCol = max(maxCol, j+1)
		}
		if len(rr.cells) > 0 {
			rows = append(rows, rr)
		}
	}

	widths := map[int]float32{}
	for n, w := range g.widths {
		widths[n] = w
	}
	for n, c := range sh.Columns {
		if n < 1 || n > MaxColumns {
			return nil, fmt.Errorf("sheet %q: %w: column %d", name, ErrGridBoundsExceeded, n)
		}
		if c != nil && c.Width > 0 {
			widths[n] = c.Width
		}
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("worksheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	dim := "A1"
	if len(rows) > 0 {
		dim += ":" + CellCoordAsString(maxCol, rows[len(rows)-1].rowNumber)
	}
	x.OTag("+dimension").Attr("ref", dim).CTag()

	if sh.StickyRows > 0 || sh.StickyColumns > 0 {
		writePane(x, sh.StickyRows, sh.StickyColumns)
	}

	if len(widths) > 0 {
		x.OTag("+cols")
		enumerate(widths, func(n int, w float32) error {
			x.OTag("+col").Attr("min", n).Attr("max", n)
			x.Attr("width", w).Attr("customWidth", 1)
			x.CTag()
			return nil
		})
		x.CTag()
	}

	x.OTag("+sheetData")
	for _, row := range rows {
		x.OTag("+row").Attr("r", row.rowNumber)
		for _, c := range row.cells {
			x.OTag("+c").Attr("r", c.coord)
			if c.style != 0 {
				x.Attr("s", c.style)
			}
			if c.typ != "" {
				x.Attr("t", c.typ)
			}
			x.OTag("v").Write(c.v).CTag()
			x.CTag() // c
		}
		x.CTag() // row
	}
	x.CTag() // sheetData

	if sh.Orientation != OrientationDefault {
		x.OTag("+pageMargins")
		x.Attr("left", "0.7").Attr("right", "0.7")
		x.Attr("top", "0.75").Attr("bottom", "0.75")
		x.Attr("header", "0.3").Attr("footer", "0.3")
		x.CTag()

		// paper size 9 is A4
		x.OTag("+pageSetup")
		x.Attr("paperSize", 9)
		x.Attr("orientation", string(sh.Orientation))
		x.CTag()
	}

	x.CTag() // worksheet

	return bb.Bytes(), nil
}

func (r *sheetRenderer) renderCell(c *Cell) (renderedCell, error) {
	ev, err := encodeValue(c, r.strings)
	if err != nil {
		return renderedCell{}, err
	}
	st := c.Style
	if ev.isDate && st.Format == "" {
		st.Format = r.dateFormat
	}
	si, err := r.styles.Resolve(st)
	if err != nil {
		return renderedCell{}, err
	}
	return renderedCell{style: si, typ: ev.typ, v: ev.v}, nil
}

func writePane(x *xml.Writer, rows, cols int) {
	pane := "bottomRight"
	if cols == 0 {
		pane = "bottomLeft"
	} else if rows == 0 {
		pane = "topRight"
	}

	x.OTag("+sheetViews")
	x.OTag("+sheetView").Attr("workbookViewId", 0)

	x.OTag("+pane")
	if cols > 0 {
		x.Attr("xSplit", cols)
	}
	if rows > 0 {
		x.Attr("ySplit", rows)
	}
	x.Attr("topLeftCell", CellCoordAsString(cols+1, rows+1))
	x.Attr("activePane", pane)
	x.Attr("state", "frozen")
	x.CTag()

	x.OTag("+selection").Attr("pane", pane).CTag()

	x.CTag() // sheetView
	x.CTag() // sheetViews
}
