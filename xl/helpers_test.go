package xl

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type xmlSST struct {
	Count       int      `xml:"count,attr"`
	UniqueCount int      `xml:"uniqueCount,attr"`
	Items       []string `xml:"si>t"`
}

type xmlVal struct {
	Val string `xml:"val,attr"`
}

type xmlColor struct {
	RGB   string `xml:"rgb,attr"`
	Theme string `xml:"theme,attr"`
}

type xmlStyleSheet struct {
	NumFmts []struct {
		ID   int    `xml:"numFmtId,attr"`
		Code string `xml:"formatCode,attr"`
	} `xml:"numFmts>numFmt"`
	Fonts []struct {
		B     *struct{} `xml:"b"`
		Sz    xmlVal    `xml:"sz"`
		Color xmlColor  `xml:"color"`
		Name  xmlVal    `xml:"name"`
	} `xml:"fonts>font"`
	Fills []struct {
		PatternFill struct {
			PatternType string   `xml:"patternType,attr"`
			FgColor     xmlColor `xml:"fgColor"`
		} `xml:"patternFill"`
	} `xml:"fills>fill"`
	Borders []struct{} `xml:"borders>border"`
	CellXfs []struct {
		NumFmtID  int    `xml:"numFmtId,attr"`
		FontID    int    `xml:"fontId,attr"`
		FillID    int    `xml:"fillId,attr"`
		BorderID  int    `xml:"borderId,attr"`
		ApplyFont string `xml:"applyFont,attr"`
		Alignment *struct {
			Horizontal string `xml:"horizontal,attr"`
			Vertical   string `xml:"vertical,attr"`
			WrapText   string `xml:"wrapText,attr"`
		} `xml:"alignment"`
	} `xml:"cellXfs>xf"`
}

type xmlCell struct {
	R string `xml:"r,attr"`
	S string `xml:"s,attr"`
	T string `xml:"t,attr"`
	V string `xml:"v"`
}

type xmlWorksheet struct {
	Dimension struct {
		Ref string `xml:"ref,attr"`
	} `xml:"dimension"`
	Pane *struct {
		XSplit      int    `xml:"xSplit,attr"`
		YSplit      int    `xml:"ySplit,attr"`
		TopLeftCell string `xml:"topLeftCell,attr"`
		ActivePane  string `xml:"activePane,attr"`
		State       string `xml:"state,attr"`
	} `xml:"sheetViews>sheetView>pane"`
	Cols []struct {
		Min   int     `xml:"min,attr"`
		Max   int     `xml:"max,attr"`
		Width float64 `xml:"width,attr"`
	} `xml:"cols>col"`
	Rows []struct {
		R     int       `xml:"r,attr"`
		Cells []xmlCell `xml:"c"`
	} `xml:"sheetData>row"`
	PageSetup *struct {
		PaperSize   int    `xml:"paperSize,attr"`
		Orientation string `xml:"orientation,attr"`
	} `xml:"pageSetup"`
}

type xmlWorkbook struct {
	Sheets []struct {
		Name    string `xml:"name,attr"`
		SheetID int    `xml:"sheetId,attr"`
		RID     string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sheets>sheet"`
}

type xmlRelationships struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type xmlContentTypes struct {
	Defaults []struct {
		Extension string `xml:"Extension,attr"`
	} `xml:"Default"`
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

func decodeXML(t *testing.T, blob []byte, v any) {
	t.Helper()
	require.NoError(t, xml.Unmarshal(blob, v), string(blob))
}

// childElements lists the names of the direct children of the root element.
func childElements(t *testing.T, blob []byte) []string {
	t.Helper()
	var names []string
	d := xml.NewDecoder(bytes.NewReader(blob))
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch e := tok.(type) {
		case xml.StartElement:
			if depth == 1 {
				names = append(names, e.Name.Local)
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return names
}

func mustPart(t *testing.T, p *Package, name string) []byte {
	t.Helper()
	blob, ok := p.Part(name)
	require.True(t, ok, "missing part %s", name)
	return blob
}

func sheetPart(t *testing.T, p *Package, n int) *xmlWorksheet {
	t.Helper()
	ws := &xmlWorksheet{}
	decodeXML(t, mustPart(t, p, fmt.Sprintf("xl/worksheets/sheet%d.xml", n)), ws)
	return ws
}

// recordingStorage keeps the written parts in memory.
type recordingStorage struct {
	blobs map[string][]byte
	order []string
}

func (rs *recordingStorage) WriteBlob(path string, blob []byte) error {
	if rs.blobs == nil {
		rs.blobs = map[string][]byte{}
	}
	rs.blobs[path] = blob
	rs.order = append(rs.order, path)
	return nil
}
