package xl

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleLayout(t *testing.T) {
	wb := NewWorkbook()
	_, err := wb.AddSheet("People", Rows{{Str("Alice"), Num(30)}})
	require.NoError(t, err)
	_, err = wb.AddSheet("", Rows{{Bool(true)}})
	require.NoError(t, err)

	p, err := Assemble(wb)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"[Content_Types].xml",
		"xl/workbook.xml",
		"xl/worksheets/sheet1.xml",
		"xl/worksheets/sheet2.xml",
		"xl/styles.xml",
		"xl/sharedStrings.xml",
		"xl/_rels/workbook.xml.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"_rels/.rels",
	}, p.Names())

	var book xmlWorkbook
	decodeXML(t, mustPart(t, p, "xl/workbook.xml"), &book)
	require.Len(t, book.Sheets, 2)
	assert.Equal(t, "People", book.Sheets[0].Name)
	assert.Equal(t, 1, book.Sheets[0].SheetID)
	assert.Equal(t, "rId1", book.Sheets[0].RID)
	assert.Equal(t, "Sheet2", book.Sheets[1].Name)
	assert.Equal(t, 2, book.Sheets[1].SheetID)
	assert.Equal(t, "rId2", book.Sheets[1].RID)

	var rels xmlRelationships
	decodeXML(t, mustPart(t, p, "xl/_rels/workbook.xml.rels"), &rels)
	targets := map[string]string{}
	for _, r := range rels.Rels {
		targets[r.ID] = r.Target
	}
	assert.Equal(t, map[string]string{
		"rId1": "worksheets/sheet1.xml",
		"rId2": "worksheets/sheet2.xml",
		"rId3": "styles.xml",
		"rId4": "sharedStrings.xml",
	}, targets)

	var root xmlRelationships
	decodeXML(t, mustPart(t, p, "_rels/.rels"), &root)
	require.Len(t, root.Rels, 3)
	assert.Equal(t, "xl/workbook.xml", root.Rels[0].Target)

	var ct xmlContentTypes
	decodeXML(t, mustPart(t, p, "[Content_Types].xml"), &ct)
	overrides := map[string]bool{}
	for _, o := range ct.Overrides {
		overrides[o.PartName] = true
	}
	for _, name := range p.Names() {
		if name == "[Content_Types].xml" || name == "_rels/.rels" || name == "xl/_rels/workbook.xml.rels" {
			continue
		}
		assert.True(t, overrides["/"+name], name)
	}
	assert.Len(t, ct.Defaults, 2)

	var sst xmlSST
	decodeXML(t, mustPart(t, p, "xl/sharedStrings.xml"), &sst)
	assert.Equal(t, []string{"Alice"}, sst.Items)
}

func TestAssembleSharesTablesAcrossSheets(t *testing.T) {
	wb := NewWorkbook()
	red := Style{BackgroundColor: "#FF0000"}
	_, err := wb.AddSheet("A", Rows{{{Value: "x", Style: red}}, {Str("y")}})
	require.NoError(t, err)
	_, err = wb.AddSheet("B", Rows{{Str("y")}, {{Value: "x", Style: red}}})
	require.NoError(t, err)

	p, err := Assemble(wb)
	require.NoError(t, err)

	var sst xmlSST
	decodeXML(t, mustPart(t, p, "xl/sharedStrings.xml"), &sst)
	assert.Equal(t, []string{"x", "y"}, sst.Items)

	s1 := sheetPart(t, p, 1)
	s2 := sheetPart(t, p, 2)
	assert.Equal(t, s1.Rows[0].Cells[0], xmlCell{R: "A1", S: "1", T: "s", V: "0"})
	assert.Equal(t, s2.Rows[1].Cells[0], xmlCell{R: "A2", S: "1", T: "s", V: "0"})

	var ss xmlStyleSheet
	decodeXML(t, mustPart(t, p, "xl/styles.xml"), &ss)
	assert.Len(t, ss.CellXfs, 2)
	assert.Len(t, ss.Fills, 3)
}

func TestAssembleOptions(t *testing.T) {
	wb := NewWorkbook()
	wb.Font = Font{Family: "Arial", Size: 10}
	wb.HeaderStyle = &Style{FontWeight: FontWeightBold, BackgroundColor: "#DDDDDD"}
	wb.AppName = "xlsxwrite"
	wb.Created = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	_, err := wb.AddSheet("S", Records[int]{
		Columns: []Column[int]{{Name: "N", Value: func(n int) any { return n }}},
		Items:   []int{1, 2},
	})
	require.NoError(t, err)

	p, err := Assemble(wb)
	require.NoError(t, err)

	var ss xmlStyleSheet
	decodeXML(t, mustPart(t, p, "xl/styles.xml"), &ss)
	assert.Equal(t, "Arial", ss.Fonts[0].Name.Val)
	require.Len(t, ss.CellXfs, 2)
	assert.Equal(t, 2, ss.CellXfs[1].FillID)
	assert.NotNil(t, ss.Fonts[ss.CellXfs[1].FontID].B)

	assert.Contains(t, string(mustPart(t, p, "docProps/app.xml")), "xlsxwrite")
	assert.Contains(t, string(mustPart(t, p, "docProps/core.xml")), "2024-05-06T07:08:09Z")
}

func TestAssembleIsDeterministic(t *testing.T) {
	build := func() *Package {
		wb := NewWorkbook()
		_, err := wb.AddSheet("A", Rows{{Str("a"), Num(1), {Value: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}}})
		require.NoError(t, err)
		p, err := Assemble(wb)
		require.NoError(t, err)
		return p
	}
	assert.Equal(t, build(), build())

	core := string(mustPart(t, build(), "docProps/core.xml"))
	assert.Contains(t, core, "urn:uuid:")
	assert.NotContains(t, core, "dcterms:created")
}

func TestAssembleConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wb := NewWorkbook()
			rows := Rows{}
			for j := 0; j < 50; j++ {
				rows = append(rows, []Cell{Str("row"), {Value: j, Style: Style{FontWeight: FontWeightBold}}})
			}
			wb.AddSheet("", rows)
			p, err := Assemble(wb)
			if assert.NoError(t, err) {
				results[i], _ = p.Part("xl/styles.xml")
			}
		}(i)
	}
	wg.Wait()
	for _, r := range results[1:] {
		assert.Equal(t, results[0], r)
	}
}

func TestAssembleErrors(t *testing.T) {
	cases := []struct {
		name string
		wb   *Workbook
		err  error
	}{
		{"nil workbook", nil, ErrEmptyWorkbook},
		{"no sheets", NewWorkbook(), ErrEmptyWorkbook},
		{"duplicate names", &Workbook{Sheets: []*Sheet{{Name: "Data", Data: Rows{}}, {Name: "data", Data: Rows{}}}}, ErrInvalidSheetName},
		{"default name clash", &Workbook{Sheets: []*Sheet{{Name: "Sheet2", Data: Rows{}}, {Data: Rows{}}}}, ErrInvalidSheetName},
		{"illegal name", &Workbook{Sheets: []*Sheet{{Name: "a/b", Data: Rows{}}}}, ErrInvalidSheetName},
		{"bad cell", &Workbook{Sheets: []*Sheet{{Data: Rows{}}, {Data: Rows{{{Value: struct{}{}}}}}}}, ErrUnsupportedCellType},
		{"bad color", &Workbook{Sheets: []*Sheet{{Data: Rows{{{Value: 1, Style: Style{BackgroundColor: "blue"}}}}}}}, ErrInvalidColorFormat},
		{"bad alignment", &Workbook{Sheets: []*Sheet{{Data: Rows{{Str("x"), {Value: 1, Style: Style{AlignVertical: "middle"}}}}}}}, ErrInvalidStyle},
		{"bad header style", &Workbook{Options: Options{HeaderStyle: &Style{FontWeight: "heavy"}}, Sheets: []*Sheet{{Data: Records[int]{Columns: []Column[int]{{Name: "n", Value: func(i int) any { return i }}}}}}}, ErrInvalidStyle},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := Assemble(c.wb)
			assert.ErrorIs(t, err, c.err)
			assert.Nil(t, p)

			s := &recordingStorage{}
			assert.ErrorIs(t, Write(s, c.wb), c.err)
			assert.Empty(t, s.order)
		})
	}
}

func TestWriteToStorage(t *testing.T) {
	wb := NewWorkbook()
	_, err := wb.AddSheet("", Rows{{Str("a")}})
	require.NoError(t, err)

	s := &recordingStorage{}
	require.NoError(t, Write(s, wb))

	p, err := Assemble(wb)
	require.NoError(t, err)
	assert.Equal(t, p.Names(), s.order)
	for _, pt := range p.Parts {
		assert.Equal(t, pt.Blob, s.blobs[pt.Name])
	}
}

func TestAssembleLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	wb := NewWorkbook()
	wb.Logger = logger
	_, err := wb.AddSheet("Only", Rows{{Str("a"), Str("b"), Str("a")}})
	require.NoError(t, err)
	_, err = Assemble(wb)
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "assembled workbook", entry.Message)
	assert.Equal(t, 1, entry.Data["sheets"])
	assert.Equal(t, 2, entry.Data["sharedStrings"])
	assert.Len(t, hook.AllEntries(), 2)
}

func TestAddSheet(t *testing.T) {
	wb := NewWorkbook()

	sh, err := wb.AddSheet("", nil)
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", sh.Name)

	_, err = wb.AddSheet("SHEET1", nil)
	assert.ErrorIs(t, err, ErrInvalidSheetName)

	for _, name := range []string{"'quoted'", "a:b", "a[1]", "what?", "0123456789012345678901234567890123"} {
		_, err = wb.AddSheet(name, nil)
		assert.ErrorIs(t, err, ErrInvalidSheetName, name)
	}

	_, err = wb.AddSheet("Ünïcödé", nil)
	require.NoError(t, err)
	_, err = wb.AddSheet("ÜNÏCÖDÉ", nil)
	assert.ErrorIs(t, err, ErrInvalidSheetName)

	assert.Len(t, wb.Sheets, 2)
}

func TestPackageWriteZipRoundTrip(t *testing.T) {
	wb := NewWorkbook()
	_, err := wb.AddSheet("", Rows{{Str("a")}})
	require.NoError(t, err)
	p, err := Assemble(wb)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.WriteZip(&buf))
	assert.NotZero(t, buf.Len())
}
