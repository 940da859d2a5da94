package xl

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/adnsv/srw/xml"
	"github.com/sirupsen/logrus"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

// writer assembles the parts of a single workbook package.
type writer struct {
	parts          []Part
	lastGlobalId   int
	lastWorkbookId int

	globalRels          map[string]relInfo // maps id to absolute path
	workbookRels        map[string]relInfo // maps id to absolute paths
	defaultContentTypes map[string]string  // maps path extension to content-type
	partContentTypes    map[string]string  // maps path partname to content-type

	styles  *StyleRegistry
	strings *SharedStrings
	log     logrus.FieldLogger
}

type relInfo struct {
	Type   string // url to schema type
	Target string // relative path
}

func newWriter(opts *Options) *writer {
	w := &writer{
		globalRels:          map[string]relInfo{},
		workbookRels:        map[string]relInfo{},
		defaultContentTypes: map[string]string{},
		partContentTypes:    map[string]string{},

		styles:  NewStyleRegistry(opts.Font),
		strings: NewSharedStrings(),
		log:     opts.Logger,
	}
	if w.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		w.log = l
	}

	w.defaultContentTypes["xml"] = "application/xml"
	w.defaultContentTypes["rels"] = "application/vnd.openxmlformats-package.relationships+xml"

	return w
}

// Assemble renders every sheet of wb and produces the complete set of
// package parts. Each call owns its style and shared string tables, so
// concurrent calls on different workbooks do not interfere. Nothing is
// returned on failure.
func Assemble(wb *Workbook) (*Package, error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	names, err := wb.sheetNames()
	if err != nil {
		return nil, err
	}

	w := newWriter(&wb.Options)

	r := &sheetRenderer{
		styles:     w.styles,
		strings:    w.strings,
		header:     HeaderStyle(),
		dateFormat: wb.DateFormat,
	}
	if wb.HeaderStyle != nil {
		r.header = *wb.HeaderStyle
	}
	if r.dateFormat == "" {
		r.dateFormat = DefaultDateFormat
	}

	err = w.writeWorkbook(wb, names, r)
	if err != nil {
		return nil, err
	}

	w.writeStyles()
	w.writeSharedStrings()
	w.writeRels("xl/_rels/workbook.xml.rels", w.workbookRels)

	// the fingerprint covers everything rendered so far
	fingerprint := partsHash(w.parts)
	w.writeCoreProperties(wb.Created, fingerprint.URN())
	w.writeExtendedProperties(wb.AppName)
	w.writeRels("_rels/.rels", w.globalRels)

	// content types go first, some readers expect it
	ct := w.contentTypes()
	parts := append([]Part{{Name: "[Content_Types].xml", Blob: ct}}, w.parts...)

	w.log.WithFields(logrus.Fields{
		"sheets":        len(names),
		"sharedStrings": w.strings.Len(),
		"styles":        w.styles.Len(),
		"parts":         len(parts),
	}).Debug("assembled workbook")

	return &Package{Parts: parts}, nil
}

// Write assembles wb and hands the parts to s. The storage is not touched
// when assembly fails.
func Write(s Storage, wb *Workbook) error {
	p, err := Assemble(wb)
	if err != nil {
		return err
	}
	return p.WriteTo(s)
}

func (w *writer) addPart(relpath string, blob []byte) {
	w.parts = append(w.parts, Part{Name: relpath, Blob: blob})
}

func (w *writer) nextGlobalID() (int, string) {
	w.lastGlobalId++
	return w.lastGlobalId, fmt.Sprintf("rId%d", w.lastGlobalId)
}
func (w *writer) nextWorkbookID() (int, string) {
	w.lastWorkbookId++
	return w.lastWorkbookId, fmt.Sprintf("rId%d", w.lastWorkbookId)
}

func (w *writer) writeCoreProperties(created time.Time, identifier string) {
	_, rid := w.nextGlobalID()

	relpath := "docProps/core.xml"
	abspath := "/" + relpath

	w.partContentTypes[abspath] = "application/vnd.openxmlformats-package.core-properties+xml"
	w.globalRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})

	x.XmlStandaloneDecl()
	x.OTag("cp:coreProperties")
	x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
	x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	x.OTag("+dc:identifier").String(identifier).CTag()

	if !created.IsZero() {
		x.OTag("+dcterms:created")
		x.Attr("xsi:type", "dcterms:W3CDTF")
		x.String(created.UTC().Format(time.RFC3339))
		x.CTag()
	}

	x.CTag()

	w.addPart(relpath, bb.Bytes())
}

func (w *writer) writeExtendedProperties(appname string) {
	_, rid := w.nextGlobalID()

	relpath := "docProps/app.xml"
	abspath := "/" + relpath

	w.partContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	w.globalRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	if appname != "" {
		x.OTag("+Application").String(appname).CTag()
	}

	x.CTag()

	w.addPart(relpath, bb.Bytes())
}

func (w *writer) contentTypes() []byte {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})

	x.XmlStandaloneDecl()
	x.OTag("Types")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")
	enumerate(w.defaultContentTypes, func(ext, ctype string) error {
		x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
		return nil
	})
	enumerate(w.partContentTypes, func(abspath, ctype string) error {
		x.OTag("+Override").Attr("PartName", abspath).Attr("ContentType", ctype).CTag()
		return nil
	})

	x.CTag()

	return bb.Bytes()
}

func (w *writer) writeStyles() {
	_, rid := w.nextWorkbookID()

	relpath := "styles.xml"
	abspath := "/xl/" + relpath

	w.partContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	w.workbookRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles",
		Target: relpath,
	}

	w.addPart("xl/"+relpath, w.styles.Serialize())
}

func (w *writer) writeWorkbook(wb *Workbook, names []string, r *sheetRenderer) error {
	_, rid := w.nextGlobalID()

	relpath := "xl/workbook.xml"
	abspath := "/" + relpath

	w.partContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	w.globalRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("workbook")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	x.OTag("+sheets")
	for i, sheet := range wb.Sheets {
		sheet_id, sheet_rid := w.nextWorkbookID()
		{
			x.OTag("+sheet")
			x.Attr("name", names[i])
			x.Attr("sheetId", sheet_id)
			x.Attr("r:id", sheet_rid)
			x.CTag()
		}

		err := w.writeSheet(sheet, names[i], sheet_id, sheet_rid, r)
		if err != nil {
			return err
		}
	}
	x.CTag()

	x.CTag()

	// the workbook goes before its sheets
	w.parts = slices.Insert(w.parts, 0, Part{Name: relpath, Blob: bb.Bytes()})
	return nil
}

func (w *writer) writeSheet(sh *Sheet, name string, id int, rid string, r *sheetRenderer) error {
	blob, err := r.render(sh, name)
	if err != nil {
		return err
	}

	relpath := fmt.Sprintf("worksheets/sheet%d.xml", id)
	abspath := "/xl/" + relpath

	w.partContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	w.workbookRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet",
		Target: relpath,
	}

	w.log.WithFields(logrus.Fields{
		"sheet": name,
		"part":  relpath,
		"bytes": len(blob),
	}).Debug("rendered sheet")

	w.addPart("xl/"+relpath, blob)
	return nil
}

func (w *writer) writeSharedStrings() {
	_, rid := w.nextWorkbookID()

	relpath := "sharedStrings.xml"
	abspath := "/xl/" + relpath

	w.partContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	w.workbookRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings",
		Target: relpath,
	}

	w.addPart("xl/"+relpath, w.strings.Serialize())
}

func (w *writer) writeRels(path string, rels map[string]relInfo) {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Relationships")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	enumerate(rels, func(rid string, info relInfo) error {
		x.OTag("+Relationship").Attr("Id", rid).Attr("Type", info.Type).Attr("Target", info.Target)
		x.CTag()
		return nil
	})
	x.CTag()

	w.addPart(path, bb.Bytes())
}

func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V) error) error {
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		err := callback(k, m[k])
		if err != nil {
			return err
		}
	}
	return nil
}
