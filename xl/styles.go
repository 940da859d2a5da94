package xl

import (
	"bytes"
	"fmt"

	"github.com/adnsv/srw/xml"
)

// There are about 100 built-in number formats, custom ones are numbered
// after them.
const FirstCustomFormatID = 100

// Style describes the formatting of a single cell. The zero value is the
// default, unstyled cell.
type Style struct {
	FontWeight      FontWeight
	Color           string // "#RRGGBB"
	BackgroundColor string // "#RRGGBB"
	Align           HAlign
	AlignVertical   VAlign
	Wrap            bool
	Format          string // number format code, e.g. "mm/dd/yyyy"
}

// IsDefault returns true if no style attribute is set.
func (s Style) IsDefault() bool {
	return s == Style{}
}

// HeaderStyle is the style given to the synthesized header row of a
// schema-driven sheet.
func HeaderStyle() Style {
	return Style{FontWeight: FontWeightBold}
}

type fontKey struct {
	bold  bool
	color string // ARGB, "" = theme text color
}

type fillKey struct {
	pattern string
	color   string // ARGB
}

type styleKey struct {
	align         HAlign
	alignVertical VAlign
	format        string
	wrap          bool
	font          fontKey
	fill          string // ARGB, "" = no fill
}

type cellXf struct {
	numFmtID  int
	fontID    int
	fillID    int
	applyFont bool
	applyFill bool

	align         HAlign
	alignVertical VAlign
	wrap          bool
}

func (xf *cellXf) hasAlignment() bool {
	return xf.align != "" || xf.alignVertical != "" || xf.wrap
}

// StyleRegistry deduplicates cell styles and the fonts, fills and number
// formats they reference. Index 0 of every table is the default entry.
type StyleRegistry struct {
	font       Font
	customFont bool

	formats     []string
	formatIndex map[string]int // format code to numFmtId

	fonts     []fontKey
	fontIndex map[fontKey]int

	fills     []fillKey
	fillIndex map[string]int // ARGB color to fill index

	xfs     []cellXf
	xfIndex map[styleKey]int
}

// NewStyleRegistry creates a registry whose default font is f.
func NewStyleRegistry(f Font) *StyleRegistry {
	r := &StyleRegistry{
		font:        f,
		customFont:  !f.IsDefault(),
		formatIndex: map[string]int{},
		fontIndex:   map[fontKey]int{},
		fillIndex:   map[string]int{},
		xfIndex:     map[styleKey]int{},
	}

	r.fonts = append(r.fonts, fontKey{})
	r.fontIndex[fontKey{}] = 0

	r.fills = append(r.fills, fillKey{pattern: "none"})
	r.fillIndex[""] = 0
	// gray125 must be present at index 1, otherwise excel replaces the first
	// custom fill with it
	r.fills = append(r.fills, fillKey{pattern: "gray125"})

	// the default style can not fail
	r.Resolve(Style{})

	return r
}

// Resolve returns the cellXfs index of s, registering it on first use. An
// invalid style leaves the registry unchanged.
func (r *StyleRegistry) Resolve(s Style) (int, error) {
	switch {
	case !s.FontWeight.valid():
		return 0, fmt.Errorf("%w: font weight '%s'", ErrInvalidStyle, s.FontWeight)
	case !s.Align.valid():
		return 0, fmt.Errorf("%w: horizontal alignment '%s'", ErrInvalidStyle, s.Align)
	case !s.AlignVertical.valid():
		return 0, fmt.Errorf("%w: vertical alignment '%s'", ErrInvalidStyle, s.AlignVertical)
	}

	var err error
	key := styleKey{
		align:         s.Align,
		alignVertical: s.AlignVertical,
		format:        s.Format,
		wrap:          s.Wrap,
		font:          fontKey{bold: s.FontWeight == FontWeightBold},
	}
	if key.align == "general" {
		key.align = AlignGeneral
	}
	if s.Color != "" {
		key.font.color, err = argbColor(s.Color)
		if err != nil {
			return 0, err
		}
	}
	if s.BackgroundColor != "" {
		key.fill, err = argbColor(s.BackgroundColor)
		if err != nil {
			return 0, err
		}
	}

	if i, ok := r.xfIndex[key]; ok {
		return i, nil
	}

	xf := cellXf{
		align:         key.align,
		alignVertical: key.alignVertical,
		wrap:          key.wrap,
		applyFont:     r.customFont,
	}

	if key.format != "" {
		id, ok := r.formatIndex[key.format]
		if !ok {
			id = FirstCustomFormatID + len(r.formats)
			r.formats = append(r.formats, key.format)
			r.formatIndex[key.format] = id
		}
		xf.numFmtID = id
	}

	if key.font != (fontKey{}) {
		id, ok := r.fontIndex[key.font]
		if !ok {
			id = len(r.fonts)
			r.fonts = append(r.fonts, key.font)
			r.fontIndex[key.font] = id
		}
		xf.fontID = id
		xf.applyFont = true
	}

	if key.fill != "" {
		id, ok := r.fillIndex[key.fill]
		if !ok {
			id = len(r.fills)
			r.fills = append(r.fills, fillKey{pattern: "solid", color: key.fill})
			r.fillIndex[key.fill] = id
		}
		xf.fillID = id
		xf.applyFill = true
	}

	i := len(r.xfs)
	r.xfs = append(r.xfs, xf)
	r.xfIndex[key] = i
	return i, nil
}

// Len returns the number of registered cell styles.
func (r *StyleRegistry) Len() int {
	return len(r.xfs)
}

// Serialize renders the xl/styles.xml part. Excel rejects the file unless
// the tables appear in schema order.
func (r *StyleRegistry) Serialize() []byte {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("styleSheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

	if len(r.formats) > 0 {
		x.OTag("+numFmts").Attr("count", len(r.formats))
		for i, code := range r.formats {
			x.OTag("+numFmt")
			x.Attr("numFmtId", FirstCustomFormatID+i)
			x.Attr("formatCode", code)
			x.CTag()
		}
		x.CTag()
	}

	x.OTag("+fonts").Attr("count", len(r.fonts))
	for _, f := range r.fonts {
		x.OTag("+font")
		if f.bold {
			x.OTag("b").CTag()
		}
		x.OTag("sz").Attr("val", r.font.size()).CTag()
		if f.color != "" {
			x.OTag("color").Attr("rgb", f.color).CTag()
		} else {
			x.OTag("color").Attr("theme", 1).CTag()
		}
		x.OTag("name").Attr("val", r.font.family()).CTag()
		x.OTag("family").Attr("val", 2).CTag()
		if r.font.family() == DefaultFontFamily {
			x.OTag("scheme").Attr("val", "minor").CTag()
		}
		x.CTag() // font
	}
	x.CTag() // fonts

	x.OTag("+fills").Attr("count", len(r.fills))
	for _, f := range r.fills {
		x.OTag("+fill")
		x.OTag("patternFill").Attr("patternType", f.pattern)
		if f.color != "" {
			x.OTag("fgColor").Attr("rgb", f.color).CTag()
			x.OTag("bgColor").Attr("indexed", 64).CTag()
		}
		x.CTag() // patternFill
		x.CTag() // fill
	}
	x.CTag() // fills

	// custom borders are not supported, the table holds the "no border" entry
	x.OTag("+borders").Attr("count", 1)
	x.OTag("+border")
	x.OTag("left").CTag()
	x.OTag("right").CTag()
	x.OTag("top").CTag()
	x.OTag("bottom").CTag()
	x.OTag("diagonal").CTag()
	x.CTag() // border
	x.CTag() // borders

	x.OTag("+cellStyleXfs").Attr("count", 1)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	x.CTag()

	x.OTag("+cellXfs").Attr("count", len(r.xfs))
	for _, xf := range r.xfs {
		x.OTag("+xf")
		x.Attr("numFmtId", xf.numFmtID)
		x.Attr("fontId", xf.fontID)
		x.Attr("fillId", xf.fillID)
		x.Attr("borderId", 0)
		x.Attr("xfId", 0)
		if xf.numFmtID != 0 {
			x.Attr("applyNumberFormat", 1)
		}
		if xf.applyFont {
			x.Attr("applyFont", 1)
		}
		if xf.applyFill {
			x.Attr("applyFill", 1)
		}
		if xf.hasAlignment() {
			x.Attr("applyAlignment", 1)
			x.OTag("alignment")
			if xf.align != "" {
				x.Attr("horizontal", string(xf.align))
			}
			if xf.alignVertical != "" {
				x.Attr("vertical", string(xf.alignVertical))
			}
			if xf.wrap {
				x.Attr("wrapText", 1)
			}
			x.CTag()
		}
		x.CTag() // xf
	}
	x.CTag() // cellXfs

	x.OTag("+cellStyles").Attr("count", 1)
	x.OTag("+cellStyle").Attr("name", "Normal").Attr("xfId", 0).Attr("builtinId", 0).CTag()
	x.CTag()

	x.CTag() // styleSheet

	return bb.Bytes()
}
