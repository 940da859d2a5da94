package xl

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adnsv/srw/xml"
)

// SharedStrings is the workbook-wide table of distinct text values. Cells
// reference entries by their index, which is assigned in first-seen order
// and never changes.
type SharedStrings struct {
	list  []string
	index map[string]int // 0-based index into list
	refs  int            // number of Intern calls, one per cell
}

func NewSharedStrings() *SharedStrings {
	return &SharedStrings{
		index: map[string]int{},
	}
}

// Intern returns the index of s, appending it to the table if it was not
// seen before.
func (ss *SharedStrings) Intern(s string) int {
	ss.refs++
	if i, ok := ss.index[s]; ok {
		return i
	}
	i := len(ss.list)
	ss.list = append(ss.list, s)
	ss.index[s] = i
	return i
}

// Len returns the number of distinct strings.
func (ss *SharedStrings) Len() int {
	return len(ss.list)
}

// Serialize renders the xl/sharedStrings.xml part.
func (ss *SharedStrings) Serialize() []byte {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("sst")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("count", ss.refs)
	x.Attr("uniqueCount", len(ss.list))

	for _, s := range ss.list {
		x.OTag("+si")
		x.OTag("t")
		if needsSpacePreserve(s) {
			x.Attr("xml:space", "preserve")
		}
		x.String(escapeSharedText(s))
		x.CTag() // t
		x.CTag() // si
	}

	x.CTag()

	return bb.Bytes()
}

// excel trims leading and trailing whitespace unless told otherwise
func needsSpacePreserve(s string) bool {
	if s == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(first) || unicode.IsSpace(last)
}

var escapedCharRe = regexp.MustCompile(`_x[0-9A-Fa-f]{4}_`)

// escapeSharedText prepares s for the xml writer, which does not keep
// carriage returns. CRLF becomes LF, a lone CR is written as the ST_Xstring
// escape _x000D_. Literal text that looks like such an escape gets its
// underscore escaped so excel reads it back unchanged.
func escapeSharedText(s string) string {
	if strings.Contains(s, "_x") {
		s = escapedCharRe.ReplaceAllStringFunc(s, func(m string) string {
			return "_x005F" + m
		})
	}
	if strings.ContainsRune(s, '\r') {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "_x000D_")
	}
	return s
}
