package xl

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
)

// Options are the workbook-wide generation settings.
type Options struct {
	AppName     string    // written to docProps/app.xml when set
	Font        Font      // default font of every cell
	HeaderStyle *Style    // style of schema header rows, nil = bold
	DateFormat  string    // number format of date cells without one, "" = DefaultDateFormat
	Created     time.Time // written to docProps/core.xml when set

	Logger logrus.FieldLogger // nil = no logging
}

type Workbook struct {
	Options
	Sheets []*Sheet
}

func NewWorkbook() *Workbook {
	return &Workbook{}
}

// AddSheet appends a sheet. An empty name becomes "Sheet{n}" where n is the
// position of the sheet in the workbook.
func (wb *Workbook) AddSheet(name string, data SheetData) (*Sheet, error) {
	if name == "" {
		name = defaultSheetName(len(wb.Sheets))
	}
	if err := validateSheetName(name); err != nil {
		return nil, err
	}
	for _, sh := range wb.Sheets {
		if sameSheetName(sh.Name, name) {
			return nil, fmt.Errorf("%w: duplicate sheet name '%s'", ErrInvalidSheetName, name)
		}
	}

	sheet := &Sheet{
		Name: name,
		Data: data,
	}
	wb.Sheets = append(wb.Sheets, sheet)
	return sheet, nil
}

func defaultSheetName(i int) string {
	return fmt.Sprintf("Sheet%d", i+1)
}

// sheetNames returns the validated display names of all sheets in order.
func (wb *Workbook) sheetNames() ([]string, error) {
	names := make([]string, len(wb.Sheets))
	seen := map[string]bool{}
	fold := cases.Fold()
	for i, sh := range wb.Sheets {
		name := sh.Name
		if name == "" {
			name = defaultSheetName(i)
		}
		if err := validateSheetName(name); err != nil {
			return nil, err
		}
		k := fold.String(name)
		if seen[k] {
			return nil, fmt.Errorf("%w: duplicate sheet name '%s'", ErrInvalidSheetName, name)
		}
		seen[k] = true
		names[i] = name
	}
	return names, nil
}

// excel compares sheet names case-insensitively
func sameSheetName(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

func validateSheetName(s string) error {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return fmt.Errorf("%w: empty sheet name is not allowed", ErrInvalidSheetName)
	} else if n > 31 {
		return fmt.Errorf("%w: the sheet name '%s' is too long", ErrInvalidSheetName, s)
	}
	if strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		return fmt.Errorf("%w: the first or last character of the sheet name can not be a single quote", ErrInvalidSheetName)
	}
	if strings.ContainsAny(s, ":\\/?*[]") {
		return fmt.Errorf("%w: the sheet name '%s' can not contain any of the characters :\\/?*[]", ErrInvalidSheetName, s)
	}
	return nil
}
