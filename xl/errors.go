package xl

import "errors"

// Errors returned by Assemble and the registries. They are wrapped with
// context (sheet name, cell reference, offending value) and can be matched
// with errors.Is.
var (
	ErrInvalidColorFormat  = errors.New("invalid color format")
	ErrInvalidStyle        = errors.New("invalid style")
	ErrUnsupportedCellType = errors.New("unsupported cell type")
	ErrInvalidSchema       = errors.New("invalid schema")
	ErrInvalidSheetName    = errors.New("invalid sheet name")
	ErrEmptyWorkbook       = errors.New("workbook has no sheets")
	ErrGridBoundsExceeded  = errors.New("grid bounds exceeded")
)
