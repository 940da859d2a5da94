package xl

import "strconv"

const (
	DefaultFontFamily = "Calibri"
	DefaultFontSize   = 12
)

// Font is the workbook-wide font. Cells can only alter its weight and color.
type Font struct {
	Family string  // Font family name ("" = Calibri)
	Size   float64 // Font size in points (0 = use default of 12)
}

// IsDefault returns true if the font uses all default properties.
func (f *Font) IsDefault() bool {
	return f.Family == "" && f.Size == 0
}

func (f *Font) family() string {
	if f.Family == "" {
		return DefaultFontFamily
	}
	return f.Family
}

func (f *Font) size() string {
	if f.Size <= 0 {
		return strconv.Itoa(DefaultFontSize)
	}
	return strconv.FormatFloat(f.Size, 'f', -1, 64)
}

// FontWeight is the weight of a cell's font.
type FontWeight string

const (
	FontWeightNormal FontWeight = ""
	FontWeightBold   FontWeight = "bold"
)

func (w FontWeight) valid() bool {
	return w == FontWeightNormal || w == "normal" || w == FontWeightBold
}

// HAlign is horizontal cell alignment (ST_HorizontalAlignment).
type HAlign string

const (
	AlignGeneral          HAlign = ""
	AlignLeft             HAlign = "left"
	AlignCenter           HAlign = "center"
	AlignRight            HAlign = "right"
	AlignFill             HAlign = "fill"
	AlignJustify          HAlign = "justify"
	AlignCenterContinuous HAlign = "centerContinuous"
	AlignDistributed      HAlign = "distributed"
)

func (a HAlign) valid() bool {
	switch a {
	case AlignGeneral, "general", AlignLeft, AlignCenter, AlignRight, AlignFill,
		AlignJustify, AlignCenterContinuous, AlignDistributed:
		return true
	}
	return false
}

// VAlign is vertical cell alignment (ST_VerticalAlignment).
type VAlign string

const (
	AlignTop          VAlign = "top"
	AlignMiddle       VAlign = "center"
	AlignBottom       VAlign = "bottom"
	AlignVJustify     VAlign = "justify"
	AlignVDistributed VAlign = "distributed"
)

func (a VAlign) valid() bool {
	switch a {
	case "", AlignTop, AlignMiddle, AlignBottom, AlignVJustify, AlignVDistributed:
		return true
	}
	return false
}
