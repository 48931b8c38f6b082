package values

import "fmt"

// BandKind classifies a report band section.
type BandKind string

const (
	// BandTitle fires once at the start of the report.
	BandTitle BandKind = "title"
	// BandPageHeader fires at the top of each page.
	BandPageHeader BandKind = "page_header"
	// BandGroupHeader fires when a group at its level opens.
	BandGroupHeader BandKind = "group_header"
	// BandDetail fires once per record.
	BandDetail BandKind = "detail"
	// BandGroupFooter fires when a group at its level closes.
	BandGroupFooter BandKind = "group_footer"
	// BandPageFooter fires at the bottom of each page.
	BandPageFooter BandKind = "page_footer"
	// BandSummary fires once after the last group has closed.
	BandSummary BandKind = "summary"
)

// IsGroupBound returns true if the kind must reference a group level.
func (k BandKind) IsGroupBound() bool {
	return k == BandGroupHeader || k == BandGroupFooter
}

// Validate returns an error if the kind value is invalid.
func (k BandKind) Validate() error {
	switch k {
	case BandTitle, BandPageHeader, BandGroupHeader, BandDetail,
		BandGroupFooter, BandPageFooter, BandSummary:
		return nil
	default:
		return fmt.Errorf("invalid band kind: %s", k)
	}
}
