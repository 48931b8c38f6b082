package values

import "fmt"

// Direction is the text direction of a locale.
type Direction string

const (
	// DirectionLTR is left-to-right text.
	DirectionLTR Direction = "ltr"
	// DirectionRTL is right-to-left text.
	DirectionRTL Direction = "rtl"
)

// Validate returns an error if the direction value is invalid.
func (d Direction) Validate() error {
	switch d {
	case DirectionLTR, DirectionRTL:
		return nil
	default:
		return fmt.Errorf("invalid text direction: %s", d)
	}
}
