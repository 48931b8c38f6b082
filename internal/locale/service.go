// Package locale provides the locale service contract consumed by the
// rendering core, plus a default implementation backed by golang.org/x/text.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/bandkit/bandkit/internal/domain/values"
)

// Service formats numbers and answers locale questions. The core consumes
// this interface and never reaches into implementation internals.
type Service interface {
	// FormatNumber renders a numeric value for a locale and style.
	// Recognized styles: "decimal", "percent" and "currency:<ISO code>".
	FormatNumber(value float64, locale, style string) (string, error)

	// TextDirection reports whether a locale reads left-to-right or
	// right-to-left.
	TextDirection(locale string) values.Direction

	// Supported reports whether the locale tag parses.
	Supported(locale string) bool
}

// XTextService is the default Service built on golang.org/x/text.
type XTextService struct{}

// NewService creates the default locale service.
func NewService() *XTextService {
	return &XTextService{}
}

// FormatNumber implements Service.
func (s *XTextService) FormatNumber(value float64, loc, style string) (string, error) {
	tag, err := language.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("unsupported locale %q: %w", loc, err)
	}
	printer := message.NewPrinter(tag)

	switch {
	case style == "decimal":
		return printer.Sprint(number.Decimal(value)), nil
	case style == "percent":
		return printer.Sprint(number.Percent(value)), nil
	case strings.HasPrefix(style, "currency:"):
		code := strings.TrimPrefix(style, "currency:")
		unit, err := currency.ParseISO(code)
		if err != nil {
			return "", fmt.Errorf("unsupported currency %q: %w", code, err)
		}
		return printer.Sprint(currency.Symbol(unit.Amount(value))), nil
	default:
		return "", fmt.Errorf("unsupported number style %q", style)
	}
}

// rtlLanguages is the set of base languages written right-to-left.
var rtlLanguages = map[string]bool{
	"ar": true, "he": true, "fa": true, "ur": true,
	"ps": true, "sd": true, "yi": true, "dv": true,
}

// TextDirection implements Service.
func (s *XTextService) TextDirection(loc string) values.Direction {
	tag, err := language.Parse(loc)
	if err != nil {
		return values.DirectionLTR
	}
	base, _ := tag.Base()
	if rtlLanguages[base.String()] {
		return values.DirectionRTL
	}
	return values.DirectionLTR
}

// Supported implements Service.
func (s *XTextService) Supported(loc string) bool {
	_, err := language.Parse(loc)
	return err == nil
}
