package utils

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoneyFormatter renders amounts held in minor units for one currency and
// locale, e.g. 1234500 COP in es-CO => "$1.234.500" and 1234500 USD in
// en-US => "$12,345.00".
type MoneyFormatter struct {
	unit    currency.Unit
	printer *message.Printer
	scale   int
	pow     uint64
	decimal string
	prefix  string
}

// NewMoneyFormatter builds a formatter for an ISO 4217 code and a BCP 47 locale.
func NewMoneyFormatter(code, locale string) (*MoneyFormatter, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	printer := message.NewPrinter(tag)
	scale, _ := currency.Standard.Rounding(unit)
	pow := uint64(1)
	for i := 0; i < scale; i++ {
		pow *= 10
	}

	// Currencies without a narrow symbol print their ISO code.
	prefix := printer.Sprint(currency.NarrowSymbol(unit))
	if prefix == "" || prefix == unit.String() {
		prefix = unit.String() + " "
	}

	// "1.5" in the locale; the middle rune is the decimal separator.
	sample := []rune(printer.Sprint(number.Decimal(1.5, number.Scale(1))))
	decimal := "."
	if len(sample) == 3 {
		decimal = string(sample[1])
	}

	return &MoneyFormatter{
		unit:    unit,
		printer: printer,
		scale:   scale,
		pow:     pow,
		decimal: decimal,
		prefix:  prefix,
	}, nil
}

// Currency returns the ISO code.
func (f *MoneyFormatter) Currency() string {
	return f.unit.String()
}

// Format renders minor as a display string. The whole and fractional parts
// are split in integer arithmetic so every int64 renders exactly.
func (f *MoneyFormatter) Format(minor int64) string {
	sign := ""
	mag := uint64(minor)
	if minor < 0 {
		sign = "-"
		mag = uint64(-(minor + 1)) + 1
	}

	out := sign + f.prefix + f.printer.Sprint(number.Decimal(mag/f.pow))
	if f.scale > 0 {
		out += f.decimal + fmt.Sprintf("%0*d", f.scale, mag%f.pow)
	}
	return out
}
