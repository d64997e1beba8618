package valueobject

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var trPrinter = message.NewPrinter(language.Turkish)

// FormatTRY renders a Money amount as Turkish lira for display:
// ₺ prefix, dot thousands separator, comma decimal mark, two digits.
// Presentation only; computation always stays in decimal.
func FormatTRY(m Money) string {
	return trPrinter.Sprintf("₺%.2f", m.Float64())
}
