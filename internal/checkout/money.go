package checkout

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money renders minor-unit amounts for the order transcript, e.g. "Rp 150.000".
type Money struct {
	symbol   string
	exponent int32
	printer  *message.Printer
	decimal  string
}

// NewMoney builds a formatter. exponent is the number of minor-unit digits of the
// currency (0 for IDR, 2 for USD). An unparseable locale falls back to Indonesian.
func NewMoney(symbol string, exponent int32, locale string) Money {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.Indonesian
	}
	if exponent < 0 {
		exponent = 0
	}
	printer := message.NewPrinter(tag)

	sep := strings.TrimSuffix(strings.TrimPrefix(printer.Sprintf("%.1f", 1.5), "1"), "5")
	if sep == "" {
		sep = "."
	}
	return Money{
		symbol:   strings.TrimSpace(symbol),
		exponent: exponent,
		printer:  printer,
		decimal:  sep,
	}
}

func (m Money) Format(minor int64) string {
	amount := decimal.New(minor, -m.exponent)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	whole := amount.Truncate(0)
	text := m.printer.Sprintf("%d", whole.IntPart())
	if m.exponent > 0 {
		fraction := amount.Sub(whole).Shift(m.exponent).IntPart()
		text += m.decimal + leftPad(fraction, int(m.exponent))
	}

	if m.symbol == "" {
		return sign + text
	}
	return sign + m.symbol + " " + text
}

func leftPad(n int64, width int) string {
	digits := decimal.NewFromInt(n).String()
	if len(digits) >= width {
		return digits
	}
	return strings.Repeat("0", width-len(digits)) + digits
}
