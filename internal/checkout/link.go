// Package checkout turns the guest cart into an order transcript and hands it off to
// the store's messaging channel as a deep link.
package checkout

import (
	"net/url"
	"strings"
	"text/template"

	"github.com/mabrurgoods/storefront/internal/order"
	"github.com/mabrurgoods/storefront/pkg/config"
)

// Encoder builds handoff links of the form <base>/<phone>?text=<transcript>.
type Encoder struct {
	baseURL    string
	phone      string
	transcript *template.Template
}

func NewEncoder(cfg config.CheckoutConfig) *Encoder {
	base := strings.TrimRight(strings.TrimSpace(cfg.ChannelBaseURL), "/")
	if base == "" {
		base = "https://wa.me"
	}
	money := NewMoney(cfg.CurrencySymbol, cfg.CurrencyExponent, cfg.Locale)
	return &Encoder{
		baseURL:    base,
		phone:      NormalizePhone(cfg.Phone, cfg.CountryCode),
		transcript: newTranscriptTemplate(money),
	}
}

// Phone is the normalized target number.
func (e *Encoder) Phone() string {
	return e.phone
}

// Transcript renders the human-readable order message.
func (e *Encoder) Transcript(lines []order.SummaryLine, total int64) string {
	var b strings.Builder
	// strings.Builder writes never fail.
	_ = e.transcript.Execute(&b, transcriptData{Lines: lines, Total: total})
	return b.String()
}

// BuildHandoffLink encodes the transcript into the channel deep link. An empty line set
// still yields a valid link; callers decide whether an empty order may be sent.
func (e *Encoder) BuildHandoffLink(lines []order.SummaryLine, total int64) string {
	return e.baseURL + "/" + e.phone + "?text=" + encodeText(e.Transcript(lines, total))
}

// encodeText percent-encodes s for a query value, spaces as %20 rather than '+'.
func encodeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
