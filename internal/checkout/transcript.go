package checkout

import (
	"strings"
	"text/template"

	"github.com/mabrurgoods/storefront/internal/order"
)

const transcriptText = `Assalamu'alaikum, I would like to order:
{{range $i, $line := .Lines}}
{{inc $i}}. {{$line.Name}}
{{- with details $line}}
   {{.}}{{end}}
   {{money $line.UnitPrice}} x {{$line.Quantity}} = {{money $line.LineTotal}}
{{end}}
Total: {{money .Total}}

Please confirm availability and shipping cost. Thank you!`

type transcriptData struct {
	Lines []order.SummaryLine
	Total int64
}

func newTranscriptTemplate(money Money) *template.Template {
	return template.Must(template.New("transcript").Funcs(template.FuncMap{
		"inc":     func(i int) int { return i + 1 },
		"money":   money.Format,
		"details": lineDetails,
	}).Parse(transcriptText))
}

// lineDetails renders the variant attributes that are set, e.g. "Size: M | Color: Black".
func lineDetails(line order.SummaryLine) string {
	var parts []string
	if s := strings.TrimSpace(line.Size); s != "" {
		parts = append(parts, "Size: "+s)
	}
	if c := strings.TrimSpace(line.Color); c != "" {
		parts = append(parts, "Color: "+c)
	}
	return strings.Join(parts, " | ")
}
