// Package renderer formats ledger views as markdown.
package renderer

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
	"github.com/xzxcupidxzx/finance"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"money":  func(v decimal.Decimal) string { return finance.VND(v).String() },
	"signed": func(v decimal.Decimal) string { return finance.VND(v).SignedString() },
	"cell":   cell,
}

// cell escapes s for use in a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// RenderLedger renders a list of transactions with their totals.
func RenderLedger(l *Ledger) string { return renderTemplate("ledger.md", l) }

// RenderBalances renders account balances and their total.
func RenderBalances(b *Balances) string { return renderTemplate("balances.md", b) }

// RenderSummary renders the header summary.
func RenderSummary(s *Summary) string { return renderTemplate("summary.md", s) }

// renderTemplate renders an embedded template. Errors are rendered in place
// of the output.
func renderTemplate(file string, data any) string {
	tmpl, err := template.New(file).Funcs(funcs).ParseFS(templates, "templates/"+file)
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", file, err)
	}
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, file, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", file, err)
	}
	return b.String()
}
