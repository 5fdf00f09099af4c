package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/melitech/docengine/internal/billing"
	"github.com/melitech/docengine/internal/company"
)

// currencyLabel prefixes every printed amount. Multi-currency is out of
// scope; amounts are minor units of the one operating currency.
const currencyLabel = "Ksh"

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders minor units as a grouped major.minor figure,
// e.g. 1276000 -> "Ksh 12,760.00".
func FormatMoney(m billing.Money) string {
	major := m / 100
	minor := m % 100
	return fmt.Sprintf("%s %s.%02d", currencyLabel, moneyPrinter.Sprintf("%d", major), minor)
}

var documentTitles = map[string]string{
	"invoice":  "INVOICE",
	"estimate": "ESTIMATE",
	"receipt":  "OFFICIAL RECEIPT",
	"proposal": "PROPOSAL",
	"expense":  "EXPENSE VOUCHER",
}

type documentView struct {
	Title       string
	Number      string
	IssueDate   string
	DueDate     string
	Status      string
	Company     company.Profile
	Client      billing.Party
	Lines       []lineView
	Subtotal    string
	ShowVAT     bool
	VATLabel    string
	VAT         string
	GrandTotal  string
	Notes       string
	GeneratedAt string
}

type lineView struct {
	SNo         int
	Description string
	UOM         string
	Quantity    string
	UnitPrice   string
	TaxRate     string
	Total       string
}

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} {{.Number}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #1a1a1a; margin: 40px; }
h1 { font-size: 20px; letter-spacing: 2px; margin-bottom: 0; }
.number { font-size: 14px; color: #555; margin-top: 4px; }
.parties { display: flex; justify-content: space-between; margin: 24px 0; }
.party h3 { font-size: 11px; text-transform: uppercase; color: #888; margin-bottom: 4px; }
table.lines { width: 100%; border-collapse: collapse; margin-top: 16px; }
table.lines th { text-align: left; border-bottom: 2px solid #1a1a1a; padding: 6px 4px; font-size: 11px; text-transform: uppercase; }
table.lines td { border-bottom: 1px solid #ddd; padding: 6px 4px; }
td.amount, th.amount { text-align: right; }
.totals { margin-top: 16px; width: 40%; margin-left: auto; }
.totals td { padding: 4px; }
.totals .grand { font-weight: bold; border-top: 2px solid #1a1a1a; }
.notes { margin-top: 24px; color: #555; }
.footer { margin-top: 40px; font-size: 10px; color: #888; border-top: 1px solid #ddd; padding-top: 8px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="number">{{.Number}}</div>

<div class="parties">
  <div class="party">
    <h3>From</h3>
    <strong>{{.Company.Name}}</strong><br>
    {{.Company.Address}}<br>
    {{if .Company.Phone}}Phone: {{.Company.Phone}}<br>{{end}}
    {{if .Company.Email}}Email: {{.Company.Email}}<br>{{end}}
    {{if .Company.Website}}{{.Company.Website}}{{end}}
  </div>
  <div class="party">
    <h3>Billed To</h3>
    <strong>{{.Client.Name}}</strong><br>
    {{if .Client.Address}}{{.Client.Address}}<br>{{end}}
    {{if .Client.Email}}{{.Client.Email}}{{end}}
  </div>
  <div class="party">
    <h3>Details</h3>
    Issue Date: {{.IssueDate}}<br>
    {{if .DueDate}}Due Date: {{.DueDate}}<br>{{end}}
    Status: {{.Status}}
  </div>
</div>

<table class="lines">
  <tr>
    <th>#</th><th>Description</th><th>UOM</th>
    <th class="amount">Qty</th><th class="amount">Unit Price</th>
    <th class="amount">Tax %</th><th class="amount">Total</th>
  </tr>
  {{range .Lines}}
  <tr>
    <td>{{.SNo}}</td><td>{{.Description}}</td><td>{{.UOM}}</td>
    <td class="amount">{{.Quantity}}</td><td class="amount">{{.UnitPrice}}</td>
    <td class="amount">{{.TaxRate}}</td><td class="amount">{{.Total}}</td>
  </tr>
  {{end}}
</table>

<table class="totals">
  <tr><td>Subtotal</td><td class="amount">{{.Subtotal}}</td></tr>
  {{if .ShowVAT}}<tr><td>{{.VATLabel}}</td><td class="amount">{{.VAT}}</td></tr>{{end}}
  <tr class="grand"><td>Grand Total</td><td class="amount">{{.GrandTotal}}</td></tr>
</table>

{{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}

<div class="footer">Generated {{.GeneratedAt}} &middot; {{.Company.Name}}</div>
</body>
</html>`))

// DocumentHTML builds the printable HTML for a finished document. It reads
// only the two immutable inputs; amounts come straight from the stored
// totals.
func DocumentHTML(doc billing.Document, profile company.Profile) (string, error) {
	title, ok := documentTitles[string(doc.Number.DocumentType)]
	if !ok {
		title = strings.ToUpper(string(doc.Number.DocumentType))
	}

	view := documentView{
		Title:       title,
		Number:      doc.Number.Formatted,
		IssueDate:   doc.IssueDate.Format("02 Jan 2006"),
		Status:      strings.ToUpper(string(doc.DisplayStatus(time.Now()))),
		Company:     profile,
		Client:      doc.Client,
		Subtotal:    FormatMoney(doc.Totals.Subtotal),
		ShowVAT:     doc.ApplyVAT,
		VATLabel:    fmt.Sprintf("VAT (%s%%)", doc.VATPct.String()),
		VAT:         FormatMoney(doc.Totals.DocumentTax),
		GrandTotal:  FormatMoney(doc.Totals.GrandTotal),
		Notes:       doc.Notes,
		GeneratedAt: time.Now().Format(time.RFC1123),
	}
	if doc.DueDate != nil {
		view.DueDate = doc.DueDate.Format("02 Jan 2006")
	}

	for i, item := range doc.Items {
		line := lineView{
			SNo:         i + 1,
			Description: item.Description,
			UOM:         item.UnitOfMeasure,
			Quantity:    item.Quantity.String(),
			UnitPrice:   FormatMoney(item.UnitPrice),
			TaxRate:     item.TaxRatePct.String(),
		}
		if i < len(doc.Totals.Lines) {
			line.Total = FormatMoney(doc.Totals.Lines[i].Total)
		}
		view.Lines = append(view.Lines, line)
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("report: render document html: %w", err)
	}
	return buf.String(), nil
}
