package printing

import (
	"bytes"
	"html/template"

	"github.com/erp/platform/internal/application/finance"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var amountPrinter = message.NewPrinter(language.English)

func formatAmount(d decimal.Decimal) string {
	return amountPrinter.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"amount": formatAmount,
	"qty":    func(d decimal.Decimal) string { return d.String() },
	"pct":    func(d decimal.Decimal) string { return d.StringFixed(2) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.InvoiceNumber}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
h1 { font-size: 22px; margin: 0 0 4px; }
.meta, .party { margin-bottom: 16px; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 6px 8px; border-bottom: 1px solid #ddd; }
th { background: #f3f3f3; text-align: left; }
td.num, th.num { text-align: right; }
.totals td { border: none; }
.totals .label { text-align: right; }
.status { text-transform: uppercase; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.OrganizationName}}</h1>
<div class="meta">
Invoice <strong>{{.InvoiceNumber}}</strong> <span class="status">{{.Status}}</span><br>
Issued {{.IssueDate.Format "2006-01-02"}} &middot; Due {{.DueDate.Format "2006-01-02"}}
</div>
<div class="party">
Bill to:<br>
<strong>{{.ClientName}}</strong>{{if .ClientEmail}}<br>{{.ClientEmail}}{{end}}
</div>
<table>
<thead><tr><th>Description</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Total</th></tr></thead>
<tbody>
{{range .Lines}}<tr><td>{{.Description}}</td><td class="num">{{qty .Quantity}}</td><td class="num">{{amount .UnitPrice}}</td><td class="num">{{amount .Total}}</td></tr>
{{end}}</tbody>
</table>
<table class="totals">
<tr><td class="label">Subtotal</td><td class="num">{{amount .Subtotal}}</td></tr>
<tr><td class="label">Tax ({{pct .TaxRate}}%)</td><td class="num">{{amount .TaxAmount}}</td></tr>
{{if .DiscountAmount.IsPositive}}<tr><td class="label">Discount</td><td class="num">-{{amount .DiscountAmount}}</td></tr>
{{end}}<tr><td class="label"><strong>Total ({{.Currency}})</strong></td><td class="num"><strong>{{amount .TotalAmount}}</strong></td></tr>
<tr><td class="label">Paid</td><td class="num">{{amount .PaidAmount}}</td></tr>
<tr><td class="label"><strong>Balance due</strong></td><td class="num"><strong>{{amount .BalanceDue}}</strong></td></tr>
</table>
{{if .Notes}}<p>{{.Notes}}</p>{{end}}
{{if .Terms}}<p><em>{{.Terms}}</em></p>{{end}}
</body>
</html>
`))

// InvoiceHTML renders the printable HTML of an invoice
func InvoiceHTML(doc finance.InvoiceDocument) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
