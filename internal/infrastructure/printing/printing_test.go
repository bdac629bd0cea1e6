package printing

import (
	"testing"
	"time"

	"github.com/erp/platform/internal/application/finance"
	"github.com/erp/platform/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDocument() finance.InvoiceDocument {
	d := decimal.RequireFromString
	return finance.InvoiceDocument{
		OrganizationName: "Acme & Sons",
		InvoiceNumber:    "INV-2024-00007",
		Status:           "sent",
		ClientName:       "Globex <Corp>",
		ClientEmail:      "ap@globex.test",
		IssueDate:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:          time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Currency:         "USD",
		Lines: []finance.InvoiceDocumentLine{
			{Description: "Consulting", Quantity: d("10"), UnitPrice: d("150"), Total: d("1500")},
			{Description: "Travel", Quantity: d("1"), UnitPrice: d("320.5"), Total: d("320.5")},
		},
		Subtotal:       d("1820.5"),
		TaxRate:        d("10"),
		TaxAmount:      d("182.05"),
		DiscountAmount: d("2.55"),
		TotalAmount:    d("2000"),
		PaidAmount:     d("500"),
		BalanceDue:     d("1500"),
		Terms:          "Net 30",
	}
}

func TestInvoiceHTML(t *testing.T) {
	html, err := InvoiceHTML(testDocument())
	require.NoError(t, err)

	assert.Contains(t, html, "INV-2024-00007")
	assert.Contains(t, html, "Issued 2024-03-01")
	assert.Contains(t, html, "Due 2024-03-31")
	assert.Contains(t, html, "1,820.50")
	assert.Contains(t, html, "Tax (10.00%)")
	assert.Contains(t, html, "-2.55")
	assert.Contains(t, html, "Total (USD)")
	assert.Contains(t, html, "1,500.00")
	assert.Contains(t, html, "<em>Net 30</em>")
	// Client data is escaped
	assert.Contains(t, html, "Globex &lt;Corp&gt;")
	assert.Contains(t, html, "Acme &amp; Sons")
}

func TestInvoiceHTML_NoDiscountRow(t *testing.T) {
	doc := testDocument()
	doc.DiscountAmount = decimal.Zero
	html, err := InvoiceHTML(doc)
	require.NoError(t, err)
	assert.NotContains(t, html, "Discount")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,234,567.89", formatAmount(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "0.50", formatAmount(decimal.RequireFromString("0.5")))
}

func TestPrintParams_A4(t *testing.T) {
	p := printParams()
	assert.InDelta(t, 8.27, p.PaperWidth, 0.01)
	assert.InDelta(t, 11.69, p.PaperHeight, 0.01)
	assert.InDelta(t, 0.47, p.MarginTop, 0.01)
	assert.True(t, p.PrintBackground)
}

func TestNewChromedpRenderer_Timeout(t *testing.T) {
	r := NewChromedpRenderer(config.PrintingConfig{ChromeURL: "ws://chrome:9222"}, zap.NewNop())
	defer r.Close()
	assert.Equal(t, defaultTimeout, r.timeout)

	r2 := NewChromedpRenderer(config.PrintingConfig{ChromeURL: "ws://chrome:9222", Timeout: 5 * time.Second}, zap.NewNop())
	defer r2.Close()
	assert.Equal(t, 5*time.Second, r2.timeout)
}
