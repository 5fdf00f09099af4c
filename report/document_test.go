package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/melitech/docengine/internal/billing"
	"github.com/melitech/docengine/internal/company"
	"github.com/melitech/docengine/internal/numbering"
)

func sampleDocument(t *testing.T) billing.Document {
	t.Helper()
	doc, err := billing.Assemble(billing.AssembleInput{
		Number: numbering.AllocatedNumber{
			DocumentType: numbering.TypeInvoice,
			RawValue:     1,
			Formatted:    "INV-000001",
		},
		DocumentType: numbering.TypeInvoice,
		IssueDate:    time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Client:       billing.Party{Name: "Acme Corporation", Email: "billing@acmecorp.com"},
		Items: []billing.LineItem{
			{Description: "Network setup", UnitOfMeasure: "Pcs", Quantity: decimal.NewFromInt(2), UnitPrice: 500000},
			{Description: "Consultancy", UnitOfMeasure: "Hrs", Quantity: decimal.NewFromInt(1), UnitPrice: 100000},
		},
		ApplyVAT: true,
		VATPct:   decimal.NewFromInt(16),
	})
	require.NoError(t, err)
	return doc
}

func TestFormatMoney(t *testing.T) {
	require.Equal(t, "Ksh 0.00", FormatMoney(0))
	require.Equal(t, "Ksh 0.05", FormatMoney(5))
	require.Equal(t, "Ksh 9.99", FormatMoney(999))
	require.Equal(t, "Ksh 11,000.00", FormatMoney(1100000))
	require.Equal(t, "Ksh 12,760.00", FormatMoney(1276000))
}

func TestDocumentHTMLContainsStoredFigures(t *testing.T) {
	doc := sampleDocument(t)
	profile := company.Profile{
		Name:    "Melitech Solutions",
		Address: "P.O. Box 12345, Nairobi, Kenya",
		Email:   "info@melitechsolutions.co.ke",
		Website: "www.melitechsolutions.co.ke",
	}

	html, err := DocumentHTML(doc, profile)
	require.NoError(t, err)

	require.Contains(t, html, "INVOICE")
	require.Contains(t, html, "INV-000001")
	require.Contains(t, html, "Acme Corporation")
	require.Contains(t, html, "Melitech Solutions")
	require.Contains(t, html, "Ksh 11,000.00") // subtotal
	require.Contains(t, html, "VAT (16%)")
	require.Contains(t, html, "Ksh 1,760.00")  // document tax
	require.Contains(t, html, "Ksh 12,760.00") // grand total
	require.Contains(t, html, "10 Feb 2026")
}

func TestDocumentHTMLWithoutVATOmitsTaxRow(t *testing.T) {
	doc := sampleDocument(t)
	revised, err := doc.Revise(doc.Items, false, decimal.Zero, "")
	require.NoError(t, err)

	html, err := DocumentHTML(revised, company.Profile{Name: "Melitech Solutions"})
	require.NoError(t, err)
	require.NotContains(t, html, "VAT (")
	require.Contains(t, html, "Ksh 11,000.00")
}

func TestDocumentHTMLEscapesUntrustedInput(t *testing.T) {
	doc := sampleDocument(t)
	doc.Client.Name = "<script>alert(1)</script>"

	html, err := DocumentHTML(doc, company.Profile{})
	require.NoError(t, err)
	require.NotContains(t, html, "<script>alert(1)</script>")
}
