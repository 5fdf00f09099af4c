package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/melitech/docengine/internal/numbering"
)

func allocated(t numbering.DocumentType, raw int64, formatted string) numbering.AllocatedNumber {
	return numbering.AllocatedNumber{DocumentType: t, RawValue: raw, Formatted: formatted}
}

func validInput() AssembleInput {
	return AssembleInput{
		Number:       allocated(numbering.TypeInvoice, 1, "INV-000001"),
		DocumentType: numbering.TypeInvoice,
		IssueDate:    time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Client:       Party{Name: "Acme Corporation", Email: "billing@acmecorp.com"},
		Items: []LineItem{
			item("2", 500000, "0"),
			item("1", 100000, "0"),
		},
		ApplyVAT: true,
		VATPct:   dec("16"),
	}
}

func TestAssemble(t *testing.T) {
	doc, err := Assemble(validInput())
	require.NoError(t, err)

	require.Equal(t, "INV-000001", doc.Number.Formatted)
	require.Equal(t, StatusDraft, doc.Status)
	require.Equal(t, Money(1100000), doc.Totals.Subtotal)
	require.Equal(t, Money(176000), doc.Totals.DocumentTax)
	require.Equal(t, Money(1276000), doc.Totals.GrandTotal)
	require.NotEqual(t, doc.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestAssembleRejectsTypeMismatch(t *testing.T) {
	in := validInput()
	in.DocumentType = numbering.TypeReceipt

	_, err := Assemble(in)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAssembleRejectsMissingNumber(t *testing.T) {
	in := validInput()
	in.Number = numbering.AllocatedNumber{}

	_, err := Assemble(in)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAssembleRejectsDueBeforeIssue(t *testing.T) {
	in := validInput()
	due := in.IssueDate.AddDate(0, 0, -1)
	in.DueDate = &due

	_, err := Assemble(in)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAssembleAllowsDueEqualToIssue(t *testing.T) {
	in := validInput()
	due := in.IssueDate
	in.DueDate = &due

	_, err := Assemble(in)
	require.NoError(t, err)
}

func TestAssembleRejectsNegativeItems(t *testing.T) {
	in := validInput()
	in.Items = append(in.Items, item("-1", 100, "0"))

	_, err := Assemble(in)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAssembledTotalsRoundTrip(t *testing.T) {
	doc, err := Assemble(validInput())
	require.NoError(t, err)

	recomputed, err := DocumentTotals(doc.Items, doc.ApplyVAT, doc.VATPct)
	require.NoError(t, err)
	require.Equal(t, doc.Totals.GrandTotal, recomputed.GrandTotal)
	require.NoError(t, doc.VerifyTotals())
}

func TestVerifyTotalsDetectsDrift(t *testing.T) {
	doc, err := Assemble(validInput())
	require.NoError(t, err)

	doc.Totals.GrandTotal++
	require.ErrorIs(t, doc.VerifyTotals(), ErrValidation)
}

func TestReviseKeepsNumberAndIdentity(t *testing.T) {
	doc, err := Assemble(validInput())
	require.NoError(t, err)

	revised, err := doc.Revise([]LineItem{item("1", 250000, "0")}, false, dec("0"), "second pass")
	require.NoError(t, err)

	require.Equal(t, doc.ID, revised.ID)
	require.Equal(t, doc.Number, revised.Number)
	require.Equal(t, Money(250000), revised.Totals.GrandTotal)
	// The original value is untouched.
	require.Equal(t, Money(1276000), doc.Totals.GrandTotal)
}

func TestDisplayStatusDerivesOverdue(t *testing.T) {
	doc, err := Assemble(validInput())
	require.NoError(t, err)
	due := doc.IssueDate.AddDate(0, 0, 14)
	doc.DueDate = &due
	doc.Status = StatusSent

	require.Equal(t, StatusSent, doc.DisplayStatus(due.AddDate(0, 0, -1)))
	require.Equal(t, StatusOverdue, doc.DisplayStatus(due.AddDate(0, 0, 1)))

	doc.Status = StatusPaid
	require.Equal(t, StatusPaid, doc.DisplayStatus(due.AddDate(0, 0, 30)))
}

func TestStatusTransitions(t *testing.T) {
	require.True(t, StatusDraft.CanTransitionTo(StatusSent))
	require.True(t, StatusDraft.CanTransitionTo(StatusVoid))
	require.True(t, StatusSent.CanTransitionTo(StatusPaid))
	require.False(t, StatusPaid.CanTransitionTo(StatusDraft))
	require.False(t, StatusVoid.CanTransitionTo(StatusSent))
	require.False(t, StatusSent.CanTransitionTo(StatusVoid))
}
