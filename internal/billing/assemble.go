package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/melitech/docengine/internal/numbering"
)

// AssembleInput collects everything a document is built from. Totals are
// always recomputed from the items here; the engine is the single source of
// truth for money math.
type AssembleInput struct {
	Number       numbering.AllocatedNumber
	DocumentType numbering.DocumentType
	IssueDate    time.Time
	DueDate      *time.Time
	Client       Party
	Items        []LineItem
	ApplyVAT     bool
	VATPct       decimal.Decimal
	Notes        string
}

// Assemble validates the input and produces an immutable Document in draft
// state. The allocated number must match the intended document type, and the
// issue date must not fall after the due date when one is present.
func Assemble(in AssembleInput) (Document, error) {
	if in.Number.Formatted == "" {
		return Document{}, fmt.Errorf("%w: document requires an allocated number", ErrValidation)
	}
	if in.Number.DocumentType != in.DocumentType {
		return Document{}, fmt.Errorf("%w: number %s was allocated for %s, not %s",
			ErrValidation, in.Number.Formatted, in.Number.DocumentType, in.DocumentType)
	}
	if in.IssueDate.IsZero() {
		return Document{}, fmt.Errorf("%w: issue date is required", ErrValidation)
	}
	if in.DueDate != nil && in.IssueDate.After(*in.DueDate) {
		return Document{}, fmt.Errorf("%w: issue date %s is after due date %s",
			ErrValidation, in.IssueDate.Format("2006-01-02"), in.DueDate.Format("2006-01-02"))
	}

	totals, err := DocumentTotals(in.Items, in.ApplyVAT, in.VATPct)
	if err != nil {
		return Document{}, err
	}

	items := append([]LineItem(nil), in.Items...)
	var due *time.Time
	if in.DueDate != nil {
		d := *in.DueDate
		due = &d
	}

	return Document{
		ID:        uuid.New(),
		Number:    in.Number,
		IssueDate: in.IssueDate,
		DueDate:   due,
		Client:    in.Client,
		Items:     items,
		ApplyVAT:  in.ApplyVAT,
		VATPct:    in.VATPct,
		Totals:    totals,
		Notes:     in.Notes,
		Status:    StatusDraft,
	}, nil
}

// Revise produces a new Document carrying the same identity and allocated
// number with replacement content. Numbers are permanently associated with
// their logical document; an edit never re-allocates.
func (d Document) Revise(items []LineItem, applyVAT bool, vatPct decimal.Decimal, notes string) (Document, error) {
	revised, err := Assemble(AssembleInput{
		Number:       d.Number,
		DocumentType: d.Number.DocumentType,
		IssueDate:    d.IssueDate,
		DueDate:      d.DueDate,
		Client:       d.Client,
		Items:        items,
		ApplyVAT:     applyVAT,
		VATPct:       vatPct,
		Notes:        notes,
	})
	if err != nil {
		return Document{}, err
	}
	revised.ID = d.ID
	revised.Status = d.Status
	return revised, nil
}

// VerifyTotals recomputes the document's totals from its stored line items
// and reports whether the stored grand total still matches. Callers check
// this before rendering rather than letting the renderer re-derive money.
func (d Document) VerifyTotals() error {
	recomputed, err := DocumentTotals(d.Items, d.ApplyVAT, d.VATPct)
	if err != nil {
		return err
	}
	if recomputed.GrandTotal != d.Totals.GrandTotal {
		return fmt.Errorf("%w: stored grand total %d does not match recomputed %d",
			ErrValidation, d.Totals.GrandTotal, recomputed.GrandTotal)
	}
	return nil
}
