// Package billing computes monetary totals and assembles immutable document
// models. All stored amounts are integer minor currency units; decimals only
// appear as quantities, rates, and computation intermediates.
package billing

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/melitech/docengine/internal/numbering"
)

// Money is an amount in minor currency units (e.g. cents).
type Money int64

// ErrValidation is the root of every caller-fixable input rejection.
var ErrValidation = errors.New("billing: validation failed")

// LineItem is one row of a document under construction. Ephemeral until the
// document is assembled.
type LineItem struct {
	Description   string          `json:"description"`
	UnitOfMeasure string          `json:"unitOfMeasure"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     Money           `json:"unitPrice"`
	TaxRatePct    decimal.Decimal `json:"taxRatePercent"`
}

// LineAmounts carries the per-line figures derived from a LineItem. Tax and
// Total are presentational: the persisted document totals use only the
// document-level VAT toggle.
type LineAmounts struct {
	Net   Money `json:"net"`
	Tax   Money `json:"tax"`
	Total Money `json:"total"`
}

// TotalsResult is the money summary of a document.
type TotalsResult struct {
	Subtotal    Money         `json:"subtotal"`
	DocumentTax Money         `json:"documentTax"`
	GrandTotal  Money         `json:"grandTotal"`
	Lines       []LineAmounts `json:"lines"`
}

// Party is the client snapshot embedded in a document. Documents keep their
// own copy so later edits to the client record never change an issued
// document.
type Party struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Status is the document lifecycle state. Transitions are enforced by the
// persistence layer, not this engine; overdue is derived, never stored.
type Status string

const (
	StatusDraft Status = "draft"
	StatusSent  Status = "sent"
	StatusPaid  Status = "paid"
	StatusVoid  Status = "void"

	// StatusOverdue is a display-only state computed from the due date.
	StatusOverdue Status = "overdue"
)

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusSent || next == StatusVoid
	case StatusSent:
		return next == StatusPaid
	}
	return false
}

// Document is the immutable aggregate handed to persistence and rendering.
// Once numbered it is never edited in place; Revise produces a new value
// that reuses the same allocated number.
type Document struct {
	ID        uuid.UUID                 `json:"id"`
	Number    numbering.AllocatedNumber `json:"number"`
	IssueDate time.Time                 `json:"issueDate"`
	DueDate   *time.Time                `json:"dueDate,omitempty"`
	Client    Party                     `json:"client"`
	Items     []LineItem                `json:"items"`
	ApplyVAT  bool                      `json:"applyVat"`
	VATPct    decimal.Decimal           `json:"vatPercent"`
	Totals    TotalsResult              `json:"totals"`
	Notes     string                    `json:"notes,omitempty"`
	Status    Status                    `json:"status"`
}

// DisplayStatus derives the state shown to users. A sent document past its
// due date reads as overdue without any stored transition.
func (d Document) DisplayStatus(now time.Time) Status {
	if d.Status == StatusSent && d.DueDate != nil && d.DueDate.Before(now) {
		return StatusOverdue
	}
	return d.Status
}
