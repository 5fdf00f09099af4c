// Package numbering issues unique, human-readable document numbers per
// tenant and document type. Formatting is pure; allocation is a single
// atomic step at the storage layer.
package numbering

import (
	"errors"
	"fmt"
)

// DocumentType identifies an independently numbered document sequence.
type DocumentType string

const (
	TypeInvoice  DocumentType = "invoice"
	TypeEstimate DocumentType = "estimate"
	TypeReceipt  DocumentType = "receipt"
	TypeProposal DocumentType = "proposal"
	TypeExpense  DocumentType = "expense"
)

// ErrUnknownDocumentType indicates a document type outside the closed set.
var ErrUnknownDocumentType = errors.New("numbering: unknown document type")

// ErrNegativeValue indicates a negative counter value was passed to the formatter.
var ErrNegativeValue = errors.New("numbering: negative counter value")

// ErrTransient indicates the counter store could not complete its atomic
// step (timeout, contention). The call is safe to retry; if the step never
// committed, no value was consumed.
var ErrTransient = errors.New("numbering: transient store failure")

// DocumentTypes lists every supported type in display order.
var DocumentTypes = []DocumentType{TypeInvoice, TypeEstimate, TypeReceipt, TypeProposal, TypeExpense}

// ParseDocumentType validates a raw string against the closed type set.
func ParseDocumentType(raw string) (DocumentType, error) {
	switch DocumentType(raw) {
	case TypeInvoice, TypeEstimate, TypeReceipt, TypeProposal, TypeExpense:
		return DocumentType(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDocumentType, raw)
}

// DefaultPrefix returns the conventional prefix suggestion for a type.
// Stored configs default to an empty prefix; this is only a hint for
// configuration screens.
func DefaultPrefix(t DocumentType) string {
	switch t {
	case TypeInvoice:
		return "INV"
	case TypeEstimate:
		return "EST"
	case TypeReceipt:
		return "REC"
	case TypeProposal:
		return "PROP"
	case TypeExpense:
		return "EXP"
	}
	return ""
}

// ValidSeparator reports whether s is one of the permitted separators:
// "-", "_", ".", "/" or the empty string.
func ValidSeparator(s string) bool {
	switch s {
	case "-", "_", ".", "/", "":
		return true
	}
	return false
}

// Format configuration defaults for a previously unseen (tenant, type) pair.
const (
	DefaultSeparator = "-"
	DefaultPadding   = 6
	DefaultCounter   = 1

	MinPadding = 2
	MaxPadding = 8
)

// FormatConfig is the stored numbering configuration for one
// (tenant, document type) pair. Counter holds the next value to issue.
type FormatConfig struct {
	Prefix    string `json:"prefix"`
	Separator string `json:"separator"`
	Padding   int    `json:"padding"`
	Counter   int64  `json:"counter"`
}

// DefaultFormatConfig returns the config created on first access.
func DefaultFormatConfig() FormatConfig {
	return FormatConfig{
		Separator: DefaultSeparator,
		Padding:   DefaultPadding,
		Counter:   DefaultCounter,
	}
}

// FormatUpdate is a partial update of the format fields. Nil fields are left
// untouched. The counter is never part of an update; it only moves through
// allocation or an explicit reset.
type FormatUpdate struct {
	Prefix    *string
	Separator *string
	Padding   *int
}

// AllocatedNumber is the immutable result of one allocation. It is safe to
// cache and display repeatedly; the raw value is never handed out twice.
type AllocatedNumber struct {
	DocumentType DocumentType `json:"documentType"`
	RawValue     int64        `json:"rawValue"`
	Formatted    string       `json:"formatted"`
}
