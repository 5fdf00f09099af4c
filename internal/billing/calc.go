package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// All money math runs in decimal intermediates and rounds exactly once per
// figure, half up on the minor unit. Rounding per multiplication step would
// compound error across lines.

var oneHundred = decimal.NewFromInt(100)

// roundMinor rounds a decimal amount half up to whole minor units. Inputs
// are validated non-negative first, so half away from zero is half up here.
func roundMinor(d decimal.Decimal) Money {
	return Money(d.Round(0).IntPart())
}

func validateItem(item LineItem) error {
	if item.Quantity.IsNegative() {
		return fmt.Errorf("%w: negative quantity %s", ErrValidation, item.Quantity)
	}
	if item.UnitPrice < 0 {
		return fmt.Errorf("%w: negative unit price %d", ErrValidation, item.UnitPrice)
	}
	if item.TaxRatePct.IsNegative() {
		return fmt.Errorf("%w: negative tax rate %s", ErrValidation, item.TaxRatePct)
	}
	return nil
}

// LineNet computes round(quantity x unitPrice) for one line.
func LineNet(item LineItem) (Money, error) {
	if err := validateItem(item); err != nil {
		return 0, err
	}
	net := item.Quantity.Mul(decimal.NewFromInt(int64(item.UnitPrice)))
	return roundMinor(net), nil
}

// LineTotal computes the tax-inclusive line figure,
// round(quantity x unitPrice x (1 + taxRate/100)). The multiplication by
// (100 + rate) followed by a scale shift keeps the intermediate exact; the
// single rounding happens at the end. Display-only: document totals never
// sum these.
func LineTotal(item LineItem) (Money, error) {
	if err := validateItem(item); err != nil {
		return 0, err
	}
	gross := item.Quantity.Mul(decimal.NewFromInt(int64(item.UnitPrice)))
	total := gross.Mul(oneHundred.Add(item.TaxRatePct)).Shift(-2)
	return roundMinor(total), nil
}

// DocumentTotals computes the persisted money summary. The subtotal sums
// per-line rounded nets (so a human reconciling lines against the subtotal
// sees them add up), document tax applies the VAT toggle to that subtotal,
// and the grand total is their sum. An empty item list is a valid draft and
// totals to zero.
func DocumentTotals(items []LineItem, applyVAT bool, vatPct decimal.Decimal) (TotalsResult, error) {
	if vatPct.IsNegative() {
		return TotalsResult{}, fmt.Errorf("%w: negative VAT rate %s", ErrValidation, vatPct)
	}

	result := TotalsResult{Lines: make([]LineAmounts, 0, len(items))}
	for _, item := range items {
		net, err := LineNet(item)
		if err != nil {
			return TotalsResult{}, err
		}
		total, err := LineTotal(item)
		if err != nil {
			return TotalsResult{}, err
		}
		result.Lines = append(result.Lines, LineAmounts{
			Net:   net,
			Tax:   total - net,
			Total: total,
		})
		result.Subtotal += net
	}

	if applyVAT {
		tax := decimal.NewFromInt(int64(result.Subtotal)).Mul(vatPct).Shift(-2)
		result.DocumentTax = roundMinor(tax)
	}
	result.GrandTotal = result.Subtotal + result.DocumentTax
	return result, nil
}
