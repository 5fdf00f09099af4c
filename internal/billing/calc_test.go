package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(qty string, price Money, rate string) LineItem {
	return LineItem{Quantity: dec(qty), UnitPrice: price, TaxRatePct: dec(rate)}
}

func TestLineNet(t *testing.T) {
	net, err := LineNet(item("2", 500000, "0"))
	require.NoError(t, err)
	require.Equal(t, Money(1000000), net)
}

func TestLineNetFractionalQuantityRoundsHalfUp(t *testing.T) {
	// 2.5 x 101 = 252.5, rounds up to 253.
	net, err := LineNet(item("2.5", 101, "0"))
	require.NoError(t, err)
	require.Equal(t, Money(253), net)
}

func TestLineTotalIncludesTax(t *testing.T) {
	total, err := LineTotal(item("2", 500000, "16"))
	require.NoError(t, err)
	require.Equal(t, Money(1160000), total)
}

func TestLineTotalRoundsOnceAtTheEnd(t *testing.T) {
	// 1.5 x 33 = 49.5, x 1.07 = 52.965 -> 53.
	// Rounding per step instead would give round(49.5)=50, 50 x 1.07 = 53.5 -> 54.
	total, err := LineTotal(item("1.5", 33, "7"))
	require.NoError(t, err)
	require.Equal(t, Money(53), total)
}

func TestLineTotalZeroCases(t *testing.T) {
	total, err := LineTotal(item("0", 500, "16"))
	require.NoError(t, err)
	require.Equal(t, Money(0), total)

	total, err = LineTotal(item("3", 0, "16"))
	require.NoError(t, err)
	require.Equal(t, Money(0), total)
}

func TestLineTotalMonotonic(t *testing.T) {
	prev := Money(-1)
	for _, qty := range []string{"0", "0.5", "1", "2", "10"} {
		total, err := LineTotal(item(qty, 700, "5"))
		require.NoError(t, err)
		require.GreaterOrEqual(t, total, prev)
		prev = total
	}

	prev = Money(-1)
	for _, price := range []Money{0, 1, 99, 100, 10000} {
		total, err := LineTotal(item("2", price, "5"))
		require.NoError(t, err)
		require.GreaterOrEqual(t, total, prev)
		prev = total
	}
}

func TestLineTotalRejectsNegatives(t *testing.T) {
	_, err := LineTotal(item("-1", 500, "0"))
	require.ErrorIs(t, err, ErrValidation)

	_, err = LineTotal(item("1", -500, "0"))
	require.ErrorIs(t, err, ErrValidation)

	_, err = LineTotal(item("1", 500, "-16"))
	require.ErrorIs(t, err, ErrValidation)
}

func TestDocumentTotalsWithoutVAT(t *testing.T) {
	items := []LineItem{
		item("2", 500000, "0"),
		item("1", 100000, "0"),
	}

	totals, err := DocumentTotals(items, false, dec("16"))
	require.NoError(t, err)
	require.Equal(t, Money(1100000), totals.Subtotal)
	require.Equal(t, Money(0), totals.DocumentTax)
	require.Equal(t, Money(1100000), totals.GrandTotal)
}

func TestDocumentTotalsWithVAT(t *testing.T) {
	items := []LineItem{
		item("2", 500000, "0"),
		item("1", 100000, "0"),
	}

	totals, err := DocumentTotals(items, true, dec("16"))
	require.NoError(t, err)
	require.Equal(t, Money(1100000), totals.Subtotal)
	require.Equal(t, Money(176000), totals.DocumentTax)
	require.Equal(t, Money(1276000), totals.GrandTotal)
}

func TestDocumentTotalsEmptyItemsIsValid(t *testing.T) {
	totals, err := DocumentTotals(nil, true, dec("16"))
	require.NoError(t, err)
	require.Equal(t, Money(0), totals.Subtotal)
	require.Equal(t, Money(0), totals.GrandTotal)
	require.Empty(t, totals.Lines)
}

// Per-line tax is presentational only: it shows up in the line figures but
// never flows into subtotal, document tax, or grand total. This pins the
// split behavior down deliberately.
func TestDocumentTotalsIgnoresPerLineTax(t *testing.T) {
	items := []LineItem{
		item("2", 500000, "16"),
		item("1", 100000, "8"),
	}

	totals, err := DocumentTotals(items, false, dec("0"))
	require.NoError(t, err)
	require.Equal(t, Money(1100000), totals.Subtotal)
	require.Equal(t, Money(0), totals.DocumentTax)
	require.Equal(t, Money(1100000), totals.GrandTotal)

	// The per-line display figures still carry the tax-inclusive amounts.
	require.Equal(t, Money(1160000), totals.Lines[0].Total)
	require.Equal(t, Money(160000), totals.Lines[0].Tax)
	require.Equal(t, Money(108000), totals.Lines[1].Total)
}

func TestDocumentTotalsInvariant(t *testing.T) {
	items := []LineItem{
		item("3.5", 1999, "16"),
		item("0.25", 100001, "8"),
		item("7", 42, "0"),
	}

	for _, applyVAT := range []bool{false, true} {
		totals, err := DocumentTotals(items, applyVAT, dec("16"))
		require.NoError(t, err)
		require.Equal(t, totals.Subtotal+totals.DocumentTax, totals.GrandTotal)

		var sum Money
		for _, line := range totals.Lines {
			sum += line.Net
		}
		require.Equal(t, sum, totals.Subtotal)
	}
}

func TestDocumentTotalsRejectsNegativeVAT(t *testing.T) {
	_, err := DocumentTotals(nil, true, dec("-1"))
	require.ErrorIs(t, err, ErrValidation)
}
