package numbering

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatZeroPads(t *testing.T) {
	cfg := FormatConfig{Prefix: "INV", Separator: "-", Padding: 6, Counter: 1}

	got, err := Format(cfg, 1)
	require.NoError(t, err)
	require.Equal(t, "INV-000001", got)
}

func TestFormatWithoutPrefix(t *testing.T) {
	cfg := FormatConfig{Separator: "-", Padding: 4, Counter: 1}

	got, err := Format(cfg, 37)
	require.NoError(t, err)
	require.Equal(t, "0037", got)
}

func TestFormatPaddingIsMinimumWidth(t *testing.T) {
	cfg := FormatConfig{Prefix: "REC", Separator: "/", Padding: 3, Counter: 1}

	got, err := Format(cfg, 123456)
	require.NoError(t, err)
	require.Equal(t, "REC/123456", got)
}

func TestFormatSeparators(t *testing.T) {
	for _, sep := range []string{"-", "_", ".", "/", ""} {
		cfg := FormatConfig{Prefix: "EST", Separator: sep, Padding: 2}
		got, err := Format(cfg, 9)
		require.NoError(t, err)
		require.Equal(t, "EST"+sep+"09", got)
	}
}

func TestFormatRejectsNegativeValue(t *testing.T) {
	_, err := Format(DefaultFormatConfig(), -1)
	require.ErrorIs(t, err, ErrNegativeValue)
}

func TestFormatInjectiveForFixedConfig(t *testing.T) {
	cfg := FormatConfig{Prefix: "INV", Separator: "-", Padding: 4}

	seen := make(map[string]int64)
	for _, n := range []int64{0, 1, 7, 99, 100, 999, 1000, 9999, 10000, 123456789} {
		got, err := Format(cfg, n)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(got), len("INV-")+cfg.Padding)
		prev, dup := seen[got]
		require.False(t, dup, "values %d and %d collide on %q", prev, n, got)
		seen[got] = n
	}
}

func TestPreviewUsesCounterWithoutConsuming(t *testing.T) {
	cfg := FormatConfig{Prefix: "PROP", Separator: "-", Padding: 5, Counter: 42}

	got, err := Preview(cfg)
	require.NoError(t, err)
	require.Equal(t, "PROP-00042", got)
	require.Equal(t, int64(42), cfg.Counter)
}

func TestParseDocumentType(t *testing.T) {
	for _, dt := range DocumentTypes {
		parsed, err := ParseDocumentType(string(dt))
		require.NoError(t, err)
		require.Equal(t, dt, parsed)
	}

	_, err := ParseDocumentType("payslip")
	require.ErrorIs(t, err, ErrUnknownDocumentType)
}

func TestDefaultPrefixCoversEveryType(t *testing.T) {
	for _, dt := range DocumentTypes {
		require.NotEmpty(t, DefaultPrefix(dt), fmt.Sprintf("no prefix suggestion for %s", dt))
	}
}
