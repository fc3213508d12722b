package statement

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

func parseAll(t *testing.T, csvContent string) ([]Transaction, []RowError) {
	t.Helper()
	txs, rowErrs, err := ParseFile(strings.NewReader(csvContent), testNow)
	require.NoError(t, err)
	return txs, rowErrs
}

func TestParseFileMappedColumns(t *testing.T) {
	txs, rowErrs := parseAll(t,
		"Reference,Amount,Date,Description\n"+
			"HAR001,500.00,2026-01-15,Term one fees\n")

	require.Len(t, txs, 1)
	assert.Empty(t, rowErrs)
	assert.Equal(t, "HAR001", txs[0].Reference)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("500.00")))
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), txs[0].Date)
	assert.Equal(t, "Term one fees", txs[0].Description)
}

func TestParseFileSkipsBlankRows(t *testing.T) {
	txs, rowErrs := parseAll(t,
		"Reference,Amount,Date\n"+
			"HAR001,100,2026-01-15\n"+
			",,\n"+
			"  , ,  \n"+
			"HAR002,200,2026-01-16\n")

	assert.Len(t, txs, 2)
	assert.Empty(t, rowErrs)
}

func TestParseFileRejectsInvalidAmount(t *testing.T) {
	txs, rowErrs := parseAll(t,
		"Reference,Amount,Date\n"+
			"HAR001,abc,2026-01-15\n"+
			"HAR002,-50,2026-01-15\n"+
			"HAR003,0,2026-01-15\n")

	assert.Empty(t, txs)
	require.Len(t, rowErrs, 3)
	for _, re := range rowErrs {
		assert.Equal(t, "invalid amount", re.Reason)
	}
}

func TestParseFileRejectsMissingReference(t *testing.T) {
	txs, rowErrs := parseAll(t,
		"Reference,Amount,Date\n"+
			",100,2026-01-15\n")

	assert.Empty(t, txs)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, "missing reference", rowErrs[0].Reason)
	assert.Equal(t, "100", rowErrs[0].Row["Amount"])
}

func TestParseFileReferenceKeyScanFallback(t *testing.T) {
	// Mapped column ("Ref") is empty; the key scan finds the value in
	// the next reference-like column.
	txs, rowErrs := parseAll(t,
		"Ref,Student Number,Amount,Date\n"+
			",654321,75.50,2026-01-15\n")

	require.Len(t, txs, 1)
	assert.Empty(t, rowErrs)
	assert.Equal(t, "654321", txs[0].Reference)
}

func TestParseFileAmountValueScanFallback(t *testing.T) {
	// No amount-like header: the first value that parses to a positive
	// number is taken.
	txs, _ := parseAll(t,
		"Student,Info,Misc\n"+
			"HAR001,hello,75.50\n")

	require.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("75.50")))
}

func TestParseFileDateFallsBackToNow(t *testing.T) {
	txs, _ := parseAll(t,
		"Reference,Amount\n"+
			"HAR001,100\n")

	require.Len(t, txs, 1)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), txs[0].Date)
}

func TestParseFileDateKeyScanFallback(t *testing.T) {
	txs, _ := parseAll(t,
		"Reference,Amount,Date,Posting Time\n"+
			"HAR001,100,bogus,2026-02-03\n")

	require.Len(t, txs, 1)
	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), txs[0].Date)
}

func TestParseFileReferenceMinedFromDescription(t *testing.T) {
	txs, _ := parseAll(t,
		"Amount,Posted,Description\n"+
			"100,2026-01-15,School fees 1234567 term one\n")

	require.Len(t, txs, 1)
	assert.Equal(t, "1234567", txs[0].Reference)
}

func TestParseFileTabDelimited(t *testing.T) {
	txs, rowErrs := parseAll(t,
		"Reference\tAmount\tDate\n"+
			"HAR001\t500\t2026-01-15\n")

	require.Len(t, txs, 1)
	assert.Empty(t, rowErrs)
	assert.Equal(t, "HAR001", txs[0].Reference)
}

func TestParseFileAmountWithThousandsSeparator(t *testing.T) {
	txs, _ := parseAll(t,
		"Reference,Amount,Date\n"+
			"HAR001,\"1,250.00\",2026-01-15\n")

	require.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("1250.00")))
}

func TestExtractReferencePrecedence(t *testing.T) {
	cases := []struct {
		description string
		expected    string
	}{
		{"School fees 1234567 term one", "1234567"}, // digit run first
		{"123456 grade 2", "123456"},                // digit run beats grade token
		{"John Mukasa Grade 5", "John Mukasa"},      // text before grade token
		{"HAR gr 3", "HAR"},                         // short gr token
		{"grade 4 only", "grade 4 only"},            // nothing before token, whole text
		{"  plain narrative  ", "plain narrative"},  // trimmed catch-all
		{"12345 short run stays text", "12345 short run stays text"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, ExtractReference(tc.description), "description %q", tc.description)
	}
}
