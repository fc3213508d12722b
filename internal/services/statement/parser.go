package statement

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one bank-statement line decoded into typed fields.
// It only lives for the duration of a reconciliation run; its effects
// are persisted, the transaction itself is not.
type Transaction struct {
	Reference   string          `json:"reference"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"transaction_date"`
	Description string          `json:"description,omitempty"`
}

// RowError is a row the parser rejected, kept with the raw values so
// the operator can fix the export and retry.
type RowError struct {
	Row    map[string]string `json:"row"`
	Reason string            `json:"reason"`
}

// Row is one raw CSV record keyed by header, preserving header order so
// fallback scans are deterministic.
type Row struct {
	headers []string
	values  map[string]string
}

func (r Row) Get(key string) string {
	return strings.TrimSpace(r.values[key])
}

func (r Row) Map() map[string]string {
	return r.values
}

func (r Row) blank() bool {
	for _, v := range r.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var (
	referenceKeyPattern = regexp.MustCompile(`(?i)ref|student|number`)
	dateKeyPattern      = regexp.MustCompile(`(?i)date|time`)
	digitRunPattern     = regexp.MustCompile(`\d{6,7}`)
)

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"2006/01/02",
	"02/01/2006",
	time.RFC3339,
}

var ErrMissingHeader = errors.New("cannot read CSV header")

// ParseFile decodes a whole statement export: header first, then every
// row. Rejected rows are collected, never fatal; only an unreadable
// header or a broken stream aborts the parse.
func ParseFile(r io.Reader, now time.Time) ([]Transaction, []RowError, error) {
	br := bufio.NewReader(r)
	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	// Some bank exports are tab separated.
	if sample, err := br.Peek(1024); err == nil || err == io.EOF {
		if bytes.Contains(sample, []byte("\t")) && !bytes.Contains(sample, []byte(",")) {
			reader.Comma = '\t'
		}
	}

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, ErrMissingHeader
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	columns := MapColumns(headers)

	var txs []Transaction
	var rowErrs []RowError

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{
				Row:    map[string]string{"raw": strings.Join(record, ",")},
				Reason: err.Error(),
			})
			continue
		}

		row := newRow(headers, record)
		if row.blank() {
			continue
		}

		tx, reason := ParseRow(row, columns, now)
		if tx == nil {
			rowErrs = append(rowErrs, RowError{Row: row.Map(), Reason: reason})
			continue
		}
		txs = append(txs, *tx)
	}

	return txs, rowErrs, nil
}

func newRow(headers, record []string) Row {
	values := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(record) {
			values[h] = record[i]
		} else {
			values[h] = ""
		}
	}
	return Row{headers: headers, values: values}
}

// ParseRow decodes one record using the column map, falling back to
// key and value scans when the map left a field unassigned. A nil
// transaction with a non-empty reason is a rejected row.
func ParseRow(row Row, columns ColumnMap, now time.Time) (*Transaction, string) {
	description := ""
	if columns.Description != "" {
		description = row.Get(columns.Description)
	}

	reference := resolveReference(row, columns, description)
	if reference == "" {
		return nil, "missing reference"
	}

	amount, ok := resolveAmount(row, columns)
	if !ok {
		return nil, "invalid amount"
	}

	return &Transaction{
		Reference:   reference,
		Amount:      amount,
		Date:        resolveDate(row, columns, now),
		Description: description,
	}, ""
}

func resolveReference(row Row, columns ColumnMap, description string) string {
	if columns.Reference != "" {
		if v := row.Get(columns.Reference); v != "" {
			return v
		}
	}
	for _, key := range row.headers {
		if referenceKeyPattern.MatchString(key) {
			if v := row.Get(key); v != "" {
				return v
			}
		}
	}
	if description != "" {
		return ExtractReference(description)
	}
	return ""
}

// ExtractReference mines a free-text description for a usable
// reference. Precedence: a 6-7 digit run, then the text preceding a
// "grade"/"gr" token, then the whole trimmed description. The last
// attempt almost never matches an invoice and exists so the row lands
// in the unmatched list for manual review instead of being dropped.
func ExtractReference(description string) string {
	d := strings.TrimSpace(description)
	if run := digitRunPattern.FindString(d); run != "" {
		return run
	}
	lower := strings.ToLower(d)
	for _, token := range []string{"grade", "gr"} {
		if i := strings.Index(lower, token); i >= 0 {
			if before := strings.TrimSpace(d[:i]); before != "" {
				return before
			}
		}
	}
	return d
}

func resolveAmount(row Row, columns ColumnMap) (decimal.Decimal, bool) {
	if columns.Amount != "" {
		if v := row.Get(columns.Amount); v != "" {
			amount, err := parseAmount(v)
			if err != nil || !amount.IsPositive() {
				return decimal.Zero, false
			}
			return amount, true
		}
		return decimal.Zero, false
	}
	for _, key := range row.headers {
		amount, err := parseAmount(row.Get(key))
		if err == nil && amount.IsPositive() {
			return amount, true
		}
	}
	return decimal.Zero, false
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	return decimal.NewFromString(s)
}

func resolveDate(row Row, columns ColumnMap, now time.Time) time.Time {
	if columns.Date != "" {
		if d, ok := parseDate(row.Get(columns.Date)); ok {
			return d
		}
	}
	for _, key := range row.headers {
		if key == columns.Date || !dateKeyPattern.MatchString(key) {
			continue
		}
		if d, ok := parseDate(row.Get(key)); ok {
			return d
		}
	}
	return midnight(now)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return midnight(d), true
		}
	}
	return time.Time{}, false
}

// midnight normalizes to a calendar date in UTC so the duplicate check
// compares dates, not instants.
func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
