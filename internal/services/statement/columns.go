package statement

import "strings"

// ColumnMap assigns the logical transaction fields to physical CSV
// headers. Bank exports do not share a schema, so the assignment is
// heuristic; an empty entry means no header qualified and row-level
// fallbacks apply.
type ColumnMap struct {
	Reference   string
	Amount      string
	Date        string
	Description string
}

var (
	amountHints      = []string{"amount", "value", "sum", "total", "payment"}
	dateHints        = []string{"date", "time", "when"}
	descriptionHints = []string{"desc", "note", "comment", "detail", "memo"}
)

// MapColumns inspects the header row and picks one physical column per
// logical field. Headers are scanned in file order and the first
// qualifying header wins for each field.
func MapColumns(headers []string) ColumnMap {
	var m ColumnMap
	for _, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		if m.Reference == "" && isReferenceHeader(lower) {
			m.Reference = h
		}
		if m.Amount == "" && containsAny(lower, amountHints) {
			m.Amount = h
		}
		if m.Date == "" && containsAny(lower, dateHints) {
			m.Date = h
		}
		if m.Description == "" && containsAny(lower, descriptionHints) {
			m.Description = h
		}
	}
	return m
}

func isReferenceHeader(lower string) bool {
	if lower == "id" {
		return true
	}
	return containsAny(lower, []string{"ref", "student", "number"})
}

func containsAny(s string, hints []string) bool {
	for _, hint := range hints {
		if strings.Contains(s, hint) {
			return true
		}
	}
	return false
}
