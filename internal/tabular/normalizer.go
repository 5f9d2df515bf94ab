package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
)

// MissingColumnsError reports canonical columns absent from an input table.
// Input validation, not a downstream failure: handlers turn it into a 4xx.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

type NormalizeResult struct {
	Records []invoiceModel.Record
	RowsIn  int
	RowsOut int
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Normalize coerces a raw table into Records. Rows with an unparseable date
// or amount, or an empty client/country, are dropped silently - only the
// in/out counts are observable. Returns MissingColumnsError when any of the
// four canonical columns is absent.
func Normalize(table invoiceModel.RawTable) (NormalizeResult, error) {
	result := NormalizeResult{RowsIn: len(table.Rows)}

	index := make(map[string]int, len(table.Columns))
	for i, col := range table.Columns {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, field := range invoiceModel.CanonicalFields() {
		if _, ok := index[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return result, &MissingColumnsError{Missing: missing}
	}

	dateCol := index[invoiceModel.FieldDate]
	clientCol := index[invoiceModel.FieldClient]
	countryCol := index[invoiceModel.FieldCountry]
	amountCol := index[invoiceModel.FieldAmount]

	for rowIdx, row := range table.Rows {
		date, ok := parseDate(cell(row, dateCol))
		if !ok {
			continue
		}
		amount, ok := parseAmount(cell(row, amountCol))
		if !ok {
			continue
		}
		client := strings.TrimSpace(cell(row, clientCol))
		country := strings.TrimSpace(cell(row, countryCol))
		if client == "" || country == "" {
			continue
		}

		result.Records = append(result.Records, invoiceModel.Record{
			Row:     rowIdx,
			Date:    date,
			Client:  client,
			Country: country,
			Amount:  amount,
			Month:   int(date.Month()),
			Year:    date.Year(),
		})
	}

	result.RowsOut = len(result.Records)
	return result, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount tolerates currency symbols, thousands separators and comma
// decimals: "1.234,56", "$ 1,234.56" and "1234.56" all parse to the same value.
func parseAmount(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "$€ \t")
	if raw == "" {
		return 0, false
	}

	hasDot := strings.Contains(raw, ".")
	hasComma := strings.Contains(raw, ",")
	switch {
	case hasDot && hasComma:
		//the rightmost separator is the decimal one
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.ReplaceAll(raw, ",", ".")
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case hasComma:
		raw = strings.ReplaceAll(raw, ",", ".")
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
