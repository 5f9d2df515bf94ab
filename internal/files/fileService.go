package files

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
)

// the only accepted upload types; everything else is rejected before any
// processing happens
var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

const maxXlsRows = 1 << 20

func ValidExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SaveUpload writes an uploaded stream under dir and returns the stored path.
func SaveUpload(dir, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("storing upload: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return path, nil
}

// LoadTable reads a csv, xlsx or xls file into a RawTable. The first row is
// the header; short rows are padded so every row matches the header width.
func LoadTable(path string) (invoiceModel.RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	case ".xls":
		return loadXLS(path)
	default:
		return invoiceModel.RawTable{}, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}
}

func loadCSV(path string) (invoiceModel.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return invoiceModel.RawTable{}, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return invoiceModel.RawTable{}, fmt.Errorf("reading csv: %w", err)
	}
	return tableFromRows(rows)
}

func loadXLSX(path string) (invoiceModel.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return invoiceModel.RawTable{}, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return invoiceModel.RawTable{}, fmt.Errorf("xlsx file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return invoiceModel.RawTable{}, fmt.Errorf("reading xlsx sheet %s: %w", sheets[0], err)
	}
	return tableFromRows(rows)
}

func loadXLS(path string) (invoiceModel.RawTable, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return invoiceModel.RawTable{}, fmt.Errorf("opening xls: %w", err)
	}
	return tableFromRows(wb.ReadAllCells(maxXlsRows))
}

func tableFromRows(rows [][]string) (invoiceModel.RawTable, error) {
	if len(rows) == 0 {
		return invoiceModel.RawTable{}, fmt.Errorf("no data found in the file")
	}

	table := invoiceModel.RawTable{Columns: rows[0]}
	width := len(table.Columns)
	for _, row := range rows[1:] {
		padded := make([]string, width)
		copy(padded, row)
		table.Rows = append(table.Rows, padded)
	}
	return table, nil
}

// WriteCSV persists a table under path, creating parent directories.
// Uploaded xlsx/xls files and mapped tables are stored this way so later
// processing always reads plain csv.
func WriteCSV(path string, table invoiceModel.RawTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("writing csv rows: %w", err)
	}
	w.Flush()
	return w.Error()
}

var mappingKeywords = map[string][]string{
	invoiceModel.FieldDate:    {"fecha", "date", "dia", "day", "time"},
	invoiceModel.FieldClient:  {"cliente", "client", "customer", "nombre", "name"},
	invoiceModel.FieldCountry: {"pais", "country", "nacion", "location"},
	invoiceModel.FieldAmount:  {"importe", "amount", "valor", "precio", "price", "total"},
}

// SuggestMappings proposes, for each canonical field, the first column whose
// name contains one of the field's keywords. Best effort: fields with no
// match are simply absent from the result.
func SuggestMappings(columns []string) map[string]string {
	suggested := make(map[string]string)
	for _, field := range invoiceModel.CanonicalFields() {
		for _, col := range columns {
			if containsAny(strings.ToLower(col), mappingKeywords[field]) {
				suggested[field] = col
				break
			}
		}
	}
	return suggested
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// ApplyMapping restricts a table to the four canonical fields via the given
// mapping. Returns the canonical fields that are unmapped or whose mapped
// column does not exist in the source; a non-empty slice means nothing was
// produced.
func ApplyMapping(table invoiceModel.RawTable, mapping invoiceModel.ColumnMapping) (invoiceModel.RawTable, []string) {
	colIndex := make(map[string]int, len(table.Columns))
	for i, col := range table.Columns {
		colIndex[col] = i
	}

	var missing []string
	sourceIdx := make([]int, 0, 4)
	for _, field := range invoiceModel.CanonicalFields() {
		source, ok := mapping[field]
		if !ok || source == "" {
			missing = append(missing, field)
			continue
		}
		idx, ok := colIndex[source]
		if !ok {
			missing = append(missing, field)
			continue
		}
		sourceIdx = append(sourceIdx, idx)
	}
	if len(missing) > 0 {
		return invoiceModel.RawTable{}, missing
	}

	mapped := invoiceModel.RawTable{Columns: invoiceModel.CanonicalFields()}
	for _, row := range table.Rows {
		newRow := make([]string, len(sourceIdx))
		for i, idx := range sourceIdx {
			if idx < len(row) {
				newRow[i] = row[idx]
			}
		}
		mapped.Rows = append(mapped.Rows, newRow)
	}
	return mapped, nil
}

// Preview returns up to n rows as column->value maps for the analyze endpoint.
func Preview(table invoiceModel.RawTable, n int) []map[string]string {
	if n > len(table.Rows) {
		n = len(table.Rows)
	}
	preview := make([]map[string]string, 0, n)
	for _, row := range table.Rows[:n] {
		entry := make(map[string]string, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(row) {
				entry[col] = row[i]
			}
		}
		preview = append(preview, entry)
	}
	return preview
}
