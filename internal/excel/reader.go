// Package excel reads uploaded spreadsheets into row maps and writes the
// downloadable import templates.
package excel

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned when an uploaded file is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Table is the parsed content of an uploaded file. Headers keep their column
// order; each row maps sanitized header name to the raw cell value.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Parse reads an uploaded csv or xlsx payload into a Table. The first
// non-empty row is taken as the header row; fully empty rows are dropped.
func Parse(fileName string, payload []byte) (Table, error) {
	if len(payload) == 0 {
		return Table{}, errors.New("file is empty")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return parseCSV(payload)
	case ".xlsx", ".xlsm":
		return parseExcel(payload)
	case ".xls":
		// Legacy BIFF workbooks cannot be read; the fix is on the client side.
		return Table{}, fmt.Errorf("%w: %s, re-save the workbook as .xlsx", ErrUnsupportedFormat, ext)
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte) (Table, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read csv: %w", err)
	}

	return normalizeTable(records)
}

func parseExcel(payload []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return Table{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errors.New("excel file has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}

	return normalizeTable(records)
}

func normalizeTable(records [][]string) (Table, error) {
	if len(records) == 0 {
		return Table{}, errors.New("no rows found in file")
	}

	var headerRow []string
	var dataRows [][]string
	for _, row := range records {
		if isEmptyRow(row) {
			continue
		}
		if headerRow == nil {
			headerRow = row
			continue
		}
		dataRows = append(dataRows, row)
	}

	if headerRow == nil {
		return Table{}, errors.New("header row could not be detected")
	}

	headers := SanitizeHeaders(headerRow)
	rows := make([]map[string]string, 0, len(dataRows))
	for _, row := range dataRows {
		padded := padRow(row, len(headers))
		values := make(map[string]string, len(headers))
		for i, header := range headers {
			values[header] = strings.TrimSpace(padded[i])
		}
		rows = append(rows, values)
	}

	return Table{Headers: headers, Rows: rows}, nil
}

// SanitizeHeaders folds header labels to stable keys: lower-cased, accent
// stripped, separators collapsed to underscores, duplicates suffixed.
func SanitizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int)

	for idx, value := range raw {
		name := foldAccents(strings.ToLower(strings.TrimSpace(value)))
		name = strings.ReplaceAll(name, " ", "_")
		name = strings.ReplaceAll(name, ".", "_")
		name = strings.ReplaceAll(name, "-", "_")
		name = strings.ReplaceAll(name, "'", "_")
		name = strings.Trim(name, "_")
		if name == "" {
			name = fmt.Sprintf("column_%d", idx+1)
		}

		base := name
		count := seen[base]
		if count > 0 {
			name = fmt.Sprintf("%s_%d", base, count+1)
		}
		seen[base] = count + 1

		headers[idx] = name
	}

	return headers
}

var accentFolds = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
)

func foldAccents(value string) string {
	return accentFolds.Replace(value)
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
