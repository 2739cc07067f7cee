package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Template builds an empty xlsx workbook with the canonical column headers
// for a given import kind. Clients fill it in and upload it back.
func Template(sheetName string, headers []string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("failed to name template sheet: %w", err)
	}

	row := make([]any, len(headers))
	for i, header := range headers {
		row[i] = header
	}
	if err := f.SetSheetRow(sheetName, "A1", &row); err != nil {
		return nil, fmt.Errorf("failed to write template headers: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize template: %w", err)
	}
	return buf.Bytes(), nil
}
