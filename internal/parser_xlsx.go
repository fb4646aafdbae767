package internal

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseGenericXLSX reads transactions from an Excel export. The header row
// is located by scanning for recognizable date, description and amount
// column names; data rows follow it. Other columns land in extras, and the
// raw line is the tab-joined row so fingerprinting has stable source text.
func ParseGenericXLSX(path string) ([]ParsedRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	// Find the header row and column indices.
	var header []string
	var cols csvColumns
	dataStartRow := -1
	for i, row := range rows {
		trimmed := make([]string, len(row))
		for j, cell := range row {
			trimmed[j] = strings.TrimSpace(cell)
		}
		c, err := locateCSVColumns(trimmed)
		if err != nil {
			continue
		}
		header = trimmed
		cols = c
		dataStartRow = i + 1
		break
	}
	if dataStartRow < 0 {
		return nil, fmt.Errorf("could not find a header row in %s", path)
	}

	var records []ParsedRecord
	for _, row := range rows[dataStartRow:] {
		if len(row) == 0 {
			continue
		}
		allEmpty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				allEmpty = false
				break
			}
		}
		if allEmpty {
			continue
		}

		rawLine := strings.Join(row, "\t")
		record, err := rowToParsedRecord(header, cols, row, rawLine)
		if err != nil {
			return nil, fmt.Errorf("row %v: %w", row, err)
		}
		records = append(records, record)
	}

	return records, nil
}
