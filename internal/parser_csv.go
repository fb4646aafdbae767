package internal

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// Column name aliases recognized by the generic CSV parser, lowercased.
var (
	csvDateHeaders        = []string{"transaction date", "trans date", "date"}
	csvPostDateHeaders    = []string{"post date", "posted date", "posting date"}
	csvDescriptionHeaders = []string{"description", "payee", "text", "name"}
	csvAmountHeaders      = []string{"amount"}
	csvCreditHeaders      = []string{"credits", "credit"}
	csvDebitHeaders       = []string{"debits", "debit"}
)

// ParseGenericCSV reads a header-driven CSV bank or credit card export. The
// date, description and amount columns are located by name; every other
// column is preserved in the record's extras, and the original line text is
// retained so the record can be fingerprinted against its source.
//
// Exports sometimes split a quoted field across physical lines, so lines
// are accumulated until they parse as a complete CSV row.
func ParseGenericCSV(path string) ([]ParsedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var header []string
	var cols csvColumns
	var records []ParsedRecord
	pending := ""

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if pending != "" {
			pending = pending + "\n" + line
		} else {
			if strings.TrimSpace(line) == "" {
				continue
			}
			pending = line
		}

		fields, err := parseCSVLine(pending)
		if err != nil {
			// Likely an unterminated quote; keep accumulating.
			continue
		}

		if header == nil {
			header = fields
			cols, err = locateCSVColumns(header)
			if err != nil {
				return nil, err
			}
			pending = ""
			continue
		}

		record, err := rowToParsedRecord(header, cols, fields, pending)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", pending, err)
		}
		records = append(records, record)
		pending = ""
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if header == nil {
		return nil, fmt.Errorf("no header row found in %s", path)
	}

	return records, nil
}

// csvColumns holds the located indexes of the well-known columns; -1 means
// absent.
type csvColumns struct {
	date        int
	postDate    int
	description int
	amount      int
	credit      int
	debit       int
}

func locateCSVColumns(header []string) (csvColumns, error) {
	cols := csvColumns{date: -1, postDate: -1, description: -1, amount: -1, credit: -1, debit: -1}
	find := func(aliases []string) int {
		for _, alias := range aliases {
			for i, h := range header {
				if strings.ToLower(strings.TrimSpace(h)) == alias {
					return i
				}
			}
		}
		return -1
	}

	cols.date = find(csvDateHeaders)
	cols.postDate = find(csvPostDateHeaders)
	cols.description = find(csvDescriptionHeaders)
	cols.amount = find(csvAmountHeaders)
	cols.credit = find(csvCreditHeaders)
	cols.debit = find(csvDebitHeaders)

	if cols.date == -1 || cols.description == -1 {
		return cols, fmt.Errorf("header %v missing a date or description column", header)
	}
	if cols.amount == -1 && cols.credit == -1 && cols.debit == -1 {
		return cols, fmt.Errorf("header %v missing an amount (or credits/debits) column", header)
	}
	return cols, nil
}

func rowToParsedRecord(header []string, cols csvColumns, fields []string, rawLine string) (ParsedRecord, error) {
	record := ParsedRecord{
		Extras:  map[string]string{},
		RawLine: rawLine,
	}

	cell := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	date, err := parseDate(cell(cols.date))
	if err != nil {
		return record, err
	}
	record.TransactionDate = date

	if v := cell(cols.postDate); v != "" {
		if post, err := parseDate(v); err == nil {
			record.PostDate = post
		}
	}

	record.Description = cell(cols.description)

	switch {
	case cols.amount >= 0 && cell(cols.amount) != "":
		record.Amount, err = parseAmount(cell(cols.amount))
	case cols.debit >= 0 && cell(cols.debit) != "":
		record.Amount, err = parseAmount(cell(cols.debit))
		record.Amount = record.Amount.Neg()
	case cols.credit >= 0 && cell(cols.credit) != "":
		record.Amount, err = parseAmount(cell(cols.credit))
	default:
		return record, fmt.Errorf("row has no amount")
	}
	if err != nil {
		return record, err
	}

	wellKnown := map[int]bool{
		cols.date: true, cols.postDate: true, cols.description: true,
		cols.amount: true, cols.credit: true, cols.debit: true,
	}
	for i, h := range header {
		if wellKnown[i] || cell(i) == "" {
			continue
		}
		record.Extras[strings.TrimSpace(h)] = cell(i)
	}

	return record, nil
}

// parseAmount handles currency symbols, thousands separators, and
// parenthesized negatives.
func parseAmount(value string) (decimal.Decimal, error) {
	v := strings.TrimSpace(value)
	negative := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		negative = true
		v = v[1 : len(v)-1]
	}
	v = strings.ReplaceAll(v, "$", "")
	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimSpace(v)

	amount, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unrecognized amount %q: %w", value, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

func parseCSVLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	return r.Read()
}
