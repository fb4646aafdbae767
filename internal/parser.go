package internal

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ParsedRecord is one transaction as read from a source file, before it is
// fingerprinted and stored.
type ParsedRecord struct {
	TransactionDate time.Time
	PostDate        time.Time
	Description     string
	Amount          decimal.Decimal
	Extras          map[string]string
	RawLine         string
}

// Parser parses transaction files into parsed records.
type Parser interface {
	Parse(path string) ([]ParsedRecord, error)
}

// ParserFunc is a function that implements Parser
type ParserFunc func(path string) ([]ParsedRecord, error)

func (f ParserFunc) Parse(path string) ([]ParsedRecord, error) {
	return f(path)
}

// parsers is the registry of available parsers
var parsers = map[string]Parser{}

// RegisterParser registers a parser with the given name
func RegisterParser(name string, p Parser) {
	parsers[name] = p
}

// GetParser returns the parser for the given source type
func GetParser(source string) (Parser, error) {
	p, ok := parsers[source]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %s (available: %v)", source, AvailableSources())
	}
	return p, nil
}

// AvailableSources returns a sorted list of registered source types
func AvailableSources() []string {
	var sources []string
	for name := range parsers {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return sources
}

// dateFormats are the layouts ingestion tries, in order.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func init() {
	// Register built-in parsers
	RegisterParser("generic-csv", ParserFunc(ParseGenericCSV))
	RegisterParser("generic-xlsx", ParserFunc(ParseGenericXLSX))
}
