package internal

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency represents a currency with its formatting rules
type Currency struct {
	Code    string // "USD", "EUR", "SEK"
	unit    currency.Unit
	tag     language.Tag
	printer *message.Printer
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
}

// defaultLocaleForCurrency provides a "home" locale for formatting each
// currency.
var defaultLocaleForCurrency = map[string]language.Tag{
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"SEK": language.Swedish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CHF": language.German,
	"JPY": language.Japanese,
	"CAD": language.CanadianFrench,
	"AUD": language.MustParse("en-AU"),
	"PLN": language.Polish,
	"CZK": language.Czech,
}

// GetCurrency returns the Currency for a given code.
func GetCurrency(code string) Currency {
	code = strings.ToUpper(code)

	// Get the currency unit (validates the code)
	unit, err := currency.ParseISO(code)
	isUnknown := err != nil
	if isUnknown {
		unit = currency.USD // fallback unit for number formatting only
	}

	tag, ok := defaultLocaleForCurrency[code]
	if !ok {
		tag = language.English
	}

	c := Currency{
		Code:    code,
		unit:    unit,
		tag:     tag,
		printer: message.NewPrinter(tag),
	}

	// For unknown currencies, override the symbol to use the code
	if isUnknown {
		symbolOverrides[code] = code
	}

	return c
}

// getSymbol returns the currency symbol, using overrides where needed
func (c Currency) getSymbol() string {
	if sym, ok := symbolOverrides[c.Code]; ok {
		return sym
	}
	return c.printer.Sprint(currency.NarrowSymbol(c.unit))
}

// isPrefix returns true if this currency symbol should be placed before the
// amount. golang.org/x/text/currency doesn't implement symbol positioning
// from CLDR patterns, so this list is maintained manually.
func (c Currency) isPrefix() bool {
	switch c.Code {
	case "USD", "GBP", "JPY", "CAD", "AUD":
		return true
	default:
		return false
	}
}

// Format formats a single amount with the currency symbol
func (c Currency) Format(amount float64) string {
	formatted := c.printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
	symbol := c.getSymbol()

	if c.isPrefix() {
		return symbol + formatted
	}
	return formatted + " " + symbol
}

// FormatRange formats a range of amounts (min-max) with the currency symbol
func (c Currency) FormatRange(min, max float64) string {
	minStr := c.printer.Sprint(number.Decimal(min, number.MaxFractionDigits(2)))
	maxStr := c.printer.Sprint(number.Decimal(max, number.MaxFractionDigits(2)))
	symbol := c.getSymbol()

	if c.isPrefix() {
		return symbol + minStr + "-" + symbol + maxStr
	}
	return minStr + "-" + maxStr + " " + symbol
}
