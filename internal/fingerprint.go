package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// canonicalHash digests a mapping with sorted keys, so the result is stable
// regardless of insertion order.
func canonicalHash(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s\n", k, fields[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ExtraFieldsHash fingerprints only a record's free-form extra fields.
func ExtraFieldsHash(extras map[string]string) string {
	return canonicalHash(extras)
}

// CoreFieldsHash fingerprints a record's identifying content: transaction
// date (as epoch seconds), description, amount, and every extra field merged
// into the same mapping.
func CoreFieldsHash(date time.Time, description string, amount decimal.Decimal, extras map[string]string) string {
	fields := map[string]string{
		"transaction_date": strconv.FormatInt(date.Unix(), 10),
		"description":      description,
		"amount":           amount.StringFixed(2),
	}
	for k, v := range extras {
		fields[k] = v
	}
	return canonicalHash(fields)
}

// RawLineHash fingerprints the raw source line text.
func RawLineHash(line string) string {
	sum := sha256.Sum256([]byte(line))
	return hex.EncodeToString(sum[:])
}
