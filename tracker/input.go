package tracker

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeInput turns raw form values into a name and a calorie count.
// Both fields are trimmed; blank fields are rejected before anything else.
func NormalizeInput(in ItemInput) (string, int, error) {
	name := strings.TrimSpace(in.Name)
	raw := strings.TrimSpace(in.Calories)

	if name == "" {
		return "", 0, &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if raw == "" {
		return "", 0, &ValidationError{Field: "calories", Reason: "must not be blank"}
	}

	calories, err := ParseCalories(raw)
	if err != nil {
		return "", 0, err
	}
	return CapitalizeWords(name), calories, nil
}

// CapitalizeWords upper-cases the first letter of every space-separated word
// and leaves the rest of each word byte-for-byte alone
// ("mcDonald's fries" -> "McDonald's Fries", "rye-bread" -> "Rye-bread").
func CapitalizeWords(s string) string {
	// Casers are stateful, so one per call.
	upper := cases.Upper(language.Und)
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + w[size:]
	}
	return strings.Join(words, " ")
}

// ParseCalories parses a calorie value. Fractions are truncated toward zero,
// so "250.9" is 250. Non-numeric and negative values are rejected.
func ParseCalories(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ValidationError{Field: "calories", Reason: "must not be blank"}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, &ValidationError{Field: "calories", Value: raw, Reason: "must be a number"}
	}
	if d.IsNegative() {
		return 0, &ValidationError{Field: "calories", Value: raw, Reason: "must not be negative"}
	}

	whole := d.Truncate(0)
	if !whole.BigInt().IsInt64() || whole.IntPart() > int64(maxCalories) {
		return 0, &ValidationError{Field: "calories", Value: raw, Reason: "is too large"}
	}
	return int(whole.IntPart()), nil
}

// maxCalories caps a single item's calories; larger values are almost
// certainly typos.
const maxCalories = 1_000_000
