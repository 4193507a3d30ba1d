package dataset

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// TYPE INFERENCE — Column kind from every non-empty value
// ============================================================================
// A column is numeric only if EVERY non-empty value parses as a finite number,
// boolean only if every non-empty value is a recognized literal. Anything
// else is categorical. Columns with no values at all are categorical.
// ============================================================================

var boolLiterals = map[string]bool{
	"true":  true,
	"false": false,
	"yes":   true,
	"no":    false,
}

// ParseBool recognizes the boolean literals true/false/yes/no, case-insensitively.
func ParseBool(s string) (value bool, ok bool) {
	value, ok = boolLiterals[strings.ToLower(strings.TrimSpace(s))]
	return value, ok
}

// ParseNumber parses a finite float. NaN and infinities are not numbers here.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func inferKind(records [][]string, col int) Kind {
	seen, numeric, boolean := false, true, true
	for _, rec := range records {
		v := rec[col]
		if v == "" {
			continue
		}
		seen = true
		if numeric {
			_, numeric = ParseNumber(v)
		}
		if boolean {
			_, boolean = ParseBool(v)
		}
		if !numeric && !boolean {
			break
		}
	}

	switch {
	case !seen:
		return KindString
	case boolean:
		return KindBool
	case numeric:
		return KindNumber
	default:
		return KindString
	}
}

// coerce converts trimmed source text into a value of the column's kind.
// The kind was inferred from the same values, so conversion cannot fail.
func coerce(text string, kind Kind) Value {
	if text == "" {
		return Value{}
	}
	switch kind {
	case KindNumber:
		f, _ := ParseNumber(text)
		return Value{kind: KindNumber, num: f, text: text}
	case KindBool:
		b, _ := ParseBool(text)
		return Value{kind: KindBool, flag: b, text: text}
	default:
		return Value{kind: KindString, text: text}
	}
}
