package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ============================================================================
// VALUE — Tagged cell value, fixed once at load time
// ============================================================================
// A cell is exactly one of: missing, number, boolean, categorical string.
// The trimmed source text is kept so export can reproduce the input verbatim.
// ============================================================================

// Kind is the type tag of a Value and the inferred type of a Column.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "numeric"
	case KindBool:
		return "boolean"
	case KindString:
		return "categorical"
	default:
		return "missing"
	}
}

// MarshalText encodes the kind by its schema name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Value is a single typed cell.
type Value struct {
	kind Kind
	num  float64
	flag bool
	text string
}

// Missing returns the missing value.
func Missing() Value { return Value{} }

// NumberValue returns a numeric value rendered in shortest form.
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// BoolValue returns a boolean value rendered as "true" or "false".
func BoolValue(b bool) Value {
	return Value{kind: KindBool, flag: b, text: strconv.FormatBool(b)}
}

// StringValue returns a categorical value. An empty string is missing.
func StringValue(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindString, text: s}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Text returns the source text of the value; "" when missing.
func (v Value) Text() string { return v.text }

// Float returns the numeric payload.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Bool returns the boolean payload.
func (v Value) Bool() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// Key is the canonical identity of the value. Numbers with different source
// spellings ("1", "1.0", "-0") share a key; missing has the empty key.
func (v Value) Key() string {
	switch v.kind {
	case KindNumber:
		if v.num == 0 {
			return "0"
		}
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindString:
		return v.text
	default:
		return ""
	}
}

// Equal reports exact value equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.flag == o.flag
	case KindString:
		return v.text == o.text
	default:
		return true
	}
}

// Compare orders values canonically: numbers ascending, then false < true,
// then strings lexicographically; missing sorts last.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		return kindRank(v.kind) - kindRank(o.kind)
	}
	switch v.kind {
	case KindNumber:
		switch {
		case v.num < o.num:
			return -1
		case v.num > o.num:
			return 1
		}
		return 0
	case KindBool:
		switch {
		case v.flag == o.flag:
			return 0
		case !v.flag:
			return -1
		}
		return 1
	case KindString:
		return strings.Compare(v.text, o.text)
	default:
		return 0
	}
}

func kindRank(k Kind) int {
	switch k {
	case KindNumber:
		return 0
	case KindBool:
		return 1
	case KindString:
		return 2
	default:
		return 3
	}
}

// MarshalJSON encodes numbers and booleans natively, strings as JSON strings
// and missing as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(v.num, 'g', -1, 64)), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.flag)), nil
	case KindString:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}
