package spoolman

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a nullable numeric field. Spoolman returns numbers, but values
// entered through extra fields or older exports can arrive as strings.
// A value that does not convert is kept as Raw and marked Malformed; it
// never fails decoding of the surrounding record.
type Number struct {
	Value     float64
	Valid     bool
	Malformed bool
	Raw       string
}

// Num returns a valid Number.
func Num(v float64) Number {
	return Number{Value: v, Valid: true}
}

// Or returns the value, or def when the number is null or malformed.
func (n Number) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

// OrNonZero returns the value, or def when it is null or zero. This mirrors
// "value or default" handling where an explicit 0 means "not set".
func (n Number) OrNonZero(def float64) float64 {
	if !n.Valid || n.Value == 0 {
		return def
	}
	return n.Value
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			n.Malformed, n.Raw = true, string(data)
			return nil
		}
		*n = ParseNumber(s)
		return nil
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil || !finite(v) {
		n.Malformed, n.Raw = true, string(data)
		return nil
	}
	n.Value, n.Valid = v, true
	return nil
}

// MarshalJSON implements json.Marshaler. Invalid numbers encode as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// ParseNumber converts free text into a Number. Blank text is null, text that
// is not a finite number is Malformed. A decimal comma is accepted.
func ParseNumber(s string) Number {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, "null") || strings.EqualFold(trimmed, "nil") {
		return Number{}
	}
	v, err := strconv.ParseFloat(strings.Replace(trimmed, ",", ".", 1), 64)
	if err != nil || !finite(v) {
		return Number{Malformed: true, Raw: s}
	}
	return Number{Value: v, Valid: true}
}

// finite rejects the NaN and infinity spellings ParseFloat accepts.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Flag is a nullable boolean that also accepts 0/1 and their string forms.
type Flag struct {
	Value bool
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = ParseFlag(strings.Trim(string(bytes.TrimSpace(data)), `"`))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Flag) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatBool(f.Value)), nil
}

// ParseFlag converts text into a Flag; unknown text is null.
func ParseFlag(s string) Flag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return Flag{Value: true, Valid: true}
	case "0", "false", "no", "off":
		return Flag{Value: false, Valid: true}
	}
	return Flag{}
}
