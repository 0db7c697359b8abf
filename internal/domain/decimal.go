package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimal is a decimal number kept in the exact text it was received or formatted in.
// It decodes from either a JSON number or a JSON string and encodes as a JSON number.
type Decimal string

// DecimalFromFloat formats v with the given number of decimal places.
// A negative places value uses the shortest exact representation.
func DecimalFromFloat(v float64, places int) Decimal {
	return Decimal(strconv.FormatFloat(v, 'f', places, 64))
}

// Float64 returns the numeric value, or 0 when d is empty or malformed.
func (d Decimal) Float64() float64 {
	v, err := strconv.ParseFloat(string(d), 64)
	if err != nil {
		return 0
	}
	return v
}

func (d Decimal) String() string {
	return string(d)
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*d = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("decimal: invalid string %s: %w", s, err)
		}
		s = strings.TrimSpace(unquoted)
	}
	canonical, err := canonicalNumber(s)
	if err != nil {
		return err
	}
	*d = Decimal(canonical)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	canonical, err := canonicalNumber(string(d))
	if err != nil {
		return nil, err
	}
	return []byte(canonical), nil
}

// canonicalNumber keeps s when it is already a valid JSON number and rewrites
// other finite numerals such as ".5" or "+1.5" in plain decimal form.
func canonicalNumber(s string) (string, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("decimal: invalid number %q", s)
	}
	if json.Valid([]byte(s)) {
		return s, nil
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}
