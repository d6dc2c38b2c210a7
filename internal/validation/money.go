package validation

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var thousandsOnly = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// ParseMoney reads an amount typed the Brazilian way ("R$ 1.234,56") or in
// plain decimal notation ("1234.56"). A dot is a thousands separator when the
// string has a comma, or when it only groups digits in threes ("1.500").
// A dot after the comma ("1,234.56") is ambiguous and rejected.
func ParseMoney(raw string) (float64, error) {
	s := strings.ReplaceAll(raw, "R$", "")
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return 0, errors.New("empty amount")
	}
	if comma := strings.LastIndex(s, ","); comma >= 0 && strings.LastIndex(s, ".") > comma {
		return 0, errors.Errorf("ambiguous amount %q", raw)
	}
	if strings.Contains(s, ",") || thousandsOnly.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parse amount %q", raw)
	}
	return d.InexactFloat64(), nil
}

// Money is an amount that may arrive as a JSON number or as a formatted
// string. Raw keeps what the client sent; Value is filled by Normalize.
type Money struct {
	Raw     string
	Value   float64
	numeric bool
}

// NewMoney returns an already normalized amount.
func NewMoney(v float64) Money {
	return Money{Raw: strconv.FormatFloat(v, 'f', -1, 64), Value: v, numeric: true}
}

// Provided reports whether the client sent a non-empty value.
func (m Money) Provided() bool {
	return m.Raw != ""
}

// Normalize parses Raw into Value. An absent amount normalizes to zero.
func (m *Money) Normalize() error {
	if !m.Provided() {
		m.Value = 0
		return nil
	}
	if m.numeric {
		v, err := strconv.ParseFloat(m.Raw, 64)
		if err != nil {
			return errors.Wrapf(err, "parse amount %q", m.Raw)
		}
		m.Value = v
		return nil
	}
	v, err := ParseMoney(m.Raw)
	if err != nil {
		return err
	}
	m.Value = v
	return nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*m = Money{}
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = Money{Raw: strings.TrimSpace(s)}
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return errors.New("amount must be a number or a string")
		}
		*m = Money{Raw: n.String(), numeric: true}
	}
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Value)
}

// Int is an integer that may arrive as a JSON number or a numeric string.
type Int struct {
	Value    int
	Provided bool
}

func (n *Int) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Int{}
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = Int{}
			return nil
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return errors.Errorf("%q is not an integer", s)
	}
	*n = Int{Value: v, Provided: true}
	return nil
}
