package models

import (
	"fmt"
	"math/big"
	"strings"

	"gopkg.in/yaml.v3"
)

// Amount is an opaque non-negative payment amount. Amounts routinely
// exceed uint64 range, so they are carried as arbitrary-precision
// integers and rendered as plain decimal strings on the wire and in
// config files.
type Amount struct {
	v big.Int
}

// ParseAmount parses a decimal string into an Amount. Negative values
// and malformed input are rejected.
func ParseAmount(s string) (Amount, error) {
	var a Amount
	s = strings.TrimSpace(s)
	if s == "" {
		return a, nil
	}
	if _, ok := a.v.SetString(s, 10); !ok {
		return Amount{}, fmt.Errorf("invalid amount: %q", s)
	}
	if a.v.Sign() < 0 {
		return Amount{}, fmt.Errorf("amount must be non-negative: %q", s)
	}
	return a, nil
}

// MustAmount is ParseAmount for literals in tests and defaults.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Cmp compares a against b, returning -1, 0 or +1.
func (a Amount) Cmp(b Amount) int { return a.v.Cmp(&b.v) }

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool { return a.v.Sign() == 0 }

// String renders the amount as a decimal string.
func (a Amount) String() string { return a.v.String() }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.v.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Amount) MarshalYAML() (interface{}, error) {
	return a.v.String(), nil
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*a = Amount{}
		return nil
	}
	v, err := ParseAmount(node.Value)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
