package entities

import (
	"fmt"
	"strings"
)

// Product represents the product family of a coil or an order
type Product int

const (
	HotRolled Product = iota
	ColdRolled
	GalvanizedPlain
	Coated
	Stainless
)

// String returns the short product code used in imports and reports
func (p Product) String() string {
	switch p {
	case HotRolled:
		return "HR"
	case ColdRolled:
		return "CR"
	case GalvanizedPlain:
		return "GP"
	case Coated:
		return "CC"
	case Stainless:
		return "SS"
	default:
		return "Unknown"
	}
}

// ParseProduct parses a product code (HR, CR, GP, CC, SS), case-insensitive
func ParseProduct(s string) (Product, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HR":
		return HotRolled, nil
	case "CR":
		return ColdRolled, nil
	case "GP":
		return GalvanizedPlain, nil
	case "CC":
		return Coated, nil
	case "SS":
		return Stainless, nil
	default:
		return HotRolled, fmt.Errorf("invalid product: %s (expected: HR, CR, GP, CC, or SS)", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Product) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Product) UnmarshalText(text []byte) error {
	parsed, err := ParseProduct(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
