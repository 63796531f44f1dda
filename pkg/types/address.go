package types

import "strings"

// Address is the shipping address captured at checkout.
type Address struct {
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state" validate:"required"`
	PostalCode string  `json:"postal_code" validate:"required"`
	Country    string  `json:"country" validate:"required,len=2"`
	Phone      *string `json:"phone,omitempty"`
}

// Complete reports whether every required field carries a value.
func (a Address) Complete() bool {
	for _, field := range []string{a.Line1, a.City, a.State, a.PostalCode, a.Country} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
