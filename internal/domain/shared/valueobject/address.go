package valueobject

import (
	"database/sql/driver"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Address is an immutable postal address used by organizations, clients and suppliers
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

const maxAddressFieldLength = 200

// NewAddress trims and validates the address parts
func NewAddress(street, city, state, postalCode, country string) (Address, error) {
	a := Address{
		Street:     strings.TrimSpace(street),
		City:       strings.TrimSpace(city),
		State:      strings.TrimSpace(state),
		PostalCode: strings.TrimSpace(postalCode),
		Country:    strings.TrimSpace(country),
	}
	for name, v := range map[string]string{
		"street": a.Street, "city": a.City, "state": a.State, "postal_code": a.PostalCode, "country": a.Country,
	} {
		if len(v) > maxAddressFieldLength {
			return Address{}, fmt.Errorf("address %s cannot exceed %d characters", name, maxAddressFieldLength)
		}
	}
	return a, nil
}

// IsEmpty returns true when no part is set
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// String renders the address on one line, skipping empty parts
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Value implements driver.Valuer for jsonb columns
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for jsonb columns
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	if len(data) == 0 {
		*a = Address{}
		return nil
	}
	return json.Unmarshal(data, a)
}
