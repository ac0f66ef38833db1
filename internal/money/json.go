package money

import (
	"encoding/json"
	"strconv"
)

// moneyJSON is the wire shape of a Money value. The minor-unit amount is
// rendered as a decimal string: JSON numbers are doubles in most consumers
// and would silently lose precision on large amounts.
type moneyJSON struct {
	Currency   string  `json:"currency"`
	Minor      string  `json:"minor"`
	MinorUnits int     `json:"minorUnits"`
	Value      float64 `json:"value"`
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Currency:   m.currency,
		Minor:      strconv.FormatInt(m.minor, 10),
		MinorUnits: m.units,
		Value:      m.Float64(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var w moneyJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	minor, err := strconv.ParseInt(w.Minor, 10, 64)
	if err != nil {
		return err
	}
	*m = FromMinor(minor, w.Currency)
	return nil
}
