package entities

import "fmt"

// Money holds an amount in minor currency units (paise for INR).
type Money struct {
	Amount   int64  `json:"amount" db:"amount"`
	Currency string `json:"currency" db:"currency"`
}

// Display formats the amount in major units, the way it is printed on
// tickets: "1500" for 150000 paise, "1500.50" for 150050.
func (m Money) Display() string {
	if m.Amount%100 == 0 {
		return fmt.Sprintf("%d", m.Amount/100)
	}
	return fmt.Sprintf("%d.%02d", m.Amount/100, m.Amount%100)
}

func (m Money) IsZero() bool {
	return m.Amount == 0 && m.Currency == ""
}
