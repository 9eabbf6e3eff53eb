package customer

import "strings"

// Status is the billing state of a customer.
type Status string

const (
	StatusOpen     Status = "Open"
	StatusPaid     Status = "Paid"
	StatusInactive Status = "Inactive"
	StatusDue      Status = "Due"
)

var statusOrder = []Status{StatusOpen, StatusPaid, StatusInactive, StatusDue}

// Statuses returns every valid status in display order.
func Statuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range statusOrder {
		if s == known {
			return true
		}
	}
	return false
}

// Next returns the status after s in display order, wrapping around.
// Unknown statuses start the cycle at Open.
func (s Status) Next() Status {
	return s.shift(1)
}

// Prev returns the status before s in display order, wrapping around.
func (s Status) Prev() Status {
	return s.shift(-1)
}

func (s Status) shift(delta int) Status {
	for i, known := range statusOrder {
		if s == known {
			n := len(statusOrder)
			return statusOrder[((i+delta)%n+n)%n]
		}
	}
	return StatusOpen
}

// ParseStatus matches a status case-insensitively.
func ParseStatus(value string) (Status, bool) {
	trimmed := strings.TrimSpace(value)
	for _, known := range statusOrder {
		if strings.EqualFold(trimmed, string(known)) {
			return known, true
		}
	}
	return Status(trimmed), false
}

// Customer is one billing record. ID is assigned by the store and never changes.
type Customer struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Status      Status  `json:"status" yaml:"status"`
	Rate        float64 `json:"rate" yaml:"rate"`
	Balance     float64 `json:"balance" yaml:"balance"`
	Deposit     float64 `json:"deposit" yaml:"deposit"`
}

// Input is a customer without its identifier: the payload of add and update.
type Input struct {
	Name        string
	Description string
	Status      Status
	Rate        float64
	Balance     float64
	Deposit     float64
}

// DefaultInput is the blank form used when creating a customer.
func DefaultInput() Input {
	return Input{Status: StatusOpen}
}

// Input strips the identifier.
func (c Customer) Input() Input {
	return Input{
		Name:        c.Name,
		Description: c.Description,
		Status:      c.Status,
		Rate:        c.Rate,
		Balance:     c.Balance,
		Deposit:     c.Deposit,
	}
}

// WithID builds the full record for id. Every field is replaced; there is no
// partial patching.
func (in Input) WithID(id string) Customer {
	return Customer{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Rate:        in.Rate,
		Balance:     in.Balance,
		Deposit:     in.Deposit,
	}
}
