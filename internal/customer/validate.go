package customer

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// Form field names, shared by the rules, FieldErrors and the UI.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldRate        = "rate"
	FieldBalance     = "balance"
	FieldDeposit     = "deposit"
)

// Rule is one field constraint: a validator tag evaluated against the value
// that Value extracts, and the message reported when it fails.
type Rule struct {
	Field   string
	Tag     string
	Message string
	Value   func(Input) any
}

// Rules is the full constraint list for customer input. Balance is signed
// and unconstrained.
var Rules = []Rule{
	{
		Field:   FieldName,
		Tag:     "min=2",
		Message: "Name must be at least 2 characters",
		Value:   func(in Input) any { return in.Name },
	},
	{
		Field:   FieldDescription,
		Tag:     "min=10",
		Message: "Description must be at least 10 characters",
		Value:   func(in Input) any { return in.Description },
	},
	{
		Field:   FieldStatus,
		Tag:     "oneof=Open Paid Inactive Due",
		Message: "Status must be one of Open, Paid, Inactive, Due",
		Value:   func(in Input) any { return string(in.Status) },
	},
	{
		Field:   FieldRate,
		Tag:     "gte=0",
		Message: "Rate must be a positive number",
		Value:   func(in Input) any { return in.Rate },
	},
	{
		Field:   FieldDeposit,
		Tag:     "gte=0",
		Message: "Deposit must be a positive number",
		Value:   func(in Input) any { return in.Deposit },
	},
}

var validate = validator.New()

// FieldErrors maps a field name to its first failing message.
type FieldErrors map[string]string

// Error implements error with the messages in field order.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, fe[field]))
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field failed.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

func (fe FieldErrors) add(field, msg string) {
	if _, exists := fe[field]; exists {
		return
	}
	fe[field] = msg
}

// Validate evaluates every rule against in. It returns nil when the input is
// acceptable.
func Validate(in Input) FieldErrors {
	errs := FieldErrors{}
	for _, rule := range Rules {
		if err := validate.Var(rule.Value(in), rule.Tag); err != nil {
			errs.add(rule.Field, rule.Message)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Form is the raw text of the customer form.
type Form struct {
	Name        string
	Description string
	Status      string
	Rate        string
	Balance     string
	Deposit     string
}

// FormFromInput renders in as form text.
func FormFromInput(in Input) Form {
	return Form{
		Name:        in.Name,
		Description: in.Description,
		Status:      string(in.Status),
		Rate:        formatNumber(in.Rate),
		Balance:     formatNumber(in.Balance),
		Deposit:     formatNumber(in.Deposit),
	}
}

// ParseForm coerces the numeric fields and validates the result. Coercion
// failures are reported alongside rule failures.
func ParseForm(f Form) (Input, FieldErrors) {
	errs := FieldErrors{}
	status, _ := ParseStatus(f.Status)
	in := Input{
		Name:        f.Name,
		Description: f.Description,
		Status:      status,
	}

	numbers := []struct {
		field string
		label string
		raw   string
		dest  *float64
	}{
		{FieldRate, "Rate", f.Rate, &in.Rate},
		{FieldBalance, "Balance", f.Balance, &in.Balance},
		{FieldDeposit, "Deposit", f.Deposit, &in.Deposit},
	}
	for _, n := range numbers {
		v, err := coerceNumber(n.raw)
		if err != nil {
			errs.add(n.field, n.label+" must be a number")
			continue
		}
		*n.dest = v
	}

	for field, msg := range Validate(in) {
		errs.add(field, msg)
	}
	if len(errs) == 0 {
		return in, nil
	}
	return in, errs
}

var errNotFinite = errors.New("not a finite number")

func coerceNumber(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	v, err := cast.ToFloat64E(trimmed)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errNotFinite
	}
	return v, nil
}

func formatNumber(v float64) string {
	return cast.ToString(v)
}
