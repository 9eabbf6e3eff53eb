// Package customer defines the customer billing record, the input accepted
// by add and update, the form validation rules, and CAD money formatting.
//
// Validation is data driven: Rules lists every field constraint as a
// validator tag plus the message shown to the operator, and Validate walks
// that list uniformly. Callers that accept raw text (the form modal) go
// through ParseForm, which coerces numeric fields before validating.
package customer
