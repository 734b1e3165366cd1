// Package nfe holds the built-in validation rules for extracted fiscal records.
package nfe

// ValidationResult is the outcome of one rule applied to one field.
type ValidationResult struct {
	Passed        bool
	FieldPath     string
	ExpectedValue string
	ActualValue   string
	Message       string
}
