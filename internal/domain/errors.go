package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationRule identifies which customer rule was violated.
type ValidationRule string

const (
	RuleDNILength   ValidationRule = "dni_length"
	RuleDNIDigits   ValidationRule = "dni_digits"
	RuleDNILetter   ValidationRule = "dni_letter"
	RuleAgeRequired ValidationRule = "age_required"
	RuleAgeAdult    ValidationRule = "age_adult"
)

var ruleMessages = map[ValidationRule]string{
	RuleDNILength:   "DNI must be exactly 9 characters",
	RuleDNIDigits:   "first 8 characters of DNI must be digits",
	RuleDNILetter:   "last character of DNI must be a letter",
	RuleAgeRequired: "age must not be null",
	RuleAgeAdult:    "customer must be an adult (18 years or older)",
}

// ValidationError reports input rejected before it reaches storage.
type ValidationError struct {
	Rule    ValidationRule
	Message string
}

func newValidationError(rule ValidationRule) *ValidationError {
	return &ValidationError{Rule: rule, Message: ruleMessages[rule]}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError carries the identity that storage reported as absent.
type NotFoundError struct {
	ID int64
}

// NewNotFoundError builds a NotFoundError for id.
func NewNotFoundError(id int64) *NotFoundError {
	return &NotFoundError{ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("customer not found with id: %d", e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
