package domain

// Customer is the aggregate root for the customers service. The zero value is a
// valid, unvalidated customer; call Validate before persisting it.
type Customer struct {
	ID    *int64 `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	DNI   string `json:"dni"`
	Age   *int   `json:"age,omitempty"`
}

// MinAdultAge is the youngest age a customer may register with.
const MinAdultAge = 18

const dniLength = 9

// Validate checks the DNI and age rules in a fixed order and reports the first
// violation. Name, Email and ID are not inspected.
func (c Customer) Validate() error {
	if len(c.DNI) != dniLength {
		return newValidationError(RuleDNILength)
	}
	for i := 0; i < dniLength-1; i++ {
		if !isDigit(c.DNI[i]) {
			return newValidationError(RuleDNIDigits)
		}
	}
	if !isLetter(c.DNI[dniLength-1]) {
		return newValidationError(RuleDNILetter)
	}
	if c.Age == nil {
		return newValidationError(RuleAgeRequired)
	}
	if *c.Age < MinAdultAge {
		return newValidationError(RuleAgeAdult)
	}
	return nil
}

// HasID reports whether storage has assigned an identity.
func (c Customer) HasID() bool {
	return c.ID != nil
}

// WithID returns a copy of c carrying the given identity.
func (c Customer) WithID(id int64) Customer {
	c.ID = &id
	return c
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
