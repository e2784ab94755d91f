// Package validation holds the pure, synchronous form predicates.
// Deterministic, value-based only — no I/O.
package validation

import (
	"fmt"
	"sort"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ContentError reports a field value containing a forbidden substring.
// It carries the offending value so the caller can surface it.
type ContentError struct {
	Substring string
	Value     string
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("value %q must not contain %q", e.Value, e.Substring)
}

// NoContent builds a rule failing when the value case-insensitively
// contains substr.
func NoContent(substr string) ozzo.Rule {
	return ozzo.By(func(value any) error {
		s, _ := value.(string)
		if strings.Contains(strings.ToLower(s), substr) {
			return &ContentError{Substring: substr, Value: s}
		}
		return nil
	})
}

// The two independent email-content rules. Both can fail on the same
// value and both failures are surfaced.
var (
	NoAdmin = NoContent("admin")
	NoGmail = NoContent("gmail")
)

// Errors maps a field name to every rule failure on that field, not just
// the first.
type Errors map[string][]error

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []string
	for _, field := range fields {
		for _, err := range e[field] {
			parts = append(parts, field+": "+err.Error())
		}
	}
	return strings.Join(parts, "; ")
}

// Fields renders every failure as message strings keyed by field, for
// JSON responses.
func (e Errors) Fields() map[string][]string {
	out := make(map[string][]string, len(e))
	for field, errs := range e {
		for _, err := range errs {
			out[field] = append(out[field], err.Error())
		}
	}
	return out
}

// field runs each rule independently so one failure does not mask the
// next.
func (e Errors) field(name string, value any, rules ...ozzo.Rule) {
	for _, rule := range rules {
		if err := ozzo.Validate(value, rule); err != nil {
			e[name] = append(e[name], err)
		}
	}
}

// RegistrationForm carries the registration/profile field values.
type RegistrationForm struct {
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	Age              int     `json:"age"`
	Married          bool    `json:"married"`
	NumberOfChildren int     `json:"number_of_children"`
	StartBudget      float64 `json:"start_budget"`
	MonthlySalary    float64 `json:"monthly_salary"`
}

// Validate returns nil when the form is valid.
func (f RegistrationForm) Validate() Errors {
	errs := Errors{}
	errs.field("name", f.Name, ozzo.Required, ozzo.Length(3, 0))
	errs.field("email", f.Email, ozzo.Required, is.Email, NoAdmin, NoGmail)
	errs.field("password", f.Password, ozzo.Required)
	errs.field("age", f.Age, ozzo.Required, ozzo.Min(1))
	errs.field("number_of_children", f.NumberOfChildren, ozzo.Min(0))
	errs.field("start_budget", f.StartBudget, ozzo.Min(0.0))
	errs.field("monthly_salary", f.MonthlySalary, ozzo.Min(0.0))
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// LoginForm carries the sign-in field values.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate returns nil when the form is valid.
func (f LoginForm) Validate() Errors {
	errs := Errors{}
	errs.field("email", f.Email, ozzo.Required, is.Email)
	errs.field("password", f.Password, ozzo.Required)
	if len(errs) == 0 {
		return nil
	}
	return errs
}
