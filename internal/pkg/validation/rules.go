package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the semantic type of a form field and selects which
// rule from the table applies to it.
type Kind string

const (
	KindText        Kind = "text"
	KindEmail       Kind = "email"
	KindPhone       Kind = "phone"
	KindDateOfBirth Kind = "dob"
	KindStartDate   Kind = "startDate"
	KindNumber      Kind = "number"
)

// User-facing validation messages. The server and the form client share
// these so both sides report identical feedback.
const (
	MsgRequired     = "This field is required"
	MsgInvalidEmail = "Please enter a valid email address"
	MsgInvalidPhone = "Please enter a valid phone number"
	MsgDOBFuture    = "Date of birth cannot be in the future"
	MsgUnderage     = "You must be at least 16 years old to apply"
	MsgStartPast    = "Start date cannot be in the past"
	MsgNotANumber   = "Please enter a valid number"
)

// MinimumAge is the youngest an applicant may be, in completed years.
const MinimumAge = 16

// DateLayout is the wire format for date fields (HTML date inputs).
const DateLayout = "2006-01-02"

var (
	// EmailPattern rejects whitespace and requires local@domain.tld.
	EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// PhonePattern allows digits, spaces and common punctuation only.
	PhonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)

	nonDigits = regexp.MustCompile(`\D`)
)

// MinPhoneDigits is the fewest digits a phone number may carry after
// stripping formatting characters.
const MinPhoneDigits = 9

// Result is the outcome of validating a single field value.
type Result struct {
	Valid   bool
	Message string
}

func valid() Result             { return Result{Valid: true} }
func invalid(msg string) Result { return Result{Valid: false, Message: msg} }

// Rule validates a non-empty value of one Kind. Date rules compare
// against the supplied reference time, never against a cached "now".
type Rule func(value string, at time.Time) Result

// Rules is the declarative rule table. Adding a field kind is a table
// edit here plus a Kind constant, not a new conditional chain.
var Rules = map[Kind]Rule{
	KindEmail:       validateEmail,
	KindPhone:       validatePhone,
	KindDateOfBirth: validateDateOfBirth,
	KindStartDate:   validateStartDate,
	KindNumber:      validateNumber,
}

// Validate checks a single field value. The required check takes
// precedence and short-circuits the kind rule; optional empty values are
// always valid. Exactly one rule fires per call and the function has no
// side effects.
func Validate(kind Kind, value string, required bool, at time.Time) Result {
	if required && strings.TrimSpace(value) == "" {
		return invalid(MsgRequired)
	}
	if value == "" {
		return valid()
	}
	if rule, ok := Rules[kind]; ok {
		return rule(value, at)
	}
	return valid()
}

func validateEmail(value string, _ time.Time) Result {
	if !EmailPattern.MatchString(value) {
		return invalid(MsgInvalidEmail)
	}
	return valid()
}

func validatePhone(value string, _ time.Time) Result {
	if !PhonePattern.MatchString(value) {
		return invalid(MsgInvalidPhone)
	}
	if len(nonDigits.ReplaceAllString(value, "")) < MinPhoneDigits {
		return invalid(MsgInvalidPhone)
	}
	return valid()
}

func validateDateOfBirth(value string, at time.Time) Result {
	dob, err := time.Parse(DateLayout, value)
	if err != nil {
		// Unparseable dates pass through unchecked, matching the
		// original form behaviour for malformed date input.
		return valid()
	}
	if dob.After(at) {
		return invalid(MsgDOBFuture)
	}
	if Age(dob, at) < MinimumAge {
		return invalid(MsgUnderage)
	}
	return valid()
}

func validateStartDate(value string, at time.Time) Result {
	start, err := time.Parse(DateLayout, value)
	if err != nil {
		return valid()
	}
	// Compare calendar dates so that "today" does not count as past.
	today := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	if start.Before(today) {
		return invalid(MsgStartPast)
	}
	return valid()
}

func validateNumber(value string, _ time.Time) Result {
	if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
		return invalid(MsgNotANumber)
	}
	return valid()
}

// Age returns the number of completed years between dob and the
// reference time. A birthday not yet reached this year does not count
// as a completed year.
func Age(dob, at time.Time) int {
	years := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		years--
	}
	return years
}
