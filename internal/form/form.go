// Package form is the client-side half of the validation pipeline: an
// ordered set of named fields, each carrying its value and an inline
// error annotation. Field-level validation runs on blur, form-level
// validation gates submission; both produce identical inline feedback.
package form

import (
	"net/url"
	"time"

	"github.com/stjtech/admissions/internal/app/models/dto"
	"github.com/stjtech/admissions/internal/pkg/validation"
)

// Field is one form input plus its inline annotation. Message and
// Flagged mirror the error text and visual flag shown next to the
// input; re-validating replaces them, never stacks them.
type Field struct {
	Name     string
	Kind     validation.Kind
	Required bool
	Value    string

	Message string
	Flagged bool
}

// Form holds the application form state.
type Form struct {
	fields []*Field
	byName map[string]*Field
	now    func() time.Time
}

// New creates an empty form. Date rules validate against the supplied
// clock at validation time, not at form construction.
func New() *Form {
	return &Form{
		byName: make(map[string]*Field),
		now:    time.Now,
	}
}

// WithClock replaces the clock used by date validation rules.
func (f *Form) WithClock(now func() time.Time) *Form {
	f.now = now
	return f
}

// AddField registers a field. Adding an existing name replaces its
// kind and required flag but keeps the current value.
func (f *Form) AddField(name string, kind validation.Kind, required bool) *Form {
	if existing, ok := f.byName[name]; ok {
		existing.Kind = kind
		existing.Required = required
		return f
	}
	field := &Field{Name: name, Kind: kind, Required: required}
	f.fields = append(f.fields, field)
	f.byName[name] = field
	return f
}

// Set assigns a field's value. Unknown names are ignored.
func (f *Form) Set(name, value string) {
	if field, ok := f.byName[name]; ok {
		field.Value = value
	}
}

// Value returns a field's current value; absent fields are empty.
func (f *Form) Value(name string) string {
	if field, ok := f.byName[name]; ok {
		return field.Value
	}
	return ""
}

// Field returns the field with the given name, or nil.
func (f *Form) Field(name string) *Field {
	return f.byName[name]
}

// ValidateField validates a single field, as on input blur, updating
// its inline annotation. Identical input always produces identical
// annotation state.
func (f *Form) ValidateField(name string) bool {
	field, ok := f.byName[name]
	if !ok {
		return true
	}
	return f.validate(field)
}

// ValidateForm validates every field and reports whether the whole
// form passed. All fields are checked even after a failure, so every
// invalid input is annotated at once.
func (f *Form) ValidateForm() bool {
	valid := true
	for _, field := range f.fields {
		if !f.validate(field) {
			valid = false
		}
	}
	return valid
}

func (f *Form) validate(field *Field) bool {
	result := validation.Validate(field.Kind, field.Value, field.Required, f.now())
	if result.Valid {
		field.Message = ""
		field.Flagged = false
		return true
	}
	field.Message = result.Message
	field.Flagged = true
	return false
}

// Errors returns the current inline messages keyed by field name.
func (f *Form) Errors() map[string]string {
	errs := make(map[string]string)
	for _, field := range f.fields {
		if field.Flagged {
			errs[field.Name] = field.Message
		}
	}
	return errs
}

// ToRequest flattens the form into the wire payload. Absent fields map
// to empty values, never to an error.
func (f *Form) ToRequest() *dto.SubmissionRequest {
	req := &dto.SubmissionRequest{}
	values := make(url.Values, len(f.fields))
	for _, field := range f.fields {
		values.Set(field.Name, field.Value)
	}
	req.FromForm(values)
	return req
}

// NewApplicationForm builds the institute's enrollment form with every
// named input, its semantic kind and its required flag.
func NewApplicationForm() *Form {
	f := New()

	f.AddField("firstName", validation.KindText, true)
	f.AddField("lastName", validation.KindText, true)
	f.AddField("email", validation.KindEmail, true)
	f.AddField("phone", validation.KindPhone, true)
	f.AddField("dob", validation.KindDateOfBirth, true)
	f.AddField("gender", validation.KindText, true)
	f.AddField("idNumber", validation.KindText, true)

	f.AddField("address", validation.KindText, true)
	f.AddField("city", validation.KindText, true)
	f.AddField("county", validation.KindText, true)
	f.AddField("postalCode", validation.KindText, false)

	f.AddField("emergencyName", validation.KindText, true)
	f.AddField("emergencyPhone", validation.KindPhone, true)
	f.AddField("relationship", validation.KindText, true)

	f.AddField("lastSchool", validation.KindText, true)
	f.AddField("graduationYear", validation.KindNumber, true)
	f.AddField("qualification", validation.KindText, true)
	f.AddField("certificates", validation.KindText, false)

	f.AddField("programme", validation.KindText, true)
	f.AddField("programmeLevel", validation.KindText, true)
	f.AddField("startDate", validation.KindStartDate, true)

	f.AddField("disabilityType", validation.KindText, true)
	f.AddField("supportNeeds", validation.KindText, false)
	f.AddField("signLanguage", validation.KindText, true)

	f.AddField("currentEmployment", validation.KindText, true)
	f.AddField("jobTitle", validation.KindText, false)
	f.AddField("workExperience", validation.KindNumber, false)

	f.AddField("motivation", validation.KindText, true)
	f.AddField("goals", validation.KindText, true)
	f.AddField("referral", validation.KindText, false)

	return f
}
