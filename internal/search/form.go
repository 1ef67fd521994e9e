package search

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrUnknownField = errors.New("unknown search field")

// Form holds the raw filter values typed by the user together with their
// validity and whether anything changed since the last successful search.
type Form struct {
	validate *validator.Validate
	values   map[string]string
	errs     map[string]error
	pristine bool
}

func NewForm() *Form {
	return &Form{
		validate: validator.New(),
		values:   make(map[string]string),
		errs:     make(map[string]error),
		pristine: true,
	}
}

// Set stores value under key and marks the form dirty.
func (f *Form) Set(key, value string) error {
	if _, ok := LookupField(key); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	f.values[key] = value
	f.pristine = false
	f.validateAll()
	return nil
}

// Load replaces every field value at once. Keys missing from values are
// cleared. The form becomes dirty.
func (f *Form) Load(values map[string]string) error {
	for key := range values {
		if _, ok := LookupField(key); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
	}
	f.values = make(map[string]string, len(values))
	for k, v := range values {
		f.values[k] = v
	}
	f.pristine = false
	f.validateAll()
	return nil
}

func (f *Form) Value(key string) string { return f.values[key] }

// Err returns the validation error for key, if any.
func (f *Form) Err(key string) error { return f.errs[key] }

func (f *Form) Invalid() bool { return len(f.errs) > 0 }

func (f *Form) Pristine() bool { return f.pristine }

func (f *Form) SetPristine() { f.pristine = true }

func (f *Form) MarkDirty() { f.pristine = false }

// Filters returns the trimmed non-empty values keyed by field.
func (f *Form) Filters() map[string]string {
	out := make(map[string]string)
	for _, field := range fieldList {
		if v := strings.TrimSpace(f.values[field.Key]); v != "" {
			out[field.Key] = v
		}
	}
	return out
}

func (f *Form) validateAll() {
	f.errs = make(map[string]error)
	for _, field := range fieldList {
		value := strings.TrimSpace(f.values[field.Key])
		if err := f.validate.Var(value, field.Rule); err != nil {
			f.errs[field.Key] = fieldError(field, err)
		}
	}
	f.checkYearRange()
}

func (f *Form) checkYearRange() {
	if f.errs["year_min"] != nil || f.errs["year_max"] != nil {
		return
	}
	lo, errLo := strconv.Atoi(strings.TrimSpace(f.values["year_min"]))
	hi, errHi := strconv.Atoi(strings.TrimSpace(f.values["year_max"]))
	if errLo != nil || errHi != nil {
		return
	}
	if lo > hi {
		minField, _ := LookupField("year_min")
		maxField, _ := LookupField("year_max")
		f.errs["year_max"] = fmt.Errorf("%s must not be before %s", maxField.Label, minField.Label)
	}
}

// fieldError turns a validator failure into a message naming the field.
func fieldError(field Field, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%s: %w", field.Label, err)
	}

	e := verrs[0]
	switch e.Tag() {
	case "number", "numeric":
		return fmt.Errorf("%s must be a number", field.Label)
	case "len":
		return fmt.Errorf("%s must be exactly %s characters", field.Label, e.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s characters", field.Label, e.Param())
	case "startswith":
		return fmt.Errorf("%s must start with %q", field.Label, e.Param())
	default:
		return fmt.Errorf("%s failed validation for %s", field.Label, e.Tag())
	}
}
