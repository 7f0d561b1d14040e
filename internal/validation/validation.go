package validation

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Let numeric tags such as gte=0 apply to money fields.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Error is a single user facing validation failure.
type Error struct {
	Field   string
	Tag     string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Struct validates v and reports the first failing field. messages maps
// "Field.tag" to the text shown to the user; unmapped failures fall back to
// a generic message naming the field.
func Struct(v interface{}, messages map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	msg, ok := messages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg = "Invalid value for " + fe.Field()
	}
	return &Error{Field: fe.Field(), Tag: fe.Tag(), Message: msg}
}

// Message returns the user facing text of a validation error, or "" for other errors.
func Message(err error) string {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return ""
}
