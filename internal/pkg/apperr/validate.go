package apperr

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Messages maps "param.tag" (or just "param") to the text reported for a
// violation.
type Messages map[string]string

func (m Messages) lookup(fe validator.FieldError) string {
	if msg, ok := m[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := m[fe.Field()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}

// Validate checks the struct tags of in and collects every violation into a
// ValidationError. Strings are expected to be trimmed by the caller.
func Validate(in any, msgs Messages) *ValidationError {
	ve := &ValidationError{}
	err := validate.Struct(in)
	if err == nil {
		return ve
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		ve.Add("", err.Error())
		return ve
	}
	for _, fe := range verrs {
		ve.Add(fe.Field(), msgs.lookup(fe))
	}
	return ve
}
