package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to its first validation message.
type Errors map[string]string

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Get(field string) string {
	return e[field]
}

func (e Errors) Any() bool { return len(e) > 0 }

// Validator checks form structs against their validate tags and reports
// errors keyed by the form field name.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("nonneg", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && n >= 0
	})
	return &Validator{v: v}
}

// Validate returns nil when s is valid.
func (val *Validator) Validate(s messenger) Errors {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"_": err.Error()}
	}
	msgs := s.messages()
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if out.Has(field) {
			continue
		}
		if m, ok := msgs[field+"."+fe.Tag()]; ok {
			out[field] = m
			continue
		}
		out[field] = defaultMessage(fe)
	}
	return out
}

// messenger is implemented by every form; it supplies per-field, per-rule
// messages keyed "field.tag".
type messenger interface {
	messages() map[string]string
}

func defaultMessage(fe validator.FieldError) string {
	label := strings.ToUpper(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "nonneg":
		return label + " must be a non-negative number"
	case "number":
		return label + " must be a whole number"
	default:
		return label + " is invalid"
	}
}

func trimmed(v url.Values, key string) string {
	return strings.TrimSpace(v.Get(key))
}
