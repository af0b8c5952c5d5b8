// Package validation wires go-playground/validator with English messages keyed by JSON field names.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
)

// Validator validates request structs and renders failures as field-level errors.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New returns a Validator using JSON tag names and English translations.
func New() *Validator {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate, translator: translator}
	v.RegisterTranslation("required", "{0} is required", true)
	return v
}

// Engine exposes the underlying validator for custom rule registration.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// RegisterRule adds a custom validation tag together with its message.
func (v *Validator) RegisterRule(tag, text string, fn validator.Func) {
	_ = v.validate.RegisterValidation(tag, fn)
	v.RegisterTranslation(tag, text, false)
}

// RegisterTranslation registers a custom message for tag. {0} is replaced with the field name.
func (v *Validator) RegisterTranslation(tag, text string, override bool) {
	_ = v.validate.RegisterTranslation(
		tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s. It returns nil or an *appErrors.Error with a populated field list.
func (v *Validator) Struct(s interface{}, message string) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	fields := make([]appErrors.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, appErrors.FieldError{Field: fe.Field(), Message: fe.Translate(v.translator)})
	}
	return appErrors.Validation(message, fields)
}
