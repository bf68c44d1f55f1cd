// Package validate checks struct values against their `validate` tags and
// renders failures as English messages keyed by the field's json name.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator wraps a validator instance with its english translator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a Validator with the default english translations registered.
func New() (*Validator, error) {
	validate := validator.New()

	translator, ok := ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		return nil, errors.New("validate: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, fmt.Errorf("registering translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return &Validator{validate: validate, translator: translator}, nil
}

// Must is like New but panics on error. Intended for package-level vars.
func Must() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}

	return v
}

// Translate overrides the message for tag. The text may reference the
// field name as {0} and the tag parameter as {1}.
func (v *Validator) Translate(tag, text string) error {
	register := func(trans ut.Translator) error {
		return trans.Add(tag, text, true)
	}

	translate := func(trans ut.Translator, fe validator.FieldError) string {
		msg, err := trans.T(tag, fe.Field(), fe.Param())
		if err != nil {
			return fe.Error()
		}

		return msg
	}

	return v.validate.RegisterTranslation(tag, v.translator, register, translate)
}

// Register adds a custom validation tag.
func (v *Validator) Register(tag string, fn validator.Func) error {
	return v.validate.RegisterValidation(tag, fn)
}

// Check validates val against its declared tags. Validation failures are
// returned as FieldErrors; any other failure is returned as is.
func (v *Validator) Check(val any) error {
	if err := v.validate.Struct(val); err != nil {
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return err
		}

		fields := make(FieldErrors, 0, len(verrors))
		for _, verror := range verrors {
			fields = append(fields, FieldError{
				Field: verror.Field(),
				Tag:   verror.Tag(),
				Err:   verror.Translate(v.translator),
			})
		}

		return fields
	}

	return nil
}

// FieldError is a single failed field.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"type"`
	Err   string `json:"message"`
}

// FieldErrors represents a collection of field errors.
type FieldErrors []FieldError

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	d, err := json.Marshal(fe)
	if err != nil {
		return err.Error()
	}

	return string(d)
}
