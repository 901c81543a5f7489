// Package validate contains support for validating models.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	en "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// validate holds the settings and caches for validating request struct
// values.
var validate *validator.Validate

// translator is a cache of locale and translation information.
var translator ut.Translator

func init() {
	validate = validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	var found bool
	translator, found = uni.GetTranslator("en")
	if !found {
		panic("translator not found")
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}
}

// Check validates the provided model against its struct tags. It returns
// nil on success, and a FieldErrors value (translated to English) on
// validation failure.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {
		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		var fields FieldErrors
		for _, verror := range verrors {
			fields = append(fields, FieldError{
				Field: verror.Field(),
				Error: verror.Translate(translator),
			})
		}

		return fields
	}

	return nil
}

// FieldError is used to indicate an error with a specific request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// FieldErrors represents a collection of field errors, implementing the
// error interface so it can be returned and compared directly.
type FieldErrors []FieldError

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	var b strings.Builder
	for i, f := range fe {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", f.Field, f.Error)
	}
	return b.String()
}

// Fields returns the fields as a plain slice, for JSON encoding.
func (fe FieldErrors) Fields() []FieldError {
	return fe
}

// MarshalJSON implements the json.Marshaler interface so FieldErrors encode
// as a bare array of {field, error} objects.
func (fe FieldErrors) MarshalJSON() ([]byte, error) {
	return json.Marshal([]FieldError(fe))
}
