// Package validation checks request payloads against their struct tags and
// turns failures into one client-facing message.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	hhmmRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// custom tags and their messages
var customTranslations = map[string]string{
	"objectid":    "{0} must be a valid id",
	"hhmm":        "{0} must be a time in HH:MM format",
	"required_if": "{0} is a required field",
	"datetime":    "{0} must be a date in YYYY-MM-DD format",
}

func init() {
	validate = validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// error messages use JSON names, not Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("params"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return utils.IsDocumentID(fl.Field().String())
	})
	_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmRegex.MatchString(fl.Field().String())
	})

	for tag, text := range customTranslations {
		registerTranslation(tag, text)
	}
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Error lists every failed rule of one payload.
type Error struct {
	Messages []string
}

// Error joins the field messages with ", ".
func (e *Error) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Defaulter is implemented by payloads with declared defaults. ApplyDefaults
// must only fill zero values so that applying it twice changes nothing.
type Defaulter interface {
	ApplyDefaults()
}

// Validatable is implemented by payloads with rules that span several fields.
// It runs after the tag rules have passed.
type Validatable interface {
	Validate() error
}

// Result is the outcome of Check: Err is nil iff Value passed every rule.
type Result[T any] struct {
	Err   *Error
	Value T
}

// Check applies defaults to v, validates it and returns the coerced value.
func Check[T any](v T) Result[T] {
	if d, ok := any(&v).(Defaulter); ok {
		d.ApplyDefaults()
	}

	if msgs := Messages(validate.Struct(&v)); len(msgs) > 0 {
		return Result[T]{Err: &Error{Messages: msgs}, Value: v}
	}

	if cv, ok := any(&v).(Validatable); ok {
		if err := cv.Validate(); err != nil {
			var ve *Error
			if errors.As(err, &ve) {
				return Result[T]{Err: ve, Value: v}
			}
			return Result[T]{Err: &Error{Messages: []string{err.Error()}}, Value: v}
		}
	}

	return Result[T]{Value: v}
}

// Struct validates s by its tags only.
func Struct(s any) error {
	if msgs := Messages(validate.Struct(s)); len(msgs) > 0 {
		return &Error{Messages: msgs}
	}
	return nil
}

// Messages translates validator errors into client-facing messages.
func Messages(err error) []string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(translator))
	}
	return msgs
}
