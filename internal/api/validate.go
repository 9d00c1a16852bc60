package api

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// maxPasswordBytes is the most bcrypt will hash. The stock max tag counts
// runes, so the limit is checked on bytes with bcryptmax
const maxPasswordBytes = 72

// rfc3339 is the validator datetime layout for timestamps on the wire
const rfc3339 = "2006-01-02T15:04:05Z07:00"

// validationMessages maps "field.tag" or "field" to the message shown to clients
type validationMessages map[string]string

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return hexColorPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	return v
}

// check validates req and converts failures to field errors
func (s *Server) check(req interface{}, messages validationMessages) []fieldError {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Message: err.Error()}}
	}

	out := make([]fieldError, 0, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		msg, ok := messages[field+"."+e.Tag()]
		if !ok {
			msg, ok = messages[field]
		}
		if !ok {
			msg = fmt.Sprintf("Field '%s' is invalid: %s", field, e.Tag())
		}
		out = append(out, fieldError{Field: field, Message: msg})
	}
	return out
}
