// Package validation configures the validator/v10 engine used by gin binding
// and turns its errors into field errors for the API envelope.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/todo-management-api/internal/dto"
	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
)

var (
	hexColorPattern = regexp.MustCompile(`^#[A-Fa-f0-9]{6}$`)
	registerOnce    sync.Once
)

// Register installs json field names and custom rules on gin's validator.
// It is safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		configure(v)
	})
}

// New returns a standalone validator configured like the gin one.
func New() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	configure(v)
	return v
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(nullableValue,
		dto.Nullable[string]{},
		dto.Nullable[[]uint64]{},
	)
	_ = v.RegisterValidation("hexrgb", func(fl validator.FieldLevel) bool {
		return IsHexColor(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

type validationValuer interface {
	ValidationValue() any
}

func nullableValue(field reflect.Value) any {
	if n, ok := field.Interface().(validationValuer); ok {
		return n.ValidationValue()
	}
	return nil
}

// IsHexColor reports whether s is a #RRGGBB colour.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// ErrMalformedBody is returned by Translate when the request body is not
// syntactically valid JSON.
var ErrMalformedBody = errors.New("malformed request body")

// Translate converts a binding error into field errors. It returns
// ErrMalformedBody when the body could not be parsed at all.
func Translate(err error) ([]apierrors.FieldError, error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apierrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apierrors.FieldError{
				Field:   fieldPath(fe),
				Message: message(fe),
			})
		}
		return fields, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return []apierrors.FieldError{{
			Field:   field,
			Message: fmt.Sprintf("must be of type %s", jsonType(typeErr.Type)),
		}}, nil
	}

	var fieldErr *apierrors.ValidationError
	if errors.As(err, &fieldErr) {
		return fieldErr.Fields, nil
	}

	return nil, ErrMalformedBody
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("may not be greater than %s characters", fe.Param())
		}
		return fmt.Sprintf("may not be greater than %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hexrgb":
		return "must be a valid hex color code (e.g. #FF5733)"
	case "eqfield":
		return "confirmation does not match"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("is invalid (%s)", fe.Tag())
	}
}

func jsonType(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
