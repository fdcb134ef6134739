package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNameOnce sync.Once

// useJSONFieldNames makes validation errors report the JSON field name.
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes and validates the request body into req. An empty body
// is an empty object.
func bindJSON(c *gin.Context, req interface{}) error {
	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(req)
	}
	if err == nil {
		return nil
	}
	return bindingError(err)
}

// bindingError converts decoding and validator failures into field errors.
func bindingError(err error) error {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &verrs):
		out := &e.ValidationError{}
		for _, fe := range verrs {
			out.Add(fe.Field(), fieldMessage(fe))
		}
		return out
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			return e.NewValidationError("non_field_errors", "Invalid data. Expected a dictionary.")
		}
		return e.NewValidationError(field, fmt.Sprintf("Incorrect type. Expected %s.", typeErr.Type.Kind()))
	case errors.As(err, &syntaxErr):
		return e.NewValidationError("detail", fmt.Sprintf("JSON parse error - %s", syntaxErr.Error()))
	default:
		return fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}
}

func fieldMessage(fe validator.FieldError) string {
	numeric := fe.Kind() != 0 && fe.Kind() != reflect.String
	switch {
	case fe.Tag() == "max" && numeric:
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case fe.Tag() == "min" && numeric:
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case fe.Tag() == "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case fe.Tag() == "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case fe.Tag() == "oneof":
		return fmt.Sprintf("\"%v\" is not a valid choice.", fe.Value())
	case strings.Contains(fe.Tag(), "email"):
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}
