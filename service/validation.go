package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so messages line up with
// the form inputs.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Inf and NaN pass required and gte but cannot be sent as JSON
	v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	})
	return v
}

// ValidationError carries one message per invalid field, keyed by the
// field's JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "dados inválidos: " + strings.Join(parts, "; ")
}

// validateStruct runs the validator and converts its errors into a
// *ValidationError. Other errors are returned unchanged.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(ve))}
	for _, fe := range ve {
		if _, seen := out.Fields[fe.Field()]; seen {
			continue
		}
		out.Fields[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório."
	case "min":
		return fmt.Sprintf("Informe ao menos %s caracteres.", fe.Param())
	case "email":
		return "Informe um e-mail válido."
	case "finite":
		return "Informe um valor numérico."
	case "gte":
		return fmt.Sprintf("O valor mínimo é %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Deve ser maior que %s.", fe.Param())
	case "oneof":
		return "Escolha uma das opções de parcelamento."
	default:
		return "Valor inválido."
	}
}
