package draft

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/whygo"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// Parent references are validated as their raw ID.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if ref, ok := field.Interface().(whygo.ParentRef); ok {
			return ref.ID
		}
		return nil
	}, whygo.ParentRef{})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("metric", func(fl validator.FieldLevel) bool {
		return whygo.MetricType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	_ = v.RegisterValidation("deptref", func(fl validator.FieldLevel) bool {
		return whygo.ParseParentRef(fl.Field().String()).Kind == whygo.RefDepartment
	})
	return v
}

// Validate checks the draft and returns errors.ValidationErrors listing
// every problem, or nil when the draft can be submitted.
func (d *Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, "validate draft")
	}

	list := make(errors.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		list = append(list, errors.NewValidationError(describe(fe)).WithField(fieldPath(fe.Namespace())))
	}
	return list
}

// fieldPath turns "Draft.outcomes[0].description" into
// "outcomes[0].description".
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "deptref":
		if fe.Value() == "" {
			return "select a department goal to ladder up to"
		}
		return "must be a department goal"
	case "metric":
		names := make([]string, 0, len(whygo.MetricTypes()))
		for _, m := range whygo.MetricTypes() {
			names = append(names, string(m))
		}
		return "must be one of: " + strings.Join(names, ", ")
	case "finite":
		return "must be a number"
	case "gte":
		return "must be non-negative"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("needs at least %s outcomes", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("allows at most %s outcomes", fe.Param())
		}
		return fmt.Sprintf("must be %s characters or fewer", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
