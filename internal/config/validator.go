package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config key (e.g., "api.base_url")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

var validate = newValidator()

// newValidator reports fields by their config key rather than Go name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !asFieldErrors(err, &fieldErrs) {
			return []ValidationError{{Field: "config", Value: nil, Message: err.Error()}}
		}
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				Field:   configKey(fe.Namespace()),
				Value:   fe.Value(),
				Message: describe(fe),
			})
		}
	}

	errs = append(errs, c.validateTheme()...)
	return errs
}

func asFieldErrors(err error, target *validator.ValidationErrors) bool {
	fe, ok := err.(validator.ValidationErrors)
	if ok {
		*target = fe
	}
	return ok
}

// configKey turns "Config.api.base_url" into "api.base_url".
func configKey(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be an absolute URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		if fe.Param() == "0" {
			return "must be non-negative"
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		if fe.Param() == "0" {
			return "must be positive"
		}
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// validateTheme accepts a built-in theme name or a readable YAML theme file.
func (c *Config) validateTheme() []ValidationError {
	theme := c.TUI.Theme
	if theme == "" || isBuiltinTheme(theme) {
		return nil
	}
	if !strings.HasSuffix(theme, ".yaml") && !strings.HasSuffix(theme, ".yml") {
		return []ValidationError{{
			Field:   "tui.theme",
			Value:   theme,
			Message: fmt.Sprintf("must be one of: %s, or a .yaml theme file", strings.Join(BuiltinThemes(), ", ")),
		}}
	}

	data, err := os.ReadFile(theme)
	if err != nil {
		return []ValidationError{{Field: "tui.theme", Value: theme, Message: "theme file is not readable"}}
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return []ValidationError{{Field: "tui.theme", Value: theme, Message: "theme file is not valid YAML"}}
	}
	return nil
}

// BuiltinThemes lists the themes compiled into the TUI.
func BuiltinThemes() []string {
	return []string{"default", "dracula", "nord", "mono"}
}

func isBuiltinTheme(name string) bool {
	for _, t := range BuiltinThemes() {
		if t == name {
			return true
		}
	}
	return false
}
