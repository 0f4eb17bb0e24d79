package configloader

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yaklabco/gorichtext/pkg/config"
	"github.com/yaklabco/gorichtext/pkg/runner"
	"github.com/yaklabco/gorichtext/pkg/sanitize"
)

// ErrInvalidConfig is wrapped by every ValidationError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "policy.outer_elements[2]").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// Unwrap returns ErrInvalidConfig.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

var (
	tagNamePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)
	attrNamePattern = regexp.MustCompile(`^[^\s"'>/=]+$`)
)

//nolint:gochecknoglobals // Validators are safe for concurrent use and costly to build.
var structValidator = sync.OnceValue(newStructValidator)

func newStructValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their YAML key; CLI-only fields by lower-cased name.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(field.Name)
		}
		return name
	})

	mustRegister(validate, "tagname", func(fl validator.FieldLevel) bool {
		return tagNamePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(validate, "attrname", func(fl validator.FieldLevel) bool {
		return attrNamePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(validate, "glob", func(fl validator.FieldLevel) bool {
		return runner.CompilePatterns([]string{fl.Field().String()}) == nil
	})

	return validate
}

func mustRegister(validate *validator.Validate, tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if err := structValidator().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			result.Errors = append(result.Errors, ValidationError{Message: err.Error()})
			return result
		}
		for _, fieldErr := range fieldErrs {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fieldPath(fieldErr),
				Value:   fieldErr.Value(),
				Message: describe(fieldErr),
			})
		}
	}

	if result.Valid() {
		validateConversions(cfg, result)
	}

	return result
}

// fieldPath drops the root struct name from the error namespace.
func fieldPath(fieldErr validator.FieldError) string {
	_, path, found := strings.Cut(fieldErr.Namespace(), ".")
	if !found {
		return fieldErr.Field()
	}
	return path
}

func describe(fieldErr validator.FieldError) string {
	value := fmt.Sprint(fieldErr.Value())
	switch fieldErr.Tag() {
	case "oneof":
		return fmt.Sprintf("invalid value %q; must be one of: %s", value, strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	case "tagname":
		return fmt.Sprintf("invalid element name %q", value)
	case "attrname":
		return fmt.Sprintf("invalid attribute name %q", value)
	case "glob":
		return fmt.Sprintf("invalid glob pattern %q", value)
	case "gte":
		return fmt.Sprintf("must be >= %s (0 means auto)", fieldErr.Param())
	case "required":
		return "must not be empty"
	case "excludesall":
		return fmt.Sprintf("must not contain any of %q", fieldErr.Param())
	default:
		return fieldErr.Error()
	}
}

// validateConversions warns about conversions whose target no whitelist
// allows, and about chains where a target is itself converted.
func validateConversions(cfg *config.Config, result *ValidationResult) {
	policy := sanitize.NewPolicy(cfg.PolicyOptions())
	for _, from := range slices.Sorted(maps.Keys(cfg.Policy.Conversions)) {
		to := cfg.Policy.Conversions[from]
		target := strings.ToLower(strings.TrimSpace(to))
		// Conversions are applied once per pass, so a chain only settles
		// after several sanitize runs.
		if next, ok := policy.Convert(target); ok && next != target {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "policy.conversions[" + from + "]",
				Value:   to,
				Message: fmt.Sprintf("<%s> is converted to <%s>, which is itself converted to <%s>; map <%s> to <%s> directly", from, to, next, from, next),
			})
		}
		if policy.AllowOuter(target) || policy.AllowInner(target) {
			continue
		}
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "policy.conversions[" + from + "]",
			Value:   to,
			Message: fmt.Sprintf("<%s> is converted to <%s>, which no element list allows", from, to),
		})
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// IsValidFlavor returns true if the flavor is valid.
func IsValidFlavor(f config.Flavor) bool {
	return f == config.FlavorCommonMark || f == config.FlavorGFM
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	switch f {
	case config.FormatText, config.FormatJSON, config.FormatDiff, config.FormatSummary:
		return true
	default:
		return false
	}
}
