// Package validator checks create/update payloads before they reach
// persistence. It wraps go-playground/validator with the custom tags used by
// the service inputs and turns failures into field-level messages.
package validator

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// FieldError is a single invalid field, reported by its JSON name.
type FieldError = apperrors.FieldError

// Errors is returned when a payload fails validation. The whole payload is
// rejected; Fields lists every failing field.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AppError converts the failure into a BAD_USER_INPUT application error.
func (e *Errors) AppError() *apperrors.AppError {
	return apperrors.WithFields(e.Fields)
}

// FieldChecker is implemented by inputs with rules spanning several fields.
// It runs after the tag rules.
type FieldChecker interface {
	CheckFields() []FieldError
}

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

func get() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.SetTagName("validate")
		engine.RegisterTagNameFunc(jsonName)
		registerCustom(engine)
	})
	return engine
}

// Register adds the custom tags to Gin's binding engine so that query and
// form structs bound by handlers can use them too.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustom(v)
	}
}

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("finite", validateFinite)
	_ = v.RegisterValidation("notblank", validateNotBlank)
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("account_type", validateAccountType)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("category_type", validateCategoryType)
	_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Struct validates v and returns *Errors when any rule fails.
func Struct(v interface{}) error {
	var fields []FieldError

	if err := get().Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: message(fe)})
		}
	}

	if fc, ok := v.(FieldChecker); ok {
		fields = append(fields, fc.CheckFields()...)
	}

	if len(fields) > 0 {
		return &Errors{Fields: fields}
	}
	return nil
}

// Check is Struct for service code: failures come back as an AppError.
func Check(v interface{}) error {
	err := Struct(v)
	if err == nil {
		return nil
	}
	var verrs *Errors
	if errors.As(err, &verrs) {
		return verrs.AppError()
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err)
}

// EndAfterStart reports a field error when end is set and not strictly after start.
func EndAfterStart(field string, start time.Time, end *time.Time) []FieldError {
	if end != nil && !end.After(start) {
		return []FieldError{{Field: field, Message: "must be after startDate"}}
	}
	return nil
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "min":
		if isString && fe.Param() == "1" {
			return "must not be empty"
		}
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "gt":
		if fe.Param() == "0" {
			return "must be positive"
		}
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "uuid", "uuid4", "uuid_rfc4122":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	case "notblank":
		return "must not be blank"
	case "finite":
		return "must be a finite number"
	case "hex_color":
		return "must be a hex color in the form #RRGGBB"
	case "account_type":
		return "must be one of " + joinValues(models.AccountTypes())
	case "transaction_type":
		return "must be one of INCOME, EXPENSE"
	case "category_type":
		return "must be one of INCOME, EXPENSE"
	case "budget_period":
		return "must be one of WEEKLY, MONTHLY, QUARTERLY, YEARLY"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "is invalid"
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func validateFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return true
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateAccountType(fl validator.FieldLevel) bool {
	return models.AccountType(fl.Field().String()).IsValid()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).IsValid()
}

func validateCategoryType(fl validator.FieldLevel) bool {
	return models.CategoryType(fl.Field().String()).IsValid()
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	return models.BudgetPeriod(fl.Field().String()).IsValid()
}
