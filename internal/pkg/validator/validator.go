package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"hotelbooking/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// report json names so messages match the request body
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["_"] = err.Error()
		return errs
	}
	for _, fe := range fieldErrs {
		errs[fe.Field()] = fe.Tag()
	}
	return errs
}

// Check wraps field failures into domain.ErrValidation, listing fields in
// name order.
func Check(v interface{}) error {
	errs := Validate(v)
	if len(errs) == 0 {
		return nil
	}

	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s failed %s", f, errs[f]))
	}
	return domain.Validationf("%s", strings.Join(parts, "; "))
}
