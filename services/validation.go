package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"stockledger/database"
	"stockledger/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest runs the struct tags of req and turns failures into a
// validation error naming every offending field.
func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return types.Validation(err.Error())
	}

	fields := make([]types.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, types.FieldError{Field: fieldPath(fe.Namespace()), Rule: ruleOf(fe)})
	}
	return types.Validation("invalid request", fields...)
}

// fieldPath drops the struct name from a namespace: "ReceiptRequest.lines[0].qty"
// becomes "lines[0].qty".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleOf(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}

// headerInsertError classifies a failed header insert.
func headerInsertError(refNo string, err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return types.ReferenceExists(refNo, err)
	case database.IsForeignKeyViolation(err):
		return types.ForeignKeyConflict("header "+refNo+" references a missing record", err)
	default:
		return err
	}
}

// lineInsertError classifies a failed detail insert.
func lineInsertError(refNo, itemCode string, err error) error {
	if database.IsForeignKeyViolation(err) {
		return types.ForeignKeyConflict("line "+itemCode+" of "+refNo+" references a missing record", err)
	}
	return err
}

func trim(s string) string { return strings.TrimSpace(s) }

// optionalCode turns an empty counterparty code into nil.
func optionalCode(code string) *string {
	code = trim(code)
	if code == "" {
		return nil
	}
	return &code
}
