package dashboard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/skdtracker/internal/common"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check validates req and reports the first failing field as a
// common.Invalid error.
func (c *Controller) check(req any) error {
	err := c.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return common.Invalid("", err)
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "min":
		return common.Invalid(field, common.ErrEmptyField)
	case "eqfield":
		return common.Invalid(field, common.ErrPasswordMismatch)
	case "gte":
		return common.Invalid(field, common.ErrNegativeScore)
	case "oneof":
		return common.Invalid(field, fmt.Errorf("must be one of: %s", fe.Param()))
	case "max":
		return common.Invalid(field, fmt.Errorf("must be at most %s characters", fe.Param()))
	}
	return common.Invalid(field, fmt.Errorf("failed %q check", fe.Tag()))
}
