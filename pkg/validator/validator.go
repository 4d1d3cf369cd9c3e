package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator validates request structs by their validate tags
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

func (val *Validator) Validate(obj interface{}) error {
	if err := val.v.Struct(obj); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("field %s failed on the %s rule", e.Field(), e.Tag())
		}
		return err
	}
	return nil
}
