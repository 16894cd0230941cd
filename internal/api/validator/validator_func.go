package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	referenceRegex = `^[A-Za-z0-9][A-Za-z0-9._-]*$`
)

const (
	ReferenceTag = "reference"
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	ReferenceTag: ValidateReference,
}

func ValidateReference(fl validator.FieldLevel) bool {
	ref := fl.Field().String()
	return regexp.MustCompile(referenceRegex).MatchString(ref)
}
