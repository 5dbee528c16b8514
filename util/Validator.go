package util

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"doodh-waitlist/dto"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names so errors line up with the form fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("waitlist_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return len(DigitsOnly(fl.Field().String())) == PhoneDigits
	})
	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})

	return v
}

// ValidateStruct checks for tag-based validation errors
func ValidateStruct(payload interface{}) error {
	err := validate.Struct(payload)
	if err != nil {
		return err
	}
	return nil
}

// ValidationErrors maps a form field (name|email|phone|pincode) to its inline message
type ValidationErrors map[string]string

// ValidateSignup runs the four field rules. An empty map means the form may be submitted.
func ValidateSignup(req *dto.SignupRequest) ValidationErrors {
	result := ValidationErrors{}

	var fieldErrs validator.ValidationErrors
	if err := validate.Struct(req); !errors.As(err, &fieldErrs) {
		return result
	}

	for _, fe := range fieldErrs {
		result[fe.Field()] = signupMessage(fe.Field(), fe.Tag())
	}
	return result
}

var requiredMessages = map[string]string{
	"name":    "Name is required",
	"email":   "Email is required",
	"phone":   "Phone number is required",
	"pincode": "Pincode is required",
}

var formatMessages = map[string]string{
	"email":   "Please enter a valid email",
	"phone":   "Please enter a valid 10-digit phone number",
	"pincode": "Please enter a valid 6-digit pincode",
}

func signupMessage(field, tag string) string {
	if tag == "notblank" {
		return requiredMessages[field]
	}
	if msg, ok := formatMessages[field]; ok {
		return msg
	}
	return "Invalid " + field
}
