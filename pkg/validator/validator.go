package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phoneNumberRe     = regexp.MustCompile(`^\d{7,20}$`)
	dateOfBirthRe     = regexp.MustCompile(`^\d{6}$`)
	licenseNumberRe   = regexp.MustCompile(`^[\d\-가-힣ㄱ-ㅎA-Za-z]{1,32}$`)
	insuranceNumberRe = regexp.MustCompile(`^[\d\-]{1,32}$`)
)

// RegisterCustomRules wires the dispatch-domain format checks into gin's
// binding validator. Call once at startup.
func RegisterCustomRules() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	rules := map[string]*regexp.Regexp{
		"phone_number":     phoneNumberRe,
		"date_of_birth":    dateOfBirthRe,
		"license_number":   licenseNumberRe,
		"insurance_number": insuranceNumberRe,
	}
	for tag, re := range rules {
		re := re
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
}

func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			message := getFieldErrorMessage(fieldError)
			messages = append(messages, message)
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "phone_number":
		return fmt.Sprintf("%s must be 7 to 20 digits", field)
	case "date_of_birth":
		return fmt.Sprintf("%s must be 6 digits", field)
	case "license_number", "insurance_number":
		return fmt.Sprintf("%s has an invalid format", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"PhoneNumber":             "Phone number",
		"Password":                "Password",
		"Realname":                "Name",
		"DateOfBirth":             "Date of birth",
		"LicenseNumber":           "License number",
		"LicenseType":             "License type",
		"InsuranceNumber":         "Insurance number",
		"InsuranceExpirationDate": "Insurance expiration date",
		"Origin":                  "Origin",
		"Destination":             "Destination",
		"CarModel":                "Car model",
		"Charge":                  "Charge",
		"PaymentType":             "Payment type",
		"Title":                   "Title",
		"Content":                 "Content",
		"StartDate":               "Start date",
		"EndDate":                 "End date",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
