package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// mobilePattern is the national (India) mobile number format with optional +91.
var mobilePattern = regexp.MustCompile(`^(\+91)?[6-9][0-9]{9}$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return IsMobile(fl.Field().String())
	})
	// "24:00" is accepted so a slot can close at midnight; the slot parser
	// rejects it as a start time.
	_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "24:00" {
			return true
		}
		_, err := time.Parse("15:04", v)
		return err == nil && len(v) == 5
	})
	_ = validate.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
}

// NormalizePhone strips spaces and dashes.
func NormalizePhone(p string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(p))
}

func IsMobile(p string) bool {
	return mobilePattern.MatchString(NormalizePhone(p))
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field()] = e.Tag()
	}
	return out
}
