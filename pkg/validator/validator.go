package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Zoom meeting ids are numeric; UUIDs and other path-safe ids are accepted too
var meetingIDPattern = regexp.MustCompile(`^[A-Za-z0-9_=+.-]{1,255}$`)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("meeting_id", func(fl validator.FieldLevel) bool {
		return meetingIDPattern.MatchString(fl.Field().String())
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
