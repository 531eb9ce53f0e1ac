package dto

import (
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

type RegisterDTO struct {
	ID       string `json:"id"       validate:"required,max=32"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,strongpwd"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshDTO names the user; the token itself comes from the refresh cookie.
type RefreshDTO struct {
	Email        string `json:"email" validate:"required,email"`
	RefreshToken string `json:"-"     validate:"required"`
}

type DateRangeQuery struct {
	BeginDate string `form:"beginDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `form:"endDate"   validate:"required,datetime=2006-01-02"`
}

// NewValidator returns a validator with the strongpwd rule registered:
// at least 8 runes with one upper-case letter and one digit.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("strongpwd", strongPassword)
	return v
}

func strongPassword(fl validator.FieldLevel) bool {
	pwd := fl.Field().String()
	if utf8.RuneCountInString(pwd) < 8 {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range pwd {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}
