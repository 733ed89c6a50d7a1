package service

import (
	"errors"
	"strings"

	"cinecomments/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	if err != nil {
		panic(err)
	}
	return v
}

// validateMovie reports every missing movie field at once.
func validateMovie(in models.MovieInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()[:1])+fe.Field()[1:])
		msgs = append(msgs, fe.Field()+" is required")
	}
	return validationError(fields, msgs)
}

// registrationMessages maps the first failing field to the message clients expect.
var registrationMessages = map[string]string{
	"Email":    MsgInvalidEmail,
	"Password": MsgPasswordTooShort,
	"MobileNo": MsgMobileInvalid,
}

// validateRegistration checks email, then password, then mobile number and
// stops at the first failure.
func validateRegistration(in models.RegisterInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	return validationError([]string{field}, []string{registrationMessages[fe.Field()]})
}
