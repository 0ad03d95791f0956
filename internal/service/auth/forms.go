package auth

import "smartband-store/internal/validation"

type LoginInput struct {
	Email    string `json:"email" validate:"required,looseemail"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterInput struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,looseemail"`
	Phone           string `json:"phone" validate:"omitempty,irmobile"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

var formMessages = validation.Messages{
	"name.required":            "نام الزامی است",
	"name.min":                 "نام باید حداقل ۲ کاراکتر باشد",
	"email.required":           "ایمیل الزامی است",
	"email.looseemail":         "فرمت ایمیل صحیح نیست",
	"phone.irmobile":           "شماره تلفن باید با ۰۹ شروع شود و ۱۱ رقم باشد",
	"password.required":        "رمز عبور الزامی است",
	"password.min":             "رمز عبور باید حداقل ۶ کاراکتر باشد",
	"confirmPassword.required": "تکرار رمز عبور الزامی است",
	"confirmPassword.eqfield":  "رمز عبور و تکرار آن یکسان نیستند",
}

var formValidator = validation.New()

// ValidateLogin returns validation.FieldErrors with Persian messages, or nil.
func ValidateLogin(in LoginInput) error {
	return formValidator.Struct(in, formMessages)
}

func ValidateRegister(in RegisterInput) error {
	return formValidator.Struct(in, formMessages)
}
