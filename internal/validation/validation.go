package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern    = regexp.MustCompile(`\S+@\S+\.\S+`)
	irMobilePattern = regexp.MustCompile(`^09\d{9}$`)
)

// FieldErrors maps a JSON field name to a user-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messages maps "field.tag" to a message. A bare "field" entry is the
// fallback for any tag on that field.
type Messages map[string]string

// Validator wraps validator/v10 with the storefront's custom rules and
// reports errors keyed by JSON field name.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	out := &Validator{v: v}
	out.MustRegister("looseemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	out.MustRegister("irmobile", func(fl validator.FieldLevel) bool {
		return irMobilePattern.MatchString(fl.Field().String())
	})
	return out
}

// MustRegister adds a custom rule and panics if validator refuses it. Rules
// are registered once at construction, so a failure is a programming error.
func (v *Validator) MustRegister(tag string, fn validator.Func) {
	if err := v.v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Engine exposes the underlying validator so gin binding can share its rules.
func (v *Validator) Engine() *validator.Validate {
	return v.v
}

// Struct validates s and translates failures through msgs. Only the first
// failing rule per field is reported.
func (v *Validator) Struct(s any, msgs Messages) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if m, ok := msgs[field+"."+fe.Tag()]; ok {
			out[field] = m
		} else if m, ok := msgs[field]; ok {
			out[field] = m
		} else {
			out[field] = fe.Error()
		}
	}
	return out
}
