package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DecodeJSON decode request body ke struct
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// ValidationErrors map field -> pesan error
type ValidationErrors map[string]string

func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// pakai nama field JSON di pesan error
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct menjalankan tag `validate` dan memetakan hasilnya ke ValidationErrors
func ValidateStruct(s interface{}) ValidationErrors {
	errs := ValidationErrors{}
	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range verrs {
		errs[fieldPath(fe)] = validationMessage(fe)
	}
	return errs
}

// fieldPath membuang nama struct paling luar: "TrailRequest.work_ids[0]" -> "work_ids[0]"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "email":
		return "format email tidak valid"
	case "uuid":
		return "harus berupa UUID"
	case "url":
		return "harus berupa URL"
	case "hexcolor":
		return "harus berupa warna hex"
	case "oneof":
		return fmt.Sprintf("harus salah satu dari: %s", fe.Param())
	case "min":
		return fmt.Sprintf("minimal %s", fe.Param())
	case "max":
		return fmt.Sprintf("maksimal %s", fe.Param())
	default:
		return fmt.Sprintf("tidak valid (%s)", fe.Tag())
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

var (
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`[0-9]`)
)

func IsValidPassword(password string) bool {
	// Minimal 8 karakter, ada huruf dan angka
	if len(password) < 8 {
		return false
	}
	return letterRegex.MatchString(password) && digitRegex.MatchString(password)
}

func SanitizeString(s string) string {
	return strings.TrimSpace(s)
}
