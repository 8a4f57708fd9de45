package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"gestion-notas/pkg/response"
)

// MinPasswordLength 密码最小长度
const MinPasswordLength = 8

var registerOnce sync.Once

// Register 向 gin 的 binding 引擎注册自定义校验规则（幂等）
//   - notblank: 去除首尾空白后不能为空
//   - strongpassword: 至少 8 位，含小写字母与数字
//
// 同时让校验错误使用 json 字段名
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("strongpassword", strongPassword)
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func strongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword 密码强度校验：长度 ≥ 8，至少一个小写字母和一个数字
func IsStrongPassword(pw string) bool {
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		return false
	}
	var hasLower, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLower && hasDigit
}

// FieldErrors 将绑定/校验错误转换为字段级错误列表
func FieldErrors(err error) []response.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]response.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, response.FieldError{Path: fe.Field(), Msg: message(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []response.FieldError{{Path: typeErr.Field, Msg: "Tipo de dato inválido"}}
	}

	return []response.FieldError{{Path: "body", Msg: "JSON inválido"}}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo requerido"
	case "notblank":
		return "No puede estar vacío"
	case "email":
		return "Email inválido"
	case "strongpassword":
		return fmt.Sprintf("La contraseña debe tener al menos %d caracteres, una minúscula y un número", MinPasswordLength)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Longitud mínima %s", fe.Param())
		}
		return fmt.Sprintf("Valor mínimo %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Longitud máxima %s", fe.Param())
		}
		return fmt.Sprintf("Valor máximo %s", fe.Param())
	default:
		return "Valor inválido"
	}
}
