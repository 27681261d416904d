package validator

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/nulzo/inference-gateway/pkg/api"
)

var (
	trans ut.Translator
	once  sync.Once
)

// InitValidator makes gin's validator report json field names with English
// messages. Only the first call has an effect.
func InitValidator() {
	once.Do(initValidator)
}

func initValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ = uni.GetTranslator("en")

	_ = en_translations.RegisterDefaultTranslations(v, trans)
}

// ParseValidationError flattens validator errors into field -> message, keyed
// by the json path below the root struct.
func ParseValidationError(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fields["body"] = "Invalid request body format. Please fix your payload."
		return fields
	}

	for _, e := range validationErrors {
		ns := e.Namespace()
		if i := strings.Index(ns, "."); i != -1 {
			ns = ns[i+1:]
		}

		msg := e.Error()
		if trans != nil {
			msg = e.Translate(trans)
		}
		if e.Tag() == "oneof" {
			msg = fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(e.Param(), " ", ", "))
		}
		fields[ns] = msg
	}
	return fields
}

// DecodeJSON binds body into obj and runs its binding rules. Failures come
// back as 400 problems carrying example.
func DecodeJSON(body []byte, obj interface{}, example interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return api.ValidationError("Request body is required", nil, api.WithExample(example))
	}

	if err := binding.JSON.BindBody(body, obj); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return api.ValidationError("Request body failed validation",
				ParseValidationError(err), api.WithExample(example))
		}
		return api.ValidationError("Request body must be valid JSON",
			map[string]string{"body": err.Error()}, api.WithExample(example), api.WithLog(err))
	}
	return nil
}
