package common

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	jatranslations "github.com/go-playground/validator/v10/translations/ja"

	"github.com/sngm3741/makoto-diary/api/internal/platform/apperr"
)

// Validator は struct タグによる入力検証。メッセージは日本語に翻訳して ValidationError で返す。
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator は label タグ（無ければ json 名）をフィールド名として使う Validator を返す。
func NewValidator() *Validator {
	locale := ja.New()
	translator, _ := ut.New(locale, locale).GetTranslator("ja")

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := jatranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}
	return &Validator{validate: validate, translator: translator}
}

// Struct は payload を検証し、最初の違反を ValidationError にする。
func (v *Validator) Struct(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var violations validator.ValidationErrors
	if errors.As(err, &violations) && len(violations) > 0 {
		first := violations[0]
		return apperr.InvalidField(first.Field(), first.Translate(v.translator))
	}
	return apperr.Invalid("入力内容を確認してください")
}
