// Package validate
// @Title  结构体校验
// @Description  基于binding标签校验配置,错误信息支持中英文
// @Author  yr  2024/11/7
// @Update  yr  2026/10/17
package validate

import (
	"errors"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
)

const (
	EN = "en"
	ZH = "zh"
)

var (
	Validator *validator.Validate
	uni       *ut.UniversalTranslator
)

func init() {
	Validator = validator.New()
	Validator.SetTagName("binding")

	enLocale := en.New()
	uni = ut.New(enLocale, enLocale, zh.New())

	enTrans, _ := uni.GetTranslator(EN)
	if err := enTranslations.RegisterDefaultTranslations(Validator, enTrans); err != nil {
		panic(err)
	}
	zhTrans, _ := uni.GetTranslator(ZH)
	if err := zhTranslations.RegisterDefaultTranslations(Validator, zhTrans); err != nil {
		panic(err)
	}
}

func Struct(s interface{}) error {
	return Validator.Struct(s)
}

// TransError 把校验错误翻译成指定语言,不是校验错误时原样返回
func TransError(err error, lang string) error {
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	trans, found := uni.GetTranslator(lang)
	if !found {
		trans, _ = uni.GetTranslator(EN)
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return errors.New(strings.Join(msgs, "; "))
}
