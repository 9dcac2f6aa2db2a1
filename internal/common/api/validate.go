package api

import (
	"reflect"
	"strings"

	"go-lms/internal/common/errs"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	notBlankTag = "notblank"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// report json names, not Go field names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
	RegisterCustomTranslation(notBlankTag, "{0} cannot be blank")
}

// RegisterCustomTranslation sets the message of a custom tag. {0} is the field name.
func RegisterCustomTranslation(tag, text string) {
	_ = Validate.RegisterTranslation(tag, Translator,
		func(trans ut.Translator) error { return trans.Add(tag, text, true) },
		func(trans ut.Translator, fe validator.FieldError) string {
			msg, _ := trans.T(tag, fe.Field())
			return msg
		},
	)
}

// Bind parses the JSON body into dst and validates it.
func Bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errs.Invalid("", "body", "malformed request body: %v", err)
	}
	return Struct(dst)
}

// Struct validates dst and converts failures into errs.ValidationErrors.
func Struct(dst any) error {
	err := Validate.Struct(dst)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(errs.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, &errs.ValidationError{Field: fieldPath(fe), Message: fe.Translate(Translator)})
	}
	return out
}

// fieldPath drops the root struct name: "createRequest.widgets[0].title" -> "widgets[0].title"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
