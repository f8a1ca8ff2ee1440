// Package validation содержит проверку пользовательского ввода форм витрины.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mmeshcher/storefront/internal/apperr"
	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/money"
)

// Сообщения об ошибках полей формы товара.
const (
	MsgTitleRequired       = "Title is required."
	MsgPriceRequired       = "Price is required."
	MsgPricePositive       = "Price must be a positive number."
	MsgDescriptionRequired = "Description is required."
	MsgCategoryRequired    = "Category is required."
	MsgImageRequired       = "Image URL is required."
	MsgImageInvalid        = "Image URL is invalid."
)

// ProductForm содержит значения полей формы товара в том виде, в котором их ввёл пользователь.
type ProductForm struct {
	Title       string `json:"title" validate:"required"`
	Price       string `json:"price" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Image       string `json:"image" validate:"required,url"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

var messages = map[string]map[string]string{
	"title":       {"required": MsgTitleRequired},
	"price":       {"required": MsgPriceRequired},
	"description": {"required": MsgDescriptionRequired},
	"category":    {"required": MsgCategoryRequired},
	"image":       {"required": MsgImageRequired, "url": MsgImageInvalid},
}

// ValidateProduct проверяет форму товара и возвращает данные для отправки в каталог.
// Все нарушения возвращаются одной ошибкой валидации с сообщением для каждого поля.
func ValidateProduct(form ProductForm) (model.ProductInput, error) {
	form = ProductForm{
		Title:       strings.TrimSpace(form.Title),
		Price:       strings.TrimSpace(form.Price),
		Description: strings.TrimSpace(form.Description),
		Category:    strings.TrimSpace(form.Category),
		Image:       strings.TrimSpace(form.Image),
	}

	fields := make(map[string]string)

	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return model.ProductInput{}, apperr.Generic(apperr.MsgInvalidInput, err)
		}
		for _, fe := range verrs {
			fields[fe.Field()] = messages[fe.Field()][fe.Tag()]
		}
	}

	var price float64
	if _, failed := fields["price"]; !failed {
		d, err := money.Parse(form.Price)
		if err != nil || !d.IsPositive() {
			fields["price"] = MsgPricePositive
		} else {
			price = d.InexactFloat64()
		}
	}

	if len(fields) > 0 {
		return model.ProductInput{}, apperr.Validation(apperr.MsgInvalidInput, fields)
	}

	return model.ProductInput{
		Title:       form.Title,
		Price:       price,
		Description: form.Description,
		Category:    form.Category,
		Image:       form.Image,
	}, nil
}
