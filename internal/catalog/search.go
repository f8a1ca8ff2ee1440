package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mmeshcher/storefront/internal/model"
)

// Field определяет поле товара, участвующее в поиске.
type Field int

const (
	FieldTitle Field = iota
	FieldDescription
	FieldCategory
)

// Наборы полей, используемые экранами.
var (
	ListFields   = []Field{FieldTitle, FieldCategory}
	SearchFields = []Field{FieldTitle, FieldDescription, FieldCategory}
)

func (f Field) value(p model.Product) string {
	switch f {
	case FieldTitle:
		return p.Title
	case FieldDescription:
		return p.Description
	case FieldCategory:
		return p.Category
	default:
		return ""
	}
}

// Search возвращает товары, у которых хотя бы одно из полей содержит term без учёта регистра.
// Пустой запрос возвращает весь список. Порядок товаров сохраняется.
func Search(products []model.Product, term string, fields ...Field) []model.Product {
	if len(fields) == 0 {
		fields = SearchFields
	}

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))

	res := make([]model.Product, 0, len(products))
	for _, p := range products {
		if needle == "" || matches(fold, p, needle, fields) {
			res = append(res, p)
		}
	}
	return res
}

func matches(fold cases.Caser, p model.Product, needle string, fields []Field) bool {
	for _, f := range fields {
		if strings.Contains(fold.String(f.value(p)), needle) {
			return true
		}
	}
	return false
}
