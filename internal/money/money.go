// Package money форматирует денежные суммы для отображения.
package money

import "github.com/shopspring/decimal"

// Format округляет сумму до копеек и возвращает её строковое представление с двумя знаками.
func Format(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// Parse разбирает десятичное число из пользовательского ввода.
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
