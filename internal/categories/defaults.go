package categories

import "github.com/gestor-dev/gestor/internal/model"

// Default returns the built-in category list.
func Default() []Category {
	return []Category{
		{Name: "Salario", Kind: model.KindIncome},
		{Name: "Extra", Kind: model.KindIncome},
		{Name: "Regalo", Kind: model.KindIncome},
		{Name: "Correcciones", Kind: model.KindIncome},
		{Name: "Comida", Kind: model.KindExpense},
		{Name: "Transporte", Kind: model.KindExpense},
		{Name: "Vivienda", Kind: model.KindExpense},
		{Name: "Ocio", Kind: model.KindExpense},
		{Name: "Salud", Kind: model.KindExpense},
		{Name: "Otros", Kind: model.KindExpense},
	}
}

const (
	DefaultIncome  = "Correcciones"
	DefaultExpense = "Otros"
)
