package view

import (
	"storefront/internal/model"
)

var categoryTitles = map[model.Category]string{
	model.CategoryNovidades: "Novidades",
	model.CategoryVestidos:  "Vestidos",
	model.CategoryCalcas:    "Calças",
	model.CategoryShorts:    "Shorts",
	model.CategoryBlusas:    "Blusas",
	model.CategoryJaquetas:  "Jaquetas",
	model.CategoryBolsas:    "Bolsas",
}

type Section struct {
	Category model.Category
	Title    string
	Products []model.Product
}

// Catalog groups products into one section per known category, in display
// order. Products with an unknown category have no section and are dropped.
func Catalog(products []model.Product) []Section {
	index := make(map[model.Category]int, len(model.Categories))
	sections := make([]Section, len(model.Categories))
	for i, c := range model.Categories {
		index[c] = i
		sections[i] = Section{Category: c, Title: categoryTitles[c]}
	}
	for _, p := range products {
		if i, ok := index[p.Category]; ok {
			sections[i].Products = append(sections[i].Products, p)
		}
	}
	return sections
}
