package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Category groups products on the storefront page.
type Category string

const (
	CategoryNovidades Category = "novidades"
	CategoryVestidos  Category = "vestidos"
	CategoryCalcas    Category = "calcas"
	CategoryShorts    Category = "shorts"
	CategoryBlusas    Category = "blusas"
	CategoryJaquetas  Category = "jaquetas"
	CategoryBolsas    Category = "bolsas"
)

// Categories lists every known category in page order.
var Categories = []Category{
	CategoryNovidades,
	CategoryVestidos,
	CategoryCalcas,
	CategoryShorts,
	CategoryBlusas,
	CategoryJaquetas,
	CategoryBolsas,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string   `json:"id" bson:"id"`
	Category    Category `json:"category" bson:"category"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	InternalID  string   `json:"internalId" bson:"internalId"`
	Price       Price    `json:"price" bson:"price"`
	Image       string   `json:"image" bson:"image"`
}

// UnmarshalJSON accepts an id written as a JSON string or number and keeps it
// as text.
func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product
	aux := struct {
		*plain
		ID productID `json:"id"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.ID = string(aux.ID)
	return nil
}

type productID string

func (id *productID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = productID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id must be a string or a number, got %s", b)
	}
	*id = productID(n.String())
	return nil
}

// SeedProducts returns the demo catalog used for an empty backing store.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Category:    CategoryNovidades,
			Name:        "Vestido Floral Primavera",
			Description: "Vestido leve e delicado para a estação.",
			InternalID:  "V001",
			Price:       MustParsePrice("129.90"),
			Image:       "https://images.unsplash.com/photo-1572804013309-59a88b7e92f1?ixlib=rb-1.2.1&auto=format&fit=crop&w=500&q=60",
		},
		{
			ID:          "2",
			Category:    CategoryBlusas,
			Name:        "Blusa de Seda Rosa",
			Description: "Elegância e conforto em uma peça única.",
			InternalID:  "B001",
			Price:       MustParsePrice("89.90"),
			Image:       "https://images.unsplash.com/photo-1604176354204-9268737828fa?ixlib=rb-1.2.1&auto=format&fit=crop&w=500&q=60",
		},
		{
			ID:          "3",
			Category:    CategoryBolsas,
			Name:        "Bolsa de Couro Preta",
			Description: "Perfeita para todas as ocasiões.",
			InternalID:  "A001",
			Price:       MustParsePrice("199.90"),
			Image:       "https://images.unsplash.com/photo-1584917865442-de89df76afd3?ixlib=rb-1.2.1&auto=format&fit=crop&w=500&q=60",
		},
	}
}
