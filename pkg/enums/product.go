package enums

import "fmt"

// ProductCategory represents the canonical produce categories supported by the catalog.
type ProductCategory string

const (
	ProductCategoryVegetables ProductCategory = "vegetables"
	ProductCategoryFruits     ProductCategory = "fruits"
	ProductCategoryDairy      ProductCategory = "dairy"
	ProductCategoryEggs       ProductCategory = "eggs"
	ProductCategoryMeat       ProductCategory = "meat"
	ProductCategoryHoney      ProductCategory = "honey"
	ProductCategoryGrains     ProductCategory = "grains"
	ProductCategoryHerbs      ProductCategory = "herbs"
	ProductCategoryPreserves  ProductCategory = "preserves"
	ProductCategoryFlowers    ProductCategory = "flowers"
)

var validProductCategories = []ProductCategory{
	ProductCategoryVegetables,
	ProductCategoryFruits,
	ProductCategoryDairy,
	ProductCategoryEggs,
	ProductCategoryMeat,
	ProductCategoryHoney,
	ProductCategoryGrains,
	ProductCategoryHerbs,
	ProductCategoryPreserves,
	ProductCategoryFlowers,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// Valid reports whether the category is one of the supported values.
func (c ProductCategory) Valid() bool {
	for _, candidate := range validProductCategories {
		if c == candidate {
			return true
		}
	}
	return false
}

// ParseProductCategory validates and converts a raw category string.
func ParseProductCategory(value string) (ProductCategory, error) {
	category := ProductCategory(value)
	if !category.Valid() {
		return "", fmt.Errorf("invalid product category %q", value)
	}
	return category, nil
}

// ProductUnit is the unit of measure a product is sold in.
type ProductUnit string

const (
	ProductUnitKilogram ProductUnit = "kg"
	ProductUnitGram     ProductUnit = "g"
	ProductUnitPiece    ProductUnit = "piece"
	ProductUnitBunch    ProductUnit = "bunch"
	ProductUnitLiter    ProductUnit = "liter"
	ProductUnitDozen    ProductUnit = "dozen"
	ProductUnitJar      ProductUnit = "jar"
	ProductUnitBox      ProductUnit = "box"
)

var validProductUnits = []ProductUnit{
	ProductUnitKilogram,
	ProductUnitGram,
	ProductUnitPiece,
	ProductUnitBunch,
	ProductUnitLiter,
	ProductUnitDozen,
	ProductUnitJar,
	ProductUnitBox,
}

// String implements fmt.Stringer.
func (u ProductUnit) String() string {
	return string(u)
}

// Valid reports whether the unit is one of the supported values.
func (u ProductUnit) Valid() bool {
	for _, candidate := range validProductUnits {
		if u == candidate {
			return true
		}
	}
	return false
}
