package domain

import "strings"

// Normalized browsing category keys
const (
	CategoryFish             = "fish"
	CategoryDriedFish        = "dried fish"
	CategoryMeat             = "meat"
	CategoryPork             = "pork"
	CategoryBeef             = "beef"
	CategoryChicken          = "chicken"
	CategoryVegetablesFruits = "vegetables & fruits"
	CategoryRiceGrain        = "rice & grain"
	CategoryGrocery          = "grocery"
)

// categoryAliases maps alternate spellings to their normalized key
var categoryAliases = map[string]string{
	"rice/grain": CategoryRiceGrain,
}

// NormalizeCategory lower-cases and trims a category name and resolves aliases.
// Unknown names are returned normalized but otherwise unchanged.
func NormalizeCategory(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := categoryAliases[key]; ok {
		return alias
	}
	return key
}

// Category is an entry of the browsing menu
type Category struct {
	Key           string     `json:"key"`
	Name          string     `json:"name"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// Categories returns the browsing menu in display order
func Categories() []Category {
	return []Category{
		{Key: CategoryFish, Name: "Fish"},
		{
			Key:  CategoryMeat,
			Name: "Meat",
			Subcategories: []Category{
				{Key: CategoryMeat, Name: "All Meat"},
				{Key: CategoryPork, Name: "Pork"},
				{Key: CategoryBeef, Name: "Beef"},
				{Key: CategoryChicken, Name: "Chicken"},
			},
		},
		{Key: CategoryVegetablesFruits, Name: "Vegetables & Fruits"},
		{Key: CategoryRiceGrain, Name: "Rice & Grain"},
		{Key: CategoryGrocery, Name: "Grocery"},
		{Key: CategoryDriedFish, Name: "Dried Fish"},
	}
}

// IsKnownCategory reports whether the name resolves to a browsing category
func IsKnownCategory(name string) bool {
	switch NormalizeCategory(name) {
	case CategoryFish, CategoryDriedFish, CategoryMeat, CategoryPork, CategoryBeef,
		CategoryChicken, CategoryVegetablesFruits, CategoryRiceGrain, CategoryGrocery:
		return true
	}
	return false
}
