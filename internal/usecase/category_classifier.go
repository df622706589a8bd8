package usecase

import (
	"strings"

	"github.com/mapalengke/backend/internal/domain"
)

// Product-name terms per meat type, English and Filipino
var (
	porkTerms = []string{
		"pork", "baboy", "pigue", "pata", "liempo", "lomo", "tadyang",
	}
	beefTerms = []string{
		"beef", "baka", "brisket", "sirloin", "tenderloin", "ribeye", "ribs",
		"short rib", "shank", "oxtail", "kalitiran", "tadyang",
	}
	chickenTerms = []string{
		"chicken", "manok", "drumstick", "thigh", "wing", "breast",
	}
	otherMeatTerms = []string{
		"goat", "kambing", "carabeef", "veal",
	}

	// meatTerms is the union of every meat product term
	meatTerms = unionTerms(porkTerms, beefTerms, chickenTerms, otherMeatTerms)

	// porkCutTerms are cut names that only mark a pork badge
	porkCutTerms   = []string{"loin", "chop", "shoulder"}
	porkBadgeTerms = unionTerms(porkTerms, porkCutTerms)
)

// Business-name and product-name terms for the produce and dry goods sections
var (
	produceBusinessTerms = []string{"vegetable", "veggie", "gulay", "fruit", "prutas"}
	produceProductTerms  = []string{"vegetable", "gulay", "fruit", "prutas"}
	riceGrainTerms       = []string{"rice", "grain", "bigas", "palay"}
	groceryBusinessTerms = []string{"grocery", "sari-sari", "store"}
	groceryProductTerms  = []string{
		"sardines", "canned", "noodles", "suka", "toyo", "patis", "sugar", "salt", "oil",
	}
)

// Stall prefixes of the fish and dried-fish zones
const (
	fishStallPrefix      = "F"
	driedFishStallPrefix = "DF"
)

// categoryPredicate decides one category from normalized listing fields
type categoryPredicate func(f listingFields) bool

// listingFields are the lower-cased inputs of a classification
type listingFields struct {
	business string
	product  string
	category string
	stall    string // upper-cased, whitespace removed
}

// categoryPredicates is the dispatch table keyed by normalized category
var categoryPredicates = map[string]categoryPredicate{
	domain.CategoryFish: func(f listingFields) bool {
		return strings.HasPrefix(f.stall, fishStallPrefix) && !strings.HasPrefix(f.stall, driedFishStallPrefix)
	},
	domain.CategoryDriedFish: func(f listingFields) bool {
		return strings.HasPrefix(f.stall, driedFishStallPrefix)
	},
	domain.CategoryMeat: func(f listingFields) bool {
		return containsAny(f.category, "meat", "pork", "beef", "chicken") ||
			containsAny(f.business, "meat", "butcher", "karne") ||
			containsAny(f.product, meatTerms...)
	},
	domain.CategoryPork: func(f listingFields) bool {
		return strings.Contains(f.category, "pork") ||
			containsAny(f.business, "pork", "karne") ||
			containsAny(f.product, porkTerms...)
	},
	domain.CategoryBeef: func(f listingFields) bool {
		return strings.Contains(f.category, "beef") ||
			containsAny(f.business, "beef", "karne") ||
			containsAny(f.product, beefTerms...)
	},
	domain.CategoryChicken: func(f listingFields) bool {
		return strings.Contains(f.category, "chicken") ||
			containsAny(f.business, "chicken", "manok", "karne") ||
			containsAny(f.product, chickenTerms...)
	},
	domain.CategoryVegetablesFruits: func(f listingFields) bool {
		return containsAny(f.business, produceBusinessTerms...) ||
			containsAny(f.product, produceProductTerms...)
	},
	domain.CategoryRiceGrain: func(f listingFields) bool {
		return containsAny(f.business, riceGrainTerms...) ||
			containsAny(f.product, riceGrainTerms...)
	},
	domain.CategoryGrocery: func(f listingFields) bool {
		return containsAny(f.business, groceryBusinessTerms...) ||
			containsAny(f.product, groceryProductTerms...)
	},
}

// MatchesCategory reports whether a listing belongs to the selected browsing category.
// Fish and dried fish are decided by the stall zone prefix; every other category
// is a substring heuristic over business, product and product-category names.
// Unknown categories never match. A listing may match several categories.
func MatchesCategory(selectedCategory, businessName, productName, productCategoryName, stallNumber string) bool {
	predicate, ok := categoryPredicates[domain.NormalizeCategory(selectedCategory)]
	if !ok {
		return false
	}
	return predicate(normalizeFields(businessName, productName, productCategoryName, stallNumber))
}

// MatchesListing applies MatchesCategory to a backend listing row
func MatchesListing(selectedCategory string, row domain.ListingRow) bool {
	return MatchesCategory(
		selectedCategory,
		row.Vendor.BusinessName,
		row.Product.Name,
		row.Product.CategoryName,
		row.Vendor.StallNumber,
	)
}

// DetectMeatTypes derives the meat badges of a single product.
// Badges look only at the product itself, never at the vendor's name.
func DetectMeatTypes(productName, productCategoryName string) domain.MeatTypes {
	product := strings.ToLower(productName)
	category := strings.ToLower(productCategoryName)

	return domain.MeatTypes{
		Pork:    strings.Contains(category, "pork") || containsAny(product, porkBadgeTerms...),
		Beef:    strings.Contains(category, "beef") || containsAny(product, beefTerms...),
		Chicken: strings.Contains(category, "chicken") || containsAny(product, chickenTerms...),
	}
}

// ClassifyProductKind picks a single icon kind, beef before pork before chicken
func ClassifyProductKind(productName, productCategoryName string) domain.ProductKind {
	types := DetectMeatTypes(productName, productCategoryName)
	switch {
	case types.Beef:
		return domain.KindBeef
	case types.Pork:
		return domain.KindPork
	case types.Chicken:
		return domain.KindChicken
	default:
		return domain.KindOther
	}
}

func normalizeFields(businessName, productName, productCategoryName, stallNumber string) listingFields {
	return listingFields{
		business: strings.ToLower(businessName),
		product:  strings.ToLower(productName),
		category: strings.ToLower(productCategoryName),
		stall:    normalizeStallNumber(stallNumber),
	}
}

// normalizeStallNumber upper-cases a stall number and drops all whitespace
func normalizeStallNumber(stallNumber string) string {
	return strings.ToUpper(strings.Join(strings.Fields(stallNumber), ""))
}

// containsAny reports whether s contains at least one of the terms
func containsAny(s string, terms ...string) bool {
	if s == "" {
		return false
	}
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// unionTerms concatenates term lists, keeping the first occurrence of each term
func unionTerms(lists ...[]string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, list := range lists {
		for _, term := range list {
			if !seen[term] {
				seen[term] = true
				result = append(result, term)
			}
		}
	}
	return result
}
