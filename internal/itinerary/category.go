package itinerary

import "strings"

var categorySynonyms = map[string]string{
	"transport":      CategoryTransport,
	"transportation": CategoryTransport,
	"transit":        CategoryTransport,
	"travel":         CategoryTransport,
	"flight":         CategoryTransport,
	"train":          CategoryTransport,
	"bus":            CategoryTransport,
	"taxi":           CategoryTransport,
	"car":            CategoryTransport,
	"ferry":          CategoryTransport,
	"transfer":       CategoryTransport,

	"activity":      CategoryActivity,
	"activities":    CategoryActivity,
	"sightseeing":   CategoryActivity,
	"attraction":    CategoryActivity,
	"tour":          CategoryActivity,
	"museum":        CategoryActivity,
	"outdoor":       CategoryActivity,
	"adventure":     CategoryActivity,
	"entertainment": CategoryActivity,
	"shopping":      CategoryActivity,
	"culture":       CategoryActivity,
	"nightlife":     CategoryActivity,

	"food":       CategoryFood,
	"dining":     CategoryFood,
	"restaurant": CategoryFood,
	"meal":       CategoryFood,
	"breakfast":  CategoryFood,
	"lunch":      CategoryFood,
	"dinner":     CategoryFood,
	"cafe":       CategoryFood,
	"drinks":     CategoryFood,

	"accommodation": CategoryAccommodation,
	"lodging":       CategoryAccommodation,
	"hotel":         CategoryAccommodation,
	"hostel":        CategoryAccommodation,
	"stay":          CategoryAccommodation,
	"check-in":      CategoryAccommodation,
	"checkin":       CategoryAccommodation,

	"other": CategoryOther,
}

// NormalizeCategory maps free-form category names onto the five known ones.
func NormalizeCategory(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "_", "-")
	if c, ok := categorySynonyms[key]; ok {
		return c
	}
	key = strings.TrimSuffix(key, "s")
	if c, ok := categorySynonyms[key]; ok {
		return c
	}
	return CategoryOther
}

// IsCategory reports whether s is already one of the five categories.
func IsCategory(s string) bool {
	switch s {
	case CategoryTransport, CategoryActivity, CategoryFood, CategoryAccommodation, CategoryOther:
		return true
	}
	return false
}
