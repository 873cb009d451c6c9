package service

import (
	"strings"

	"github.com/swipebite/backend/internal/models"
)

// cuisineKeywords maps a cuisine display name to dish words that identify it.
// Detection walks cuisineOrder so that overlapping keywords ("curry" vs
// "green curry") resolve the same way every run.
var cuisineKeywords = map[string][]string{
	"Italian":       {"pasta", "pizza", "risotto", "lasagna", "ravioli", "gnocchi", "tiramisu", "gelato", "carbonara", "bolognese"},
	"Mexican":       {"taco", "burrito", "enchilada", "quesadilla", "guacamole", "nachos", "fajita", "churro", "tamale", "salsa"},
	"Japanese":      {"sushi", "ramen", "tempura", "udon", "sashimi", "miso", "teriyaki", "mochi", "edamame", "gyoza"},
	"Indian":        {"curry", "tikka", "masala", "biryani", "naan", "samosa", "tandoori", "paneer", "dal", "chutney"},
	"Chinese":       {"fried rice", "dumpling", "kung pao", "lo mein", "chow mein", "spring roll", "wonton", "dim sum", "orange chicken"},
	"Thai":          {"pad thai", "green curry", "tom yum", "satay", "thai basil", "massaman", "papaya salad"},
	"American":      {"burger", "steak", "bbq", "wings", "mac and cheese", "hot dog", "pancake", "bacon", "fries"},
	"Mediterranean": {"hummus", "falafel", "shawarma", "gyro", "kebab", "pita", "tzatziki", "baklava"},
	"Korean":        {"bibimbap", "bulgogi", "kimchi", "korean bbq", "japchae", "tteokbokki", "kimbap"},
	"French":        {"croissant", "crepe", "souffle", "quiche", "baguette", "eclair", "ratatouille"},
}

var cuisineOrder = []string{
	"Italian", "Mexican", "Japanese", "Indian", "Chinese",
	"Thai", "American", "Mediterranean", "Korean", "French",
}

// mealKeywords drives meal-type detection for discovered dish names.
var mealKeywords = map[string][]string{
	models.MealBreakfast: {"pancake", "waffle", "egg", "bacon", "omelette", "toast", "cereal", "bagel", "croissant", "breakfast"},
	models.MealLunch:     {"sandwich", "salad", "soup", "wrap", "burger", "lunch"},
	models.MealDinner:    {"steak", "pasta", "curry", "roast", "grilled", "dinner", "entree"},
	models.MealSnack:     {"fries", "nachos", "wings", "chips", "popcorn", "pretzel"},
	models.MealDessert:   {"cake", "ice cream", "cookie", "brownie", "pie", "chocolate", "tiramisu", "cheesecake", "mochi", "churro"},
}

var mealOrder = []string{
	models.MealBreakfast, models.MealLunch, models.MealDinner,
	models.MealSnack, models.MealDessert,
}

// excludedDishWords are search-result noise that must never become a dish name.
var excludedDishWords = map[string]struct{}{
	"restaurant": {}, "restaurants": {}, "menu": {}, "recipe": {}, "recipes": {},
	"best": {}, "top": {}, "near": {}, "delivery": {}, "order": {}, "online": {},
	"review": {}, "reviews": {}, "yelp": {}, "tripadvisor": {}, "doordash": {},
	"ubereats": {}, "grubhub": {}, "food": {}, "foods": {}, "dishes": {},
}

var meatKeywords = []string{
	"chicken", "beef", "pork", "lamb", "fish", "shrimp", "bacon",
	"steak", "meat", "sausage", "ham", "turkey", "duck", "seafood",
	"crab", "lobster", "salmon", "tuna",
}

var vegetarianKeywords = []string{
	"vegetable", "veggie", "tofu", "paneer", "cheese", "mushroom",
	"salad", "vegetarian",
}

var nonVeganKeywords = []string{
	"cheese", "cream", "butter", "egg", "milk", "honey", "yogurt",
	"chicken", "beef", "pork", "fish", "meat", "paneer",
}

var veganKeywords = []string{"vegan", "plant-based", "tofu"}

// DetectCuisineName returns the cuisine a dish name belongs to, or "" when
// no keyword matches.
func DetectCuisineName(dishName string) string {
	lower := strings.ToLower(dishName)
	for _, cuisine := range cuisineOrder {
		for _, keyword := range cuisineKeywords[cuisine] {
			if strings.Contains(lower, keyword) {
				return cuisine
			}
		}
	}
	return ""
}

// DetectMealType guesses the meal type from a dish name, defaulting to lunch.
func DetectMealType(dishName string) string {
	lower := strings.ToLower(dishName)
	for _, meal := range mealOrder {
		for _, keyword := range mealKeywords[meal] {
			if strings.Contains(lower, keyword) {
				return meal
			}
		}
	}
	return models.MealLunch
}

// IsVegetarianName reports whether a dish name looks vegetarian. Meat words
// veto, vegetarian words confirm, anything else counts as non-vegetarian.
func IsVegetarianName(dishName string) bool {
	lower := strings.ToLower(dishName)
	for _, keyword := range meatKeywords {
		if strings.Contains(lower, keyword) {
			return false
		}
	}
	for _, keyword := range vegetarianKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// IsVeganName reports whether a dish name looks vegan.
func IsVeganName(dishName string) bool {
	lower := strings.ToLower(dishName)
	for _, keyword := range nonVeganKeywords {
		if strings.Contains(lower, keyword) {
			return false
		}
	}
	for _, keyword := range veganKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// ExtractDishNames scans search-result text (titles and snippets) for known
// dish keywords and returns their cleaned names in first-seen order. When a
// cuisine hint is given, that cuisine's signature dishes are appended so a
// sparse result page still yields something to show.
func ExtractDishNames(texts []string, cuisineHint string) []string {
	seen := make(map[string]struct{})
	var names []string

	add := func(name string) {
		if len(name) <= 2 {
			return
		}
		if _, excluded := excludedDishWords[strings.ToLower(name)]; excluded {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, cuisine := range cuisineOrder {
			for _, keyword := range cuisineKeywords[cuisine] {
				if strings.Contains(lower, keyword) {
					add(TitleCase(keyword))
				}
			}
		}
	}

	if hinted, ok := cuisineKeywords[cuisineHint]; ok {
		for _, keyword := range hinted[:5] {
			add(TitleCase(keyword))
		}
	}

	return names
}

// SignatureDishes returns the best-known dishes for a cuisine, title-cased.
func SignatureDishes(cuisine string, limit int) []string {
	keywords, ok := cuisineKeywords[cuisine]
	if !ok {
		return nil
	}
	if limit <= 0 || limit > len(keywords) {
		limit = len(keywords)
	}
	dishes := make([]string, 0, limit)
	for _, keyword := range keywords[:limit] {
		dishes = append(dishes, TitleCase(keyword))
	}
	return dishes
}

// KnownCuisines returns the cuisine names the classifier understands, in
// detection order.
func KnownCuisines() []string {
	out := make([]string, len(cuisineOrder))
	copy(out, cuisineOrder)
	return out
}

// TitleCase upper-cases the first letter of every space-separated word.
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
