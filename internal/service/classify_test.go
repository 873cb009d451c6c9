package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swipebite/backend/internal/models"
)

func TestDetectCuisineName(t *testing.T) {
	tests := []struct {
		dish string
		want string
	}{
		{"Margherita Pizza", "Italian"},
		{"Chicken Tikka Masala", "Indian"},
		{"Pad Thai", "Thai"},
		{"Spicy Tuna Sushi Roll", "Japanese"},
		{"Carne Asada Taco", "Mexican"},
		{"Mystery Stew", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectCuisineName(tt.dish), tt.dish)
	}
}

func TestDetectCuisineNameIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, "Italian", DetectCuisineName("TRUFFLE PASTA"))
}

func TestDetectMealType(t *testing.T) {
	tests := []struct {
		dish string
		want string
	}{
		{"Blueberry Pancakes", models.MealBreakfast},
		{"Caesar Salad", models.MealLunch},
		{"Grilled Ribeye", models.MealDinner},
		{"Loaded Nachos", models.MealSnack},
		{"Chocolate Brownie", models.MealDessert},
		{"Something Unrecognizable", models.MealLunch},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectMealType(tt.dish), tt.dish)
	}
}

func TestIsVegetarianName(t *testing.T) {
	assert.True(t, IsVegetarianName("Paneer Butter Masala"))
	assert.True(t, IsVegetarianName("Garden Veggie Wrap"))
	// Meat words veto even with vegetarian words present.
	assert.False(t, IsVegetarianName("Chicken Caesar Salad"))
	assert.False(t, IsVegetarianName("Plain Rice Bowl"))
}

func TestIsVeganName(t *testing.T) {
	assert.True(t, IsVeganName("Vegan Buddha Bowl"))
	assert.True(t, IsVeganName("Crispy Tofu Bites"))
	assert.False(t, IsVeganName("Vegan Cheese Pizza"))
	assert.False(t, IsVeganName("Plain Rice Bowl"))
}

func TestExtractDishNames(t *testing.T) {
	texts := []string{
		"Best ramen and gyoza in town - Sakura House",
		"Our tempura is hand battered daily. Try the ramen too.",
	}

	names := ExtractDishNames(texts, "")
	assert.Equal(t, []string{"Ramen", "Gyoza", "Tempura"}, names)
}

func TestExtractDishNamesAppendsHintedSignatures(t *testing.T) {
	names := ExtractDishNames(nil, "Thai")
	assert.Contains(t, names, "Pad Thai")
	assert.Contains(t, names, "Green Curry")
}

func TestExtractDishNamesSkipsNoiseWords(t *testing.T) {
	names := ExtractDishNames([]string{"best pizza delivery near me"}, "")
	assert.Equal(t, []string{"Pizza"}, names)
}

func TestSignatureDishes(t *testing.T) {
	dishes := SignatureDishes("Korean", 3)
	assert.Equal(t, []string{"Bibimbap", "Bulgogi", "Kimchi"}, dishes)

	assert.Nil(t, SignatureDishes("Martian", 3))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Pad Thai", TitleCase("pad thai"))
	assert.Equal(t, "Kung Pao Chicken", TitleCase("KUNG PAO CHICKEN"))
	assert.Equal(t, "", TitleCase(""))
}
