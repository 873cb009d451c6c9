package main

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/swipebite/backend/config"
	"github.com/swipebite/backend/internal/database"
	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/service"
)

type seedDish struct {
	name        string
	description string
	cuisine     string
	mealType    string
	calories    int
	protein     int
	spice       int
	ingredients []string
	allergens   []string
}

var seedCuisines = map[string]string{
	"Italian":  "🍝",
	"Japanese": "🍣",
	"Mexican":  "🌮",
	"Indian":   "🍛",
	"Thai":     "🍜",
	"American": "🍔",
}

var seedDishes = []seedDish{
	{"Margherita Pizza", "Wood-fired pizza with tomato, mozzarella and basil", "Italian", "dinner", 850, 32, 0, []string{"tomato", "mozzarella", "basil", "flour"}, []string{"mozzarella", "flour"}},
	{"Spaghetti Carbonara", "Pasta with guanciale, egg and pecorino", "Italian", "dinner", 920, 35, 0, []string{"spaghetti", "guanciale", "egg", "pecorino"}, []string{"egg", "spaghetti"}},
	{"Salmon Nigiri", "Fresh salmon over seasoned rice", "Japanese", "lunch", 320, 24, 0, []string{"salmon", "rice", "wasabi"}, []string{"salmon"}},
	{"Chicken Ramen", "Rich broth with noodles, chicken and a soft egg", "Japanese", "dinner", 680, 38, 1, []string{"noodles", "chicken", "egg", "scallion"}, []string{"egg", "noodles"}},
	{"Carne Asada Tacos", "Grilled steak tacos with onion and cilantro", "Mexican", "lunch", 540, 34, 2, []string{"steak", "tortilla", "onion", "cilantro"}, nil},
	{"Chicken Tikka Masala", "Tandoori chicken in a spiced tomato cream sauce", "Indian", "dinner", 760, 42, 3, []string{"chicken", "tomato", "cream", "garam masala"}, []string{"cream"}},
	{"Pad Thai", "Stir-fried rice noodles with shrimp, peanuts and tamarind", "Thai", "dinner", 650, 28, 2, []string{"rice noodles", "shrimp", "peanuts", "tamarind"}, []string{"shrimp", "peanuts"}},
	{"Green Curry Tofu", "Coconut green curry with tofu and thai basil", "Thai", "dinner", 520, 18, 4, []string{"tofu", "coconut milk", "green curry paste", "basil"}, nil},
	{"Avocado Toast", "Sourdough with smashed avocado and chili flakes", "American", "breakfast", 380, 10, 1, []string{"sourdough", "avocado", "chili flakes"}, []string{"sourdough"}},
	{"Cheeseburger", "Smashed patty with cheddar on a brioche bun", "American", "lunch", 780, 36, 0, []string{"beef", "cheddar", "brioche bun", "pickles"}, []string{"cheddar", "brioche bun"}},
}

type seedRestaurant struct {
	name    string
	city    string
	cuisine string
	lat     float64
	lng     float64
	price   string
	dishes  []string
}

var seedRestaurants = []seedRestaurant{
	{"Trattoria Nonna", "San Francisco", "Italian", 37.7599, -122.4148, "$$", []string{"Margherita Pizza", "Spaghetti Carbonara"}},
	{"Sakura House", "San Francisco", "Japanese", 37.7858, -122.4294, "$$$", []string{"Salmon Nigiri", "Chicken Ramen"}},
	{"El Camion", "Oakland", "Mexican", 37.8044, -122.2712, "$", []string{"Carne Asada Tacos"}},
	{"Spice Route", "San Francisco", "Indian", 37.7749, -122.4194, "$$", []string{"Chicken Tikka Masala"}},
	{"Bangkok Corner", "Berkeley", "Thai", 37.8716, -122.2727, "$$", []string{"Pad Thai", "Green Curry Tofu"}},
	{"The Grill Yard", "Oakland", "American", 37.8080, -122.2680, "$$", []string{"Avocado Toast", "Cheeseburger"}},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLog, err := logger.New(string(config.GetEnvironment()))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLog.Sync()

	db, err := database.New(cfg, appLog)
	if err != nil {
		appLog.Fatalw("failed to connect to database", "error", err)
	}
	if err := database.RunMigrations(db, ""); err != nil {
		appLog.Fatalw("migration failed", "error", err)
	}

	cuisines := seedCuisineRows(db, appLog)
	dishes := seedDishRows(db, cuisines, appLog)
	seedRestaurantRows(db, cuisines, dishes, appLog)
	seedChallenges(db, appLog)
	seedDemoUser(db, appLog)

	appLog.Infow("seed complete")
}

func seedCuisineRows(db *gorm.DB, appLog *logger.Logger) map[string]uuid.UUID {
	ids := make(map[string]uuid.UUID, len(seedCuisines))
	for name, emoji := range seedCuisines {
		var cuisine models.Cuisine
		err := db.Where("name = ?", name).First(&cuisine).Error
		if err == gorm.ErrRecordNotFound {
			cuisine = models.Cuisine{ID: uuid.New(), Name: name, Emoji: emoji}
			err = db.Create(&cuisine).Error
		}
		if err != nil {
			appLog.Fatalw("failed to seed cuisine", "cuisine", name, "error", err)
		}
		ids[name] = cuisine.ID
	}
	return ids
}

func seedDishRows(db *gorm.DB, cuisines map[string]uuid.UUID, appLog *logger.Logger) map[string]uuid.UUID {
	ids := make(map[string]uuid.UUID, len(seedDishes))
	for _, d := range seedDishes {
		var dish models.Dish
		err := db.Where("name = ?", d.name).First(&dish).Error
		if err == nil {
			ids[d.name] = dish.ID
			continue
		}
		if err != gorm.ErrRecordNotFound {
			appLog.Fatalw("failed to check dish", "dish", d.name, "error", err)
		}

		cuisineID := cuisines[d.cuisine]
		calories, protein := d.calories, d.protein
		dish = models.Dish{
			ID:           uuid.New(),
			Name:         d.name,
			Description:  d.description,
			CuisineID:    &cuisineID,
			MealType:     d.mealType,
			Calories:     &calories,
			Protein:      &protein,
			SpiceLevel:   d.spice,
			IsVegetarian: service.IsVegetarianName(d.name),
			IsVegan:      service.IsVeganName(d.name),
			IsActive:     true,
			Embedding:    service.DishEmbedding(d.name, d.description),
		}
		if err := db.Create(&dish).Error; err != nil {
			appLog.Fatalw("failed to seed dish", "dish", d.name, "error", err)
		}

		allergens := make(map[string]bool, len(d.allergens))
		for _, a := range d.allergens {
			allergens[a] = true
		}
		for _, ing := range d.ingredients {
			row := models.DishIngredient{
				ID:         uuid.New(),
				DishID:     dish.ID,
				Name:       ing,
				IsAllergen: allergens[ing],
			}
			if err := db.Create(&row).Error; err != nil {
				appLog.Fatalw("failed to seed ingredient", "dish", d.name, "ingredient", ing, "error", err)
			}
		}
		ids[d.name] = dish.ID
	}
	return ids
}

func seedRestaurantRows(db *gorm.DB, cuisines, dishes map[string]uuid.UUID, appLog *logger.Logger) {
	for _, r := range seedRestaurants {
		var restaurant models.Restaurant
		err := db.Where("name = ?", r.name).First(&restaurant).Error
		if err == gorm.ErrRecordNotFound {
			cuisineID := cuisines[r.cuisine]
			lat, lng := r.lat, r.lng
			restaurant = models.Restaurant{
				ID:          uuid.New(),
				Name:        r.name,
				City:        r.city,
				Latitude:    &lat,
				Longitude:   &lng,
				PriceRange:  r.price,
				CuisineID:   &cuisineID,
				HasUberEats: true,
				HasDoorDash: true,
				IsActive:    true,
			}
			err = db.Create(&restaurant).Error
		}
		if err != nil {
			appLog.Fatalw("failed to seed restaurant", "restaurant", r.name, "error", err)
		}

		for _, dishName := range r.dishes {
			dishID, ok := dishes[dishName]
			if !ok {
				continue
			}
			var link models.RestaurantDish
			err := db.Where("restaurant_id = ? AND dish_id = ?", restaurant.ID, dishID).First(&link).Error
			if err != gorm.ErrRecordNotFound {
				continue
			}
			link = models.RestaurantDish{
				ID:           uuid.New(),
				RestaurantID: restaurant.ID,
				DishID:       dishID,
				Price:        12.50,
				IsAvailable:  true,
			}
			if err := db.Create(&link).Error; err != nil {
				appLog.Fatalw("failed to link dish", "restaurant", r.name, "dish", dishName, "error", err)
			}
		}
	}
}

func seedChallenges(db *gorm.DB, appLog *logger.Logger) {
	now := time.Now().UTC()
	challenges := []models.CommunityChallenge{
		{
			ID:                uuid.New(),
			Title:             "Thai Week",
			Description:       "Swipe right on five Thai dishes this week",
			ChallengeType:     "weekly",
			StartDate:         now.AddDate(0, 0, -1),
			EndDate:           now.AddDate(0, 0, 6),
			Status:            "active",
			TargetCuisine:     "Thai",
			RewardDescription: "Spice Seeker badge",
		},
		{
			ID:                uuid.New(),
			Title:             "Breakfast Explorer",
			Description:       "Try three new breakfast dishes this month",
			ChallengeType:     "monthly",
			StartDate:         now.AddDate(0, 0, 7),
			EndDate:           now.AddDate(0, 1, 7),
			Status:            "upcoming",
			RewardDescription: "Early Bird badge",
		},
	}

	for _, ch := range challenges {
		var existing models.CommunityChallenge
		if err := db.Where("title = ?", ch.Title).First(&existing).Error; err != gorm.ErrRecordNotFound {
			continue
		}
		if err := db.Create(&ch).Error; err != nil {
			appLog.Fatalw("failed to seed challenge", "challenge", ch.Title, "error", err)
		}
	}
}

func seedDemoUser(db *gorm.DB, appLog *logger.Logger) {
	var existing models.User
	if err := db.Where("username = ?", "demo").First(&existing).Error; err != gorm.ErrRecordNotFound {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password-123"), bcrypt.DefaultCost)
	if err != nil {
		appLog.Fatalw("failed to hash demo password", "error", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     "demo",
		Email:        "demo@swipebite.local",
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		appLog.Fatalw("failed to seed demo user", "error", err)
	}

	lat, lng := 37.7749, -122.4194
	calories := 2200
	profile := models.UserProfile{
		ID:               uuid.New(),
		UserID:           user.ID,
		City:             "San Francisco",
		DietType:         "none",
		FavoriteCuisines: models.StringList{"Thai", "Japanese"},
		DailyCalorieGoal: &calories,
		Latitude:         &lat,
		Longitude:        &lng,
		MaxDistanceMiles: 5,
	}
	if err := db.Create(&profile).Error; err != nil {
		appLog.Fatalw("failed to seed demo profile", "error", err)
	}
}
