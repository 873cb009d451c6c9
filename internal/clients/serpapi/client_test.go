package serpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipebite/backend/internal/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &Client{
		apiKey:  "test-api-key",
		baseURL: srv.URL,
		httpc:   srv.Client(),
		log:     logger.NewNop(),
		backoff: time.Millisecond,
	}
}

func TestSearchRestaurants(t *testing.T) {
	t.Run("should decode local results", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "google_maps", q.Get("engine"))
			assert.Equal(t, "search", q.Get("type"))
			assert.Equal(t, "tacos", q.Get("q"))
			assert.Equal(t, "@40.7128,-74.006,14z", q.Get("ll"))
			assert.Equal(t, "test-api-key", q.Get("api_key"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"local_results": [
					{
						"title": "Taqueria El Sol",
						"place_id": "ChIJabc123",
						"data_id": "0x89c25:0x123",
						"address": "12 Mott St, New York, NY 10013",
						"phone": "(212) 555-0100",
						"rating": 4.6,
						"reviews": 812,
						"price": "$$",
						"type": "Mexican restaurant",
						"thumbnail": "https://example.com/thumb.jpg",
						"gps_coordinates": {"latitude": 40.7145, "longitude": -73.9982}
					},
					{
						"title": "Cantina Verde",
						"place_id": "ChIJdef456",
						"data_id": "0x89c26:0x456",
						"rating": 4.1,
						"reviews": 95,
						"price": 3
					}
				]
			}`))
		})

		places, err := client.SearchRestaurants(context.Background(), "tacos", 40.7128, -74.006, 0, 0)
		require.NoError(t, err)
		require.Len(t, places, 2)

		assert.Equal(t, "Taqueria El Sol", places[0].Title)
		assert.Equal(t, "ChIJabc123", places[0].PlaceID)
		assert.Equal(t, "0x89c25:0x123", places[0].DataID)
		assert.Equal(t, 4.6, places[0].Rating)
		assert.Equal(t, 812, places[0].Reviews)
		assert.Equal(t, "$$", places[0].Price.Range())
		assert.Equal(t, 40.7145, places[0].GPSCoordinates.Latitude)
		assert.Equal(t, -73.9982, places[0].GPSCoordinates.Longitude)

		// Numeric price levels map to repeated dollar signs.
		assert.Equal(t, "$$$", places[1].Price.Range())
	})

	t.Run("should fall back to places results", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"places_results": [{"title": "Solo Spot", "place_id": "ChIJsolo"}]}`))
		})

		places, err := client.SearchRestaurants(context.Background(), "ramen", 40.7, -74.0, 0, 0)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "Solo Spot", places[0].Title)
	})

	t.Run("should cap results at limit", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"local_results": [{"title": "A"}, {"title": "B"}, {"title": "C"}]}`))
		})

		places, err := client.SearchRestaurants(context.Background(), "pizza", 40.7, -74.0, 0, 2)
		require.NoError(t, err)
		assert.Len(t, places, 2)
	})

	t.Run("should honor an explicit zoom", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "@40.7,-74,12z", r.URL.Query().Get("ll"))
			w.Write([]byte(`{"local_results": []}`))
		})

		_, err := client.SearchRestaurants(context.Background(), "pizza", 40.7, -74.0, 12, 0)
		require.NoError(t, err)
	})

	t.Run("should fail without API key", func(t *testing.T) {
		client := &Client{baseURL: "http://unused", httpc: http.DefaultClient, log: logger.NewNop()}
		assert.False(t, client.IsConfigured())

		_, err := client.SearchRestaurants(context.Background(), "tacos", 40.7, -74.0, 0, 0)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})
}

func TestGetPlaceDetails(t *testing.T) {
	t.Run("should decode menu items", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "google_maps", q.Get("engine"))
			assert.Equal(t, "place", q.Get("type"))
			assert.Equal(t, "0x89c25:0x123", q.Get("data"))

			w.Write([]byte(`{
				"place_results": {
					"title": "Taqueria El Sol",
					"about_this_place": "Family-run taqueria since 1998.",
					"menu_items": [
						{"name": "Carnitas Taco", "description": "Slow-braised pork", "price": "$4.50"},
						{"title": "Horchata", "price": "$3"}
					]
				}
			}`))
		})

		details, err := client.GetPlaceDetails(context.Background(), "0x89c25:0x123")
		require.NoError(t, err)
		require.Len(t, details.MenuItems, 2)

		assert.Equal(t, "Family-run taqueria since 1998.", details.About)
		assert.Equal(t, "Carnitas Taco", details.MenuItems[0].DisplayName())
		assert.Equal(t, 4.5, details.MenuItems[0].Price.Amount())
		assert.Equal(t, "Horchata", details.MenuItems[1].DisplayName())
	})

	t.Run("should return empty details when place missing", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})

		details, err := client.GetPlaceDetails(context.Background(), "0xmissing")
		require.NoError(t, err)
		require.NotNil(t, details)
		assert.Empty(t, details.MenuItems)
		assert.Empty(t, details.About)
	})

	t.Run("should require a data_id", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {})

		_, err := client.GetPlaceDetails(context.Background(), "")
		assert.Error(t, err)
	})
}

func TestGetPlaceReviews(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "google_maps_reviews", q.Get("engine"))
		assert.Equal(t, "0x89c25:0x123", q.Get("data_id"))

		w.Write([]byte(`{
			"reviews": [
				{"user": {"name": "Dana"}, "rating": 5, "date": "2 weeks ago", "snippet": "Best tacos in the city."},
				{"user": {"name": "Lee"}, "rating": 4, "snippet": "Great salsa bar."},
				{"user": {"name": "Sam"}, "rating": 3, "snippet": "Long wait."}
			]
		}`))
	})

	reviews, err := client.GetPlaceReviews(context.Background(), "0x89c25:0x123", 2)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Dana", reviews[0].User.Name)
	assert.Equal(t, 5.0, reviews[0].Rating)
	assert.Equal(t, "Best tacos in the city.", reviews[0].Snippet)
}

func TestSearchWeb(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "google", q.Get("engine"))
		assert.Equal(t, "popular dishes food near Austin", q.Get("q"))
		assert.Equal(t, "30", q.Get("num"))

		w.Write([]byte(`{
			"organic_results": [
				{"title": "10 Best Breakfast Tacos in Austin", "link": "https://example.com/tacos", "snippet": "Migas and more."}
			],
			"menu_highlights": [
				{"title": "Brisket Plate"}
			]
		}`))
	})

	results, err := client.SearchWeb(context.Background(), "popular dishes food near Austin", 30)
	require.NoError(t, err)
	require.Len(t, results.Organic, 1)
	assert.Equal(t, "10 Best Breakfast Tacos in Austin", results.Organic[0].Title)
	require.Len(t, results.MenuHighlights, 1)
	assert.Equal(t, "Brisket Plate", results.MenuHighlights[0].DisplayName())
}

func TestSearchImages(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "google_images", q.Get("engine"))
		assert.Equal(t, "pad thai dish food photography", q.Get("q"))

		w.Write([]byte(`{
			"images_results": [
				{"title": "Pad Thai", "original": "https://example.com/pad-thai.jpg", "thumbnail": "https://example.com/pad-thai-small.jpg"},
				{"title": "Pad Thai Bowl", "original": "https://example.com/bowl.jpg"}
			]
		}`))
	})

	images, err := client.SearchImages(context.Background(), "pad thai dish food photography", 1)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "https://example.com/pad-thai.jpg", images[0].Original)
}

func TestClientRetries(t *testing.T) {
	t.Run("should retry server errors", func(t *testing.T) {
		attempts := 0
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"local_results": [{"title": "Recovered"}]}`))
		})

		places, err := client.SearchRestaurants(context.Background(), "sushi", 40.7, -74.0, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
		require.Len(t, places, 1)
		assert.Equal(t, "Recovered", places[0].Title)
	})

	t.Run("should not retry client errors", func(t *testing.T) {
		attempts := 0
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "Invalid API key"}`))
		})

		_, err := client.SearchRestaurants(context.Background(), "sushi", 40.7, -74.0, 0, 0)
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
		assert.Contains(t, err.Error(), "Invalid API key")
	})

	t.Run("should surface engine errors from 200 bodies", func(t *testing.T) {
		attempts := 0
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.Write([]byte(`{"error": "Google Maps hasn't returned any results for this query."}`))
		})

		_, err := client.SearchRestaurants(context.Background(), "nothing here", 0, 0, 0, 0)
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
		assert.Contains(t, err.Error(), "hasn't returned any results")
	})
}

func TestPriceLevel(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantRange string
		wantAmt   float64
	}{
		{
			name:      "dollar string",
			input:     `"$$"`,
			wantRange: "$$",
			wantAmt:   0,
		},
		{
			name:      "long dollar string keeps first four",
			input:     `"$$$$$"`,
			wantRange: "$$$$",
			wantAmt:   0,
		},
		{
			name:      "menu amount",
			input:     `"$12.99"`,
			wantRange: "$12.",
			wantAmt:   12.99,
		},
		{
			name:      "numeric level",
			input:     `2`,
			wantRange: "$$",
			wantAmt:   2,
		},
		{
			name:      "numeric level clamps high",
			input:     `9`,
			wantRange: "$$$$",
			wantAmt:   9,
		},
		{
			name:      "unknown falls back to moderate",
			input:     `"cheap"`,
			wantRange: "$$",
			wantAmt:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var price PriceLevel
			err := price.UnmarshalJSON([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantRange, price.Range())
			assert.Equal(t, tt.wantAmt, price.Amount())
		})
	}

	t.Run("should reject invalid input", func(t *testing.T) {
		var price PriceLevel
		err := price.UnmarshalJSON([]byte(`[1]`))
		assert.Error(t, err)
	})

	t.Run("zero value defaults to moderate", func(t *testing.T) {
		var price PriceLevel
		assert.True(t, price.IsZero())
		assert.Equal(t, "$$", price.Range())
	})
}
