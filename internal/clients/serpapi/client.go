// Package serpapi is a typed client for SerpAPI's Google Maps, Google
// Search and Google Images engines. Restaurant discovery, dish photo
// lookup and web-context queries all go through it.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/swipebite/backend/config"
	"github.com/swipebite/backend/internal/httpx"
	"github.com/swipebite/backend/internal/logger"
)

const (
	defaultZoom  = 14
	maxAttempts  = 3
	retryBackoff = time.Second
)

// Client issues search requests against a SerpAPI endpoint.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	log     *logger.Logger
	backoff time.Duration
}

// New creates a Client from configuration. An empty API key yields a
// client that reports itself unconfigured; callers must check
// IsConfigured before relying on live results.
func New(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		apiKey:  cfg.SerpAPIKey,
		baseURL: cfg.SerpAPIBaseURL,
		httpc:   &http.Client{Timeout: 12 * time.Second},
		log:     log,
		backoff: retryBackoff,
	}
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// APIError is a failed SerpAPI call: a non-2xx status, or an error the
// engine reported inside a 200 body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("serpapi: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("serpapi: status %d", e.Status)
}

// HTTPStatusCode implements httpx.StatusCoder.
func (e *APIError) HTTPStatusCode() int {
	return e.Status
}

// GPSPoint is a latitude/longitude pair attached to a place result.
type GPSPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PriceLevel absorbs the two shapes SerpAPI uses for prices: a
// dollar-sign string ("$$", "$12.99") or a bare numeric level.
type PriceLevel struct {
	raw string
}

func (p *PriceLevel) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		p.raw = strconv.FormatFloat(num, 'f', -1, 64)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		p.raw = str
		return nil
	}

	return fmt.Errorf("invalid price format")
}

func (p PriceLevel) String() string {
	return p.raw
}

// IsZero reports whether no price was present in the result.
func (p PriceLevel) IsZero() bool {
	return p.raw == ""
}

// Range maps the price onto $ through $$$$. Dollar-sign strings keep
// their first four characters, bare numbers are treated as a 1-4 level,
// anything else falls back to $$.
func (p PriceLevel) Range() string {
	if strings.HasPrefix(p.raw, "$") {
		if len(p.raw) > 4 {
			return p.raw[:4]
		}
		return p.raw
	}
	if level, err := strconv.Atoi(p.raw); err == nil {
		if level < 1 {
			level = 1
		}
		if level > 4 {
			level = 4
		}
		return strings.Repeat("$", level)
	}
	return "$$"
}

// Amount parses a dollar figure out of a menu price such as "$12.99".
// Level-style prices ("$$") have no figure and yield zero.
func (p PriceLevel) Amount() float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(p.raw, "$", ""))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// Place is one restaurant entry from a Google Maps search. Reviews is
// the review count, not review text.
type Place struct {
	Title          string     `json:"title"`
	PlaceID        string     `json:"place_id"`
	DataID         string     `json:"data_id"`
	Address        string     `json:"address"`
	Phone          string     `json:"phone"`
	Website        string     `json:"website"`
	Rating         float64    `json:"rating"`
	Reviews        int        `json:"reviews"`
	Price          PriceLevel `json:"price"`
	Type           string     `json:"type"`
	Thumbnail      string     `json:"thumbnail"`
	GPSCoordinates GPSPoint   `json:"gps_coordinates"`
}

// Key returns the identifier used to deduplicate a place across
// discovery runs, preferring the stable place_id.
func (p Place) Key() string {
	if p.PlaceID != "" {
		return p.PlaceID
	}
	return p.DataID
}

// MenuItem is one entry of a place's published menu.
type MenuItem struct {
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       PriceLevel `json:"price"`
	Thumbnail   string     `json:"thumbnail"`
}

// DisplayName returns the item's name, falling back to its title.
func (m MenuItem) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Title
}

// PlaceDetails is the expanded record for a single place.
type PlaceDetails struct {
	Title     string     `json:"title"`
	Address   string     `json:"address"`
	Phone     string     `json:"phone"`
	Website   string     `json:"website"`
	Rating    float64    `json:"rating"`
	About     string     `json:"about_this_place"`
	MenuItems []MenuItem `json:"menu_items"`
}

// PlaceReview is a single user review of a place.
type PlaceReview struct {
	User    ReviewAuthor `json:"user"`
	Rating  float64      `json:"rating"`
	Date    string       `json:"date"`
	Snippet string       `json:"snippet"`
}

// ReviewAuthor identifies who wrote a place review.
type ReviewAuthor struct {
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
}

// SearchResult is one organic Google result.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// MenuHighlight is a menu entry Google surfaces for restaurant queries.
type MenuHighlight struct {
	Title string `json:"title"`
	Name  string `json:"name"`
}

// DisplayName returns the highlight's title, falling back to its name.
func (m MenuHighlight) DisplayName() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// WebResults is the useful subset of a plain Google search response.
type WebResults struct {
	Organic        []SearchResult  `json:"organic_results"`
	MenuHighlights []MenuHighlight `json:"menu_highlights"`
}

// ImageResult is one Google Images hit.
type ImageResult struct {
	Title     string `json:"title"`
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
}

// SearchRestaurants finds restaurants near a coordinate using the Google
// Maps engine. Results come from local_results with places_results as a
// fallback, capped at limit when limit is positive. A non-positive zoom
// falls back to the default map zoom.
func (c *Client) SearchRestaurants(ctx context.Context, query string, latitude, longitude float64, zoom, limit int) ([]Place, error) {
	if zoom <= 0 {
		zoom = defaultZoom
	}

	params := url.Values{}
	params.Set("engine", "google_maps")
	params.Set("type", "search")
	params.Set("q", query)
	params.Set("ll", fmt.Sprintf("@%s,%s,%dz", formatCoord(latitude), formatCoord(longitude), zoom))
	params.Set("hl", "en")
	params.Set("google_domain", "google.com")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var result struct {
		LocalResults  []Place `json:"local_results"`
		PlacesResults []Place `json:"places_results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	places := result.LocalResults
	if len(places) == 0 {
		places = result.PlacesResults
	}
	if limit > 0 && len(places) > limit {
		places = places[:limit]
	}
	return places, nil
}

// GetPlaceDetails fetches the expanded record for a place by its
// data_id. A response without place_results yields empty details rather
// than an error so callers can fall back to search-level fields.
func (c *Client) GetPlaceDetails(ctx context.Context, dataID string) (*PlaceDetails, error) {
	if dataID == "" {
		return nil, fmt.Errorf("serpapi: data_id is required")
	}

	params := url.Values{}
	params.Set("engine", "google_maps")
	params.Set("type", "place")
	params.Set("data", dataID)
	params.Set("hl", "en")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var result struct {
		PlaceResults *PlaceDetails `json:"place_results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode place details: %w", err)
	}

	if result.PlaceResults == nil {
		return &PlaceDetails{}, nil
	}
	return result.PlaceResults, nil
}

// GetPlaceReviews fetches up to limit user reviews for a place.
func (c *Client) GetPlaceReviews(ctx context.Context, dataID string, limit int) ([]PlaceReview, error) {
	if dataID == "" {
		return nil, fmt.Errorf("serpapi: data_id is required")
	}

	params := url.Values{}
	params.Set("engine", "google_maps_reviews")
	params.Set("data_id", dataID)
	params.Set("hl", "en")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var result struct {
		Reviews []PlaceReview `json:"reviews"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	reviews := result.Reviews
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

// SearchWeb runs a plain Google search. num controls how many organic
// results the engine is asked for.
func (c *Client) SearchWeb(ctx context.Context, query string, num int) (*WebResults, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("hl", "en")
	if num > 0 {
		params.Set("num", strconv.Itoa(num))
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var result WebResults
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode web results: %w", err)
	}
	return &result, nil
}

// SearchImages queries the Google Images engine, capped at limit when
// limit is positive. Used to find a representative photo for a dish.
func (c *Client) SearchImages(ctx context.Context, query string, limit int) ([]ImageResult, error) {
	params := url.Values{}
	params.Set("engine", "google_images")
	params.Set("q", query)
	params.Set("hl", "en")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var result struct {
		ImagesResults []ImageResult `json:"images_results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode image results: %w", err)
	}

	images := result.ImagesResults
	if limit > 0 && len(images) > limit {
		images = images[:limit]
	}
	return images, nil
}

// get performs one SerpAPI call, retrying transient failures with
// exponential backoff. Retry-After from the upstream wins over the
// computed delay when present.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("serpapi: API key not configured")
	}

	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + "?" + params.Encode()

	var lastErr error
	delay := c.backoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, retryAfter, err := c.doOnce(ctx, endpoint)
		if err == nil {
			return body, nil
		}

		lastErr = err
		if !httpx.IsRetryableError(err) || attempt == maxAttempts {
			break
		}

		wait := delay
		if retryAfter > 0 {
			wait = retryAfter
		}
		c.log.Warnw("serpapi request failed, retrying",
			"attempt", attempt,
			"engine", params.Get("engine"),
			"error", err)
		httpx.JitterSleep(wait)
		delay *= 2

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, endpoint string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryAfter := httpx.RetryAfterDuration(resp, 30*time.Second)
		return nil, retryAfter, &APIError{Status: resp.StatusCode, Message: apiMessage(body)}
	}

	// The engine reports its own failures inside a 200 body.
	if msg := apiMessage(body); msg != "" {
		return nil, 0, &APIError{Status: resp.StatusCode, Message: msg}
	}

	return body, 0, nil
}

func apiMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
