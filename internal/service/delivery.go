package service

import (
	"fmt"
	"net/url"

	"github.com/swipebite/backend/internal/models"
)

// Link payload app identifiers. Profiles store the compact spelling
// ("ubereats"), link payloads the canonical one ("uber_eats").
const (
	appUberEats  = "uber_eats"
	appDoorDash  = "doordash"
	appGrubhub   = "grubhub"
	appPostmates = "postmates"
)

// DeliveryLink is one way to order a dish through a third-party app.
type DeliveryLink struct {
	App   string `json:"app"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

var deliveryAppOrder = []string{appUberEats, appDoorDash, appGrubhub, appPostmates}

var deliveryLabels = map[string]string{
	appUberEats:  "Uber Eats",
	appDoorDash:  "DoorDash",
	appGrubhub:   "Grubhub",
	appPostmates: "Postmates",
}

// DeliveryLinks builds search deep links for every supported delivery app,
// with the user's preferred app first. The query is typically a restaurant
// name, falling back to the dish name when no restaurant serves it yet.
func DeliveryLinks(query, preferredApp string) []DeliveryLink {
	order := make([]string, 0, len(deliveryAppOrder))
	if preferred := canonicalDeliveryApp(preferredApp); preferred != "" {
		order = append(order, preferred)
	}
	for _, app := range deliveryAppOrder {
		if len(order) > 0 && app == order[0] {
			continue
		}
		order = append(order, app)
	}

	links := make([]DeliveryLink, 0, len(order))
	for _, app := range order {
		links = append(links, DeliveryLink{
			App:   app,
			Label: deliveryLabels[app],
			URL:   deliverySearchURL(app, query),
		})
	}
	return links
}

// RestaurantDeliveryLinks builds delivery links for a restaurant, preferring
// its stored storefront URLs over generated search links.
func RestaurantDeliveryLinks(restaurant *models.Restaurant, preferredApp string) []DeliveryLink {
	links := DeliveryLinks(restaurant.Name, preferredApp)
	for i := range links {
		switch links[i].App {
		case appUberEats:
			if restaurant.UberEatsURL != "" {
				links[i].URL = restaurant.UberEatsURL
			}
		case appDoorDash:
			if restaurant.DoorDashURL != "" {
				links[i].URL = restaurant.DoorDashURL
			}
		case appGrubhub:
			if restaurant.GrubhubURL != "" {
				links[i].URL = restaurant.GrubhubURL
			}
		}
	}
	return links
}

func deliverySearchURL(app, query string) string {
	switch app {
	case appUberEats:
		return fmt.Sprintf("https://www.ubereats.com/search?q=%s", url.QueryEscape(query))
	case appDoorDash:
		return fmt.Sprintf("https://www.doordash.com/search/store/%s", url.PathEscape(query))
	case appGrubhub:
		return fmt.Sprintf("https://www.grubhub.com/search?searchTerm=%s", url.QueryEscape(query))
	case appPostmates:
		return fmt.Sprintf("https://postmates.com/search/%s", url.PathEscape(query))
	}
	return ""
}

// canonicalDeliveryApp maps a profile preference to the link identifier.
func canonicalDeliveryApp(preference string) string {
	switch preference {
	case models.DeliveryUberEats, appUberEats:
		return appUberEats
	case models.DeliveryDoorDash:
		return appDoorDash
	case models.DeliveryGrubhub:
		return appGrubhub
	case models.DeliveryPostmates:
		return appPostmates
	}
	return ""
}
