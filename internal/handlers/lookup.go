package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/givebridge/givebridge-backend/internal/lifecycle"
	"github.com/givebridge/givebridge-backend/internal/services"
)

// Place is one entry returned by the nearby-places lookup.
type Place struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Phone    string   `json:"phone"`
	Email    string   `json:"email"`
	Distance string   `json:"distance"`
	Services []string `json:"services"`
}

// Fixture dataset standing in for a real geocoding provider. The lookup
// contract is a pluggable external service; only the response shape
// matters here.
var nearbyPlaces = map[string][]Place{
	"ngo": {
		{Name: "Hope Foundation", Address: "Andheri West, Mumbai, Maharashtra", Phone: "+91 98765 43210", Email: "contact@hopefoundation.org", Distance: "2.3 km", Services: []string{"Education", "Food Distribution", "Healthcare"}},
		{Name: "Care India", Address: "Bandra East, Mumbai, Maharashtra", Phone: "+91 98765 43211", Email: "info@careindia.org", Distance: "3.5 km", Services: []string{"Child Welfare", "Women Empowerment", "Disaster Relief"}},
		{Name: "Smile Foundation", Address: "Vashi, Navi Mumbai, Maharashtra", Phone: "+91 98765 43212", Email: "contact@smilefoundation.org", Distance: "5.1 km", Services: []string{"Education", "Healthcare", "Livelihood"}},
		{Name: "Goonj", Address: "Thane, Maharashtra", Phone: "+91 98765 43214", Email: "contact@goonj.org", Distance: "6.2 km", Services: []string{"Clothing Distribution", "Disaster Relief", "Rural Development"}},
	},
	"hospital": {
		{Name: "Lilavati Hospital", Address: "Bandra West, Mumbai, Maharashtra", Phone: "+91 22 2640 5000", Email: "info@lilavatihospital.com", Distance: "1.8 km", Services: []string{"Emergency Care", "General Medicine", "Surgery"}},
		{Name: "Hinduja Hospital", Address: "Mahim, Mumbai, Maharashtra", Phone: "+91 22 6741 5555", Email: "info@hindujahospital.com", Distance: "4.2 km", Services: []string{"Cardiology", "Oncology", "Orthopedics"}},
		{Name: "KEM Hospital", Address: "Parel, Mumbai, Maharashtra", Phone: "+91 22 2410 7000", Email: "info@kem.edu", Distance: "5.8 km", Services: []string{"Emergency Care", "General Medicine", "Trauma Center"}},
	},
	"school": {
		{Name: "Municipal School - Dharavi", Address: "Dharavi, Mumbai, Maharashtra", Phone: "+91 22 2402 3456", Email: "dharavi.school@bmc.gov.in", Distance: "3.1 km", Services: []string{"Primary Education", "Mid-day Meals", "Free Education"}},
		{Name: "Government High School", Address: "Kurla East, Mumbai, Maharashtra", Phone: "+91 22 2508 7654", Email: "kurla.school@gov.in", Distance: "4.5 km", Services: []string{"Secondary Education", "Sports Facilities", "Computer Lab"}},
		{Name: "Zilla Parishad School", Address: "Thane, Maharashtra", Phone: "+91 22 2534 8765", Email: "thane.zp@education.gov.in", Distance: "7.8 km", Services: []string{"Primary & Secondary Education", "Library", "Scholarships"}},
	},
}

// GetNearbyPlaces returns receiving places near the user for a category.
func GetNearbyPlaces() gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.DefaultQuery("category", "ngo")

		places, ok := nearbyPlaces[category]
		if !ok {
			respondError(c, lifecycle.Validation("Unknown category, expected ngo, hospital or school"))
			return
		}

		ctx := context.Background()
		if cached, err := services.GetCachedPlaces(ctx, category); err == nil {
			c.Data(200, "application/json", cached)
			return
		}

		body := gin.H{
			"success": true,
			"count":   len(places),
			"places":  places,
		}

		if payload, err := json.Marshal(body); err == nil {
			if err := services.CachePlaces(ctx, category, payload); err != nil {
				log.Printf("Failed to cache places for %s: %v", category, err)
			}
		}

		c.JSON(200, body)
	}
}
