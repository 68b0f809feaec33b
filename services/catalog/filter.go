package catalog

import (
	"strings"

	"drukhotel/models"
)

// FilterHotels returns the hotels whose name or location contains the query,
// case-insensitively. An empty query returns the input unchanged.
func FilterHotels(hotels []models.Hotel, query string) []models.Hotel {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return hotels
	}
	matched := make([]models.Hotel, 0, len(hotels))
	for _, hotel := range hotels {
		if strings.Contains(strings.ToLower(hotel.Name), query) ||
			strings.Contains(strings.ToLower(hotel.Location), query) {
			matched = append(matched, hotel)
		}
	}
	return matched
}
