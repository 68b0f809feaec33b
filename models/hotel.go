package models

// Hotel represents a bookable property in the catalog. Hotels are read-only
// from the client's perspective; the backend owns the rows.
type Hotel struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"image_url"`
	Location      string  `json:"location"`
	Rating        float64 `json:"rating"`          // 0..5
	PricePerNight float64 `json:"price_per_night"` // >= 0
}
