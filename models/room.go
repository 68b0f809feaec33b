package models

// Room represents a bookable room belonging to a hotel. HotelID must reference
// an existing Hotel; the backend enforces that, not the client.
type Room struct {
	ID            string  `json:"id"`
	HotelID       string  `json:"hotel_id"`
	RoomType      string  `json:"room_type"`
	Description   string  `json:"description"`
	PricePerNight float64 `json:"price_per_night"`
	Available     bool    `json:"available"`
	ImageURL      string  `json:"image_url"`
}
