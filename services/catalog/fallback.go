package catalog

import "drukhotel/models"

// Fixed substitute catalog served when a remote read fails, so the UI always
// has something to render during a backend outage. Reads degrade to this data;
// writes are never substituted (see services/booking).

// FallbackHotels returns the deterministic substitute hotel list.
func FallbackHotels() []models.Hotel {
	return []models.Hotel{
		{
			ID:            "1",
			Name:          "Grand Plaza Hotel",
			Description:   "Luxury hotel in the heart of the city",
			ImageURL:      "/placeholder.svg?height=200&width=300",
			Location:      "Bhutan, Thimphu",
			Rating:        4.8,
			PricePerNight: 299,
		},
		{
			ID:            "2",
			Name:          "Ocean View Resort",
			Description:   "Beautiful beachfront resort with stunning views",
			ImageURL:      "/placeholder.svg?height=200&width=300",
			Location:      "Bhutan, Paro",
			Rating:        4.6,
			PricePerNight: 199,
		},
		{
			ID:            "3",
			Name:          "Mountain Lodge",
			Description:   "Cozy lodge surrounded by nature",
			ImageURL:      "/placeholder.svg?height=200&width=300",
			Location:      "Bhutan, Bumthang",
			Rating:        4.7,
			PricePerNight: 249,
		},
	}
}

// FallbackRooms derives the substitute room list for a hotel from its known
// base price: base, base+100 and base+300, all available.
func FallbackRooms(hotel models.Hotel) []models.Room {
	return []models.Room{
		{
			ID:            "1",
			HotelID:       hotel.ID,
			RoomType:      "Standard Room",
			Description:   "Comfortable room with city view",
			PricePerNight: hotel.PricePerNight,
			Available:     true,
			ImageURL:      "/placeholder.svg?height=200&width=300",
		},
		{
			ID:            "2",
			HotelID:       hotel.ID,
			RoomType:      "Deluxe Suite",
			Description:   "Spacious suite with premium amenities",
			PricePerNight: hotel.PricePerNight + 100,
			Available:     true,
			ImageURL:      "/placeholder.svg?height=200&width=300",
		},
		{
			ID:            "3",
			HotelID:       hotel.ID,
			RoomType:      "Presidential Suite",
			Description:   "Luxury suite with panoramic views",
			PricePerNight: hotel.PricePerNight + 300,
			Available:     true,
			ImageURL:      "/placeholder.svg?height=200&width=300",
		},
	}
}
