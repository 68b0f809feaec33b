package booking

import (
	"fmt"
	"time"
)

// Quote is the derived pricing for a stay. It is the single place enforcing
// total = price_per_night x nights and check-out strictly after check-in.
type Quote struct {
	Nights        int
	PricePerNight float64
	Total         float64
	CheckIn       time.Time
	CheckOut      time.Time
}

// NewQuote prices a stay of the given number of whole nights starting at
// checkIn.
func NewQuote(pricePerNight float64, checkIn time.Time, nights int) (Quote, error) {
	if nights < 1 {
		return Quote{}, fmt.Errorf("stay must be at least one night, got %d", nights)
	}
	if pricePerNight < 0 {
		return Quote{}, fmt.Errorf("price per night must not be negative, got %v", pricePerNight)
	}
	return Quote{
		Nights:        nights,
		PricePerNight: pricePerNight,
		Total:         pricePerNight * float64(nights),
		CheckIn:       checkIn,
		CheckOut:      checkIn.Add(time.Duration(nights) * 24 * time.Hour),
	}, nil
}
