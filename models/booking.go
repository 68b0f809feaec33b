package models

// Booking status values as stored by the backend.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking represents a confirmed booking record. The ID is assigned by the
// backend on insert; the client never mutates or deletes a booking.
type Booking struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	HotelID         string  `json:"hotel_id"`
	RoomID          string  `json:"room_id"`
	CheckInDate     string  `json:"check_in_date"`  // RFC 3339
	CheckOutDate    string  `json:"check_out_date"` // RFC 3339, strictly after check-in
	TotalAmount     float64 `json:"total_amount"`   // price_per_night x nights
	Status          string  `json:"status"`
	ClientReference string  `json:"client_reference,omitempty"` // UUID minted client-side per submission
}
