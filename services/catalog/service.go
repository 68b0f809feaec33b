// Package catalog reads the hotel and room collections and applies the read
// degrade policy in one place: a failed catalog read is logged and answered
// with the fixed substitute data, never surfaced to the screen. The policy
// wraps List only; booking inserts go through services/booking and fail
// loudly. Keeping the two paths in separate packages enforces that asymmetry
// structurally.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"drukhotel/gateway"
	"drukhotel/models"
	"drukhotel/utils"
)

// HotelList is the result of a hotel read. Degraded marks substitute data so
// a frontend may show an offline hint; nothing in the flow branches on it.
type HotelList struct {
	Hotels   []models.Hotel
	Degraded bool
}

// RoomList is the result of a room read for one hotel.
type RoomList struct {
	Rooms    []models.Room
	Degraded bool
}

// Service reads the catalog collections. Neither method returns an error: a
// failed read degrades to fallback data by contract.
type Service interface {
	FetchHotels(ctx context.Context) HotelList
	FetchRooms(ctx context.Context, hotel models.Hotel) RoomList
}

// DefaultService implements Service over the collection gateway.
type DefaultService struct {
	GW     gateway.Gateway
	Logger *zap.Logger
}

// NewDefaultService returns a catalog service backed by the gateway.
func NewDefaultService(gw gateway.Gateway) *DefaultService {
	return &DefaultService{GW: gw, Logger: utils.GetLogger()}
}

// FetchHotels lists every hotel, best-rated first. On a gateway failure the
// fixed substitute catalog is returned instead; the caller never sees the
// error and never sees an empty page because of an outage.
func (s *DefaultService) FetchHotels(ctx context.Context) HotelList {
	var hotels []models.Hotel
	order := &gateway.Order{Field: "rating", Descending: true}
	if err := s.GW.List(ctx, gateway.CollectionHotels, nil, order, &hotels); err != nil {
		s.Logger.Warn("hotel list degraded to fallback catalog", zap.Error(err))
		return HotelList{Hotels: FallbackHotels(), Degraded: true}
	}
	return HotelList{Hotels: hotels}
}

// FetchRooms lists the available rooms of one hotel. On failure it degrades
// to three substitute rooms derived from the hotel's base price.
func (s *DefaultService) FetchRooms(ctx context.Context, hotel models.Hotel) RoomList {
	var rooms []models.Room
	filters := map[string]string{
		"hotel_id":  hotel.ID,
		"available": "true",
	}
	if err := s.GW.List(ctx, gateway.CollectionRooms, filters, nil, &rooms); err != nil {
		s.Logger.Warn("room list degraded to fallback catalog",
			zap.String("hotel_id", hotel.ID),
			zap.Error(err),
		)
		return RoomList{Rooms: FallbackRooms(hotel), Degraded: true}
	}
	return RoomList{Rooms: rooms}
}
