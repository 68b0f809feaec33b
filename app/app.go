// Package app holds the screen state for the storefront: which screen is
// active, which hotel and room are selected, and the transient UI state of the
// home screen (search query, profile menu). It is thin orchestration over the
// session, catalog and booking services; async fetch results are applied only
// while the screen generation that issued them is still live, so late arrivals
// after navigation are dropped silently.
package app

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"drukhotel/models"
	"drukhotel/services/booking"
	"drukhotel/services/catalog"
	"drukhotel/services/session"
	"drukhotel/utils"
)

// Screen identifies the active screen.
type Screen string

const (
	ScreenHome    Screen = "home"
	ScreenRooms   Screen = "rooms"
	ScreenPayment Screen = "payment"
)

// currencyLabel prefixes every displayed price. Stays are priced in ngultrum.
const currencyLabel = "Nu."

// App is the top-level controller. It exclusively owns the selection state;
// sign-out, completing a booking and navigating back all clear it here.
type App struct {
	Sessions session.Client
	Catalog  catalog.Service
	Flow     *booking.FlowController
	Logger   *zap.Logger

	mu            sync.Mutex
	screen        Screen
	selectedHotel *models.Hotel
	selectedRoom  *models.Room

	hotels         []models.Hotel
	hotelsDegraded bool
	rooms          []models.Room
	roomsDegraded  bool

	// Screen generations; a fetch result is dropped when its generation is
	// no longer current.
	homeGen  uint64
	roomsGen uint64

	searchQuery     string
	profileMenuOpen bool
}

// New wires the controller and subscribes it to the session feed: losing the
// session resets navigation and clears every selection.
func New(sessions session.Client, cat catalog.Service, flow *booking.FlowController) *App {
	a := &App{
		Sessions: sessions,
		Catalog:  cat,
		Flow:     flow,
		Logger:   utils.GetLogger(),
		screen:   ScreenHome,
	}
	sessions.OnSessionChange(func(sess *models.Session) {
		if sess == nil {
			a.mu.Lock()
			a.resetLocked()
			a.mu.Unlock()
		}
	})
	return a
}

// Authenticated reports whether a session is present; the UI has exactly two
// authentication states.
func (a *App) Authenticated() bool {
	return a.Sessions.GetCurrentSession() != nil
}

// Screen returns the active screen.
func (a *App) Screen() Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

// SelectedHotel returns the current hotel selection, or nil.
func (a *App) SelectedHotel() *models.Hotel {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectedHotel
}

// SelectedRoom returns the current room selection, or nil.
func (a *App) SelectedRoom() *models.Room {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectedRoom
}

// LoadHotels fetches the hotel catalog for the home screen. A result arriving
// after the home screen was left is discarded.
func (a *App) LoadHotels(ctx context.Context) {
	a.mu.Lock()
	gen := a.homeGen
	a.mu.Unlock()

	list := a.Catalog.FetchHotels(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.homeGen {
		a.Logger.Debug("dropping stale hotel list")
		return
	}
	a.hotels = list.Hotels
	a.hotelsDegraded = list.Degraded
}

// LoadRooms fetches the rooms of the selected hotel. A result arriving after
// navigating away from the rooms screen is discarded.
func (a *App) LoadRooms(ctx context.Context) error {
	a.mu.Lock()
	if a.selectedHotel == nil {
		a.mu.Unlock()
		return fmt.Errorf("no hotel selected")
	}
	hotel := *a.selectedHotel
	gen := a.roomsGen
	a.mu.Unlock()

	list := a.Catalog.FetchRooms(ctx, hotel)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.roomsGen {
		a.Logger.Debug("dropping stale room list", zap.String("hotel_id", hotel.ID))
		return nil
	}
	a.rooms = list.Rooms
	a.roomsDegraded = list.Degraded
	return nil
}

// SelectHotel moves Home -> Rooms.
func (a *App) SelectHotel(hotel models.Hotel) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen != ScreenHome {
		return fmt.Errorf("hotel selection only allowed on the home screen")
	}
	a.selectedHotel = &hotel
	a.screen = ScreenRooms
	a.homeGen++
	return nil
}

// SelectRoom moves Rooms -> Payment; both selections are then set.
func (a *App) SelectRoom(room models.Room) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen != ScreenRooms || a.selectedHotel == nil {
		return fmt.Errorf("room selection requires a selected hotel on the rooms screen")
	}
	a.selectedRoom = &room
	a.screen = ScreenPayment
	a.roomsGen++
	return nil
}

// Pay submits the booking for the current selection.
func (a *App) Pay(ctx context.Context) error {
	a.mu.Lock()
	if a.screen != ScreenPayment || a.selectedHotel == nil || a.selectedRoom == nil {
		a.mu.Unlock()
		return fmt.Errorf("payment requires a selected hotel and room")
	}
	hotel := *a.selectedHotel
	room := *a.selectedRoom
	a.mu.Unlock()

	return a.Flow.Submit(ctx, hotel, room)
}

// BackToHome moves Rooms -> Home, clearing the selection.
func (a *App) BackToHome() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen != ScreenRooms {
		return
	}
	a.selectedHotel = nil
	a.selectedRoom = nil
	a.rooms = nil
	a.roomsGen++
	a.screen = ScreenHome
}

// BackToRooms moves Payment -> Rooms, keeping the hotel, dropping the room,
// and resetting the booking flow for the next attempt.
func (a *App) BackToRooms() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen != ScreenPayment {
		return
	}
	a.selectedRoom = nil
	a.screen = ScreenRooms
	a.Flow.Reset()
}

// CompleteBooking moves Payment -> Home after a confirmed booking, clearing
// all selection state.
func (a *App) CompleteBooking() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen != ScreenPayment {
		return
	}
	a.selectedHotel = nil
	a.selectedRoom = nil
	a.rooms = nil
	a.roomsGen++
	a.screen = ScreenHome
	a.Flow.Reset()
}

// SignOut clears the session; the session feed resets navigation and
// selection state.
func (a *App) SignOut(ctx context.Context) {
	a.Sessions.SignOut(ctx)
}

// SetSearchQuery updates the home screen's search box.
func (a *App) SetSearchQuery(query string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.searchQuery = query
}

// VisibleHotels returns the loaded hotels narrowed by the search query.
func (a *App) VisibleHotels() []models.Hotel {
	a.mu.Lock()
	defer a.mu.Unlock()
	return catalog.FilterHotels(a.hotels, a.searchQuery)
}

// Rooms returns the loaded rooms for the selected hotel.
func (a *App) Rooms() []models.Room {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rooms
}

// CatalogDegraded reports whether the currently shown data came from the
// fallback catalog; advisory only.
func (a *App) CatalogDegraded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hotelsDegraded || a.roomsDegraded
}

// ToggleProfileMenu flips the profile menu and returns its new state.
func (a *App) ToggleProfileMenu() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profileMenuOpen = !a.profileMenuOpen
	return a.profileMenuOpen
}

// ProfileMenuOpen reports whether the profile menu is showing.
func (a *App) ProfileMenuOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profileMenuOpen
}

// PriceLabel renders a nightly price the way the screens display it.
func PriceLabel(pricePerNight float64) string {
	return fmt.Sprintf("%s %.0f/night", currencyLabel, pricePerNight)
}

// resetLocked returns navigation to the unauthenticated home view. Caller
// holds a.mu.
func (a *App) resetLocked() {
	a.screen = ScreenHome
	a.selectedHotel = nil
	a.selectedRoom = nil
	a.hotels = nil
	a.rooms = nil
	a.homeGen++
	a.roomsGen++
	a.searchQuery = ""
	a.profileMenuOpen = false
	a.Flow.Reset()
}
