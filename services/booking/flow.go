// Package booking drives the payment step's one write: require a signed-in
// user, derive the quote, insert the booking row, and report the outcome. A
// booking is a financial record, so a failed insert is surfaced to the user
// and never masked with substitute data the way catalog reads are.
package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"drukhotel/gateway"
	"drukhotel/models"
	"drukhotel/services/session"
	"drukhotel/utils"
)

// State is the flow controller's lifecycle position.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Result is what the payment screen shows on success.
type Result struct {
	HotelName string
	Booking   models.Booking
}

// bookingInsert is the row shape sent to the backend; the ID is assigned
// server-side.
type bookingInsert struct {
	UserID          string  `json:"user_id"`
	HotelID         string  `json:"hotel_id"`
	RoomID          string  `json:"room_id"`
	CheckInDate     string  `json:"check_in_date"`
	CheckOutDate    string  `json:"check_out_date"`
	TotalAmount     float64 `json:"total_amount"`
	Status          string  `json:"status"`
	ClientReference string  `json:"client_reference"`
}

// FlowController runs one booking submission at a time through
// Idle -> Submitting -> Succeeded | Failed. Retry from Failed re-enters
// Submitting; a Succeeded flow refuses resubmission until Reset.
type FlowController struct {
	Sessions session.Client
	GW       gateway.Gateway
	Nights   int
	Clock    func() time.Time
	Logger   *zap.Logger

	mu      sync.Mutex
	state   State
	lastErr error
	result  *Result
}

// NewFlowController builds a flow controller with the configured nominal stay
// length.
func NewFlowController(sessions session.Client, gw gateway.Gateway, nights int) *FlowController {
	return &FlowController{
		Sessions: sessions,
		GW:       gw,
		Nights:   nights,
		Clock:    time.Now,
		Logger:   utils.GetLogger(),
		state:    StateIdle,
	}
}

// State returns the current flow state.
func (f *FlowController) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the failure that moved the flow to Failed, if any.
func (f *FlowController) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Result returns the confirmation data after a successful submission.
func (f *FlowController) Result() *Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Submit runs the pay action for the selected hotel and room. Exactly one
// insert happens per successful submission; a duplicate pay action while one
// is in flight is rejected without touching the backend.
func (f *FlowController) Submit(ctx context.Context, hotel models.Hotel, room models.Room) error {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return ErrSubmitInProgress
	case StateSucceeded:
		f.mu.Unlock()
		return ErrAlreadyBooked
	}
	f.state = StateSubmitting
	f.lastErr = nil
	f.mu.Unlock()

	user, err := f.Sessions.CurrentUser(ctx)
	if err != nil {
		f.Logger.Warn("booking submitted without a session, aborting before insert")
		return f.fail(ErrNotAuthenticated)
	}

	quote, err := NewQuote(room.PricePerNight, f.Clock(), f.Nights)
	if err != nil {
		return f.fail(err)
	}

	row := bookingInsert{
		UserID:          user.ID,
		HotelID:         hotel.ID,
		RoomID:          room.ID,
		CheckInDate:     quote.CheckIn.Format(time.RFC3339),
		CheckOutDate:    quote.CheckOut.Format(time.RFC3339),
		TotalAmount:     quote.Total,
		Status:          models.BookingConfirmed,
		ClientReference: uuid.NewString(),
	}

	var inserted models.Booking
	if err := f.GW.Insert(ctx, gateway.CollectionBookings, row, &inserted); err != nil {
		f.Logger.Error("booking insert failed",
			zap.String("hotel_id", hotel.ID),
			zap.String("room_id", room.ID),
			zap.Error(err),
		)
		return f.fail(err)
	}

	f.mu.Lock()
	f.state = StateSucceeded
	f.result = &Result{HotelName: hotel.Name, Booking: inserted}
	f.mu.Unlock()

	f.Logger.Info("booking confirmed",
		zap.String("booking_id", inserted.ID),
		zap.String("hotel", hotel.Name),
		zap.Float64("total", quote.Total),
	)
	return nil
}

// Reset returns the flow to Idle, used when the hosting screen navigates
// away. A submission in flight keeps its state.
func (f *FlowController) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return
	}
	f.state = StateIdle
	f.lastErr = nil
	f.result = nil
}

func (f *FlowController) fail(err error) error {
	f.mu.Lock()
	f.state = StateFailed
	f.lastErr = err
	f.mu.Unlock()
	return err
}
