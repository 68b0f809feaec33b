package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"drukhotel/gateway"
	"drukhotel/models"
	"drukhotel/services/session"
)

type fakeSessions struct {
	user *models.User
}

func (f *fakeSessions) GetCurrentSession() *models.Session {
	if f.user == nil {
		return nil
	}
	return &models.Session{AccessToken: "access-1", User: *f.user}
}

func (f *fakeSessions) CurrentUser(context.Context) (*models.User, error) {
	if f.user == nil {
		return nil, session.ErrNoSession
	}
	return f.user, nil
}

func (f *fakeSessions) OnSessionChange(func(*models.Session)) {}

func (f *fakeSessions) SignIn(context.Context, string, string) error { return nil }

func (f *fakeSessions) SignUp(context.Context, string, string) (session.SignUpResult, error) {
	return session.SignUpResult{}, nil
}

func (f *fakeSessions) SignOut(context.Context) {}
func (f *fakeSessions) StartAutoRefresh()       {}
func (f *fakeSessions) StopAutoRefresh()        {}
func (f *fakeSessions) AccessToken() string     { return "access-1" }

type fakeGW struct {
	mu        sync.Mutex
	inserts   int
	insertErr error
	entered   chan struct{}
	gate      chan struct{}
	lastRow   bookingInsert
}

func (g *fakeGW) List(ctx context.Context, collection string, filters map[string]string, order *gateway.Order, dest any) error {
	return nil
}

func (g *fakeGW) Insert(ctx context.Context, collection string, row, dest any) error {
	g.mu.Lock()
	g.inserts++
	g.lastRow = row.(bookingInsert)
	g.mu.Unlock()

	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.gate != nil {
		<-g.gate
	}
	if g.insertErr != nil {
		return &gateway.GatewayError{Collection: collection, Op: "insert", Err: g.insertErr}
	}

	g.mu.Lock()
	row2 := g.lastRow
	g.mu.Unlock()
	*dest.(*models.Booking) = models.Booking{
		ID:           "bk-1",
		UserID:       row2.UserID,
		HotelID:      row2.HotelID,
		RoomID:       row2.RoomID,
		CheckInDate:  row2.CheckInDate,
		CheckOutDate: row2.CheckOutDate,
		TotalAmount:  row2.TotalAmount,
		Status:       row2.Status,
	}
	return nil
}

func (g *fakeGW) insertCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inserts
}

var (
	testHotel = models.Hotel{ID: "h2", Name: "Ocean View Resort", PricePerNight: 199}
	testRoom  = models.Room{ID: "r1", HotelID: "h2", RoomType: "Standard Room", PricePerNight: 199, Available: true}
)

func newTestFlow(sessions session.Client, gw gateway.Gateway) *FlowController {
	f := NewFlowController(sessions, gw, 2)
	f.Logger = zap.NewNop()
	f.Clock = func() time.Time { return time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC) }
	return f
}

func TestSubmitUnauthenticatedFailsBeforeInsert(t *testing.T) {
	gw := &fakeGW{}
	f := newTestFlow(&fakeSessions{}, gw)

	err := f.Submit(context.Background(), testHotel, testRoom)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("Submit = %v, want ErrNotAuthenticated", err)
	}
	if f.State() != StateFailed {
		t.Fatalf("State = %q, want failed", f.State())
	}
	if gw.insertCount() != 0 {
		t.Fatalf("insert must not be attempted without a user, got %d calls", gw.insertCount())
	}
}

func TestSubmitSuccess(t *testing.T) {
	gw := &fakeGW{}
	f := newTestFlow(&fakeSessions{user: &models.User{ID: "user-1"}}, gw)

	if err := f.Submit(context.Background(), testHotel, testRoom); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if f.State() != StateSucceeded {
		t.Fatalf("State = %q, want succeeded", f.State())
	}

	result := f.Result()
	if result == nil || result.HotelName != "Ocean View Resort" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Booking.ID != "bk-1" {
		t.Fatalf("Booking.ID = %q, want server-assigned bk-1", result.Booking.ID)
	}

	row := gw.lastRow
	if row.TotalAmount != 398 {
		t.Fatalf("TotalAmount = %v, want 398", row.TotalAmount)
	}
	if row.Status != models.BookingConfirmed {
		t.Fatalf("Status = %q, want confirmed", row.Status)
	}
	if row.UserID != "user-1" {
		t.Fatalf("UserID = %q, want user-1", row.UserID)
	}
	if row.ClientReference == "" {
		t.Fatalf("expected a client reference on the inserted row")
	}

	checkIn, err := time.Parse(time.RFC3339, row.CheckInDate)
	if err != nil {
		t.Fatalf("parse check-in: %v", err)
	}
	checkOut, err := time.Parse(time.RFC3339, row.CheckOutDate)
	if err != nil {
		t.Fatalf("parse check-out: %v", err)
	}
	if got := checkOut.Sub(checkIn); got != 48*time.Hour {
		t.Fatalf("stay length = %v, want 48h", got)
	}
}

func TestDoubleSubmitYieldsOneInsert(t *testing.T) {
	gw := &fakeGW{entered: make(chan struct{}, 1), gate: make(chan struct{})}
	f := newTestFlow(&fakeSessions{user: &models.User{ID: "user-1"}}, gw)

	done := make(chan error, 1)
	go func() {
		done <- f.Submit(context.Background(), testHotel, testRoom)
	}()

	select {
	case <-gw.entered:
	case <-time.After(5 * time.Second):
		t.Fatalf("first submission never reached the gateway")
	}

	// Second pay action while the first is in flight.
	if err := f.Submit(context.Background(), testHotel, testRoom); !errors.Is(err, ErrSubmitInProgress) {
		t.Fatalf("second Submit = %v, want ErrSubmitInProgress", err)
	}

	close(gw.gate)
	if err := <-done; err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if gw.insertCount() != 1 {
		t.Fatalf("insert count = %d, want exactly 1", gw.insertCount())
	}
}

func TestInsertFailureNeverSucceeds(t *testing.T) {
	gw := &fakeGW{insertErr: errors.New("permission denied")}
	f := newTestFlow(&fakeSessions{user: &models.User{ID: "user-1"}}, gw)

	err := f.Submit(context.Background(), testHotel, testRoom)
	if err == nil {
		t.Fatalf("expected failed submission to surface its error")
	}
	var gerr *gateway.GatewayError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *GatewayError, got %T", err)
	}
	if f.State() != StateFailed {
		t.Fatalf("State = %q, want failed", f.State())
	}
	if f.Result() != nil {
		t.Fatalf("a failed submission must not produce a result")
	}

	// Retry from Failed is permitted and re-enters Submitting.
	gw.insertErr = nil
	if err := f.Submit(context.Background(), testHotel, testRoom); err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if f.State() != StateSucceeded {
		t.Fatalf("State after retry = %q, want succeeded", f.State())
	}
}

func TestResubmitAfterSuccessRejected(t *testing.T) {
	gw := &fakeGW{}
	f := newTestFlow(&fakeSessions{user: &models.User{ID: "user-1"}}, gw)

	if err := f.Submit(context.Background(), testHotel, testRoom); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := f.Submit(context.Background(), testHotel, testRoom); !errors.Is(err, ErrAlreadyBooked) {
		t.Fatalf("resubmit = %v, want ErrAlreadyBooked", err)
	}
	if gw.insertCount() != 1 {
		t.Fatalf("insert count = %d, want 1", gw.insertCount())
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	gw := &fakeGW{insertErr: errors.New("permission denied")}
	f := newTestFlow(&fakeSessions{user: &models.User{ID: "user-1"}}, gw)

	_ = f.Submit(context.Background(), testHotel, testRoom)
	if f.State() != StateFailed {
		t.Fatalf("State = %q, want failed", f.State())
	}
	f.Reset()
	if f.State() != StateIdle {
		t.Fatalf("State after Reset = %q, want idle", f.State())
	}
	if f.Err() != nil || f.Result() != nil {
		t.Fatalf("Reset must clear error and result")
	}
}
