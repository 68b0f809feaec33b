// Package gateway exposes the remote collections (hotels, rooms, bookings) as
// generic list/insert operations. A failed call is always reported as a
// *GatewayError; the gateway never coerces an error into empty results, so
// "no rows" and "could not reach backend" stay distinguishable. Degrading a
// failed read into substitute data is the catalog service's job, not this one's.
package gateway

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"drukhotel/backend"
	"drukhotel/utils"
)

// Collection names known to the client.
const (
	CollectionHotels   = "hotels"
	CollectionRooms    = "rooms"
	CollectionBookings = "bookings"
)

// Order is an optional ordering for List.
type Order struct {
	Field      string
	Descending bool
}

// GatewayError wraps a failed collection operation with enough context to log
// and classify it.
type GatewayError struct {
	Collection string
	Op         string // "list" or "insert"
	Err        error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s on %q failed: %v", e.Op, e.Collection, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Gateway is the read/write surface over named remote collections.
type Gateway interface {
	// List fetches every row matching the conjunctive equality filters,
	// optionally ordered. Either the whole matching set lands in dest or an
	// error is returned; never a partial result.
	List(ctx context.Context, collection string, filters map[string]string, order *Order, dest any) error
	// Insert writes one row and decodes the server-assigned row into dest.
	// Inserts are never retried here; retry policy belongs to the caller.
	Insert(ctx context.Context, collection string, row, dest any) error
}

// RestGateway implements Gateway over the backend's row-store client.
type RestGateway struct {
	Rest   *backend.RestClient
	Logger *zap.Logger
}

// NewRestGateway returns a gateway backed by the hosted row store.
func NewRestGateway(rest *backend.RestClient) *RestGateway {
	return &RestGateway{Rest: rest, Logger: utils.GetLogger()}
}

func (g *RestGateway) List(ctx context.Context, collection string, filters map[string]string, order *Order, dest any) error {
	query := g.Rest.Select(collection)

	// Apply filters in a stable order so requests are reproducible in logs.
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		query = query.Eq(field, filters[field])
	}
	if order != nil {
		query = query.Order(order.Field, order.Descending)
	}

	if err := query.Into(ctx, dest); err != nil {
		gerr := &GatewayError{Collection: collection, Op: "list", Err: err}
		g.Logger.Warn("collection list failed",
			zap.String("collection", collection),
			zap.Error(err),
		)
		return gerr
	}
	return nil
}

func (g *RestGateway) Insert(ctx context.Context, collection string, row, dest any) error {
	if err := g.Rest.Insert(ctx, collection, row, dest); err != nil {
		gerr := &GatewayError{Collection: collection, Op: "insert", Err: err}
		g.Logger.Warn("collection insert failed",
			zap.String("collection", collection),
			zap.Error(err),
		)
		return gerr
	}
	return nil
}
