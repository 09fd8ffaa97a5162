// Package mock provides an in-memory carrier implementation for
// development and testing.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/farmaborsa/cargo/pkg/cargo"
)

// Client is a stateful in-memory carrier. Created shipments are held in
// a map so cancel and track behave like a real carrier: cancelling twice
// fails, tracking an undispatched reference reports preparing.
type Client struct {
	name string

	mu        sync.Mutex
	shipments map[string]*shipmentState
}

type shipmentState struct {
	trackingNumber string
	cancelled      bool
	createdAt      time.Time
}

// New creates a new mock carrier.
func New(name string) *Client {
	return &Client{
		name:      name,
		shipments: make(map[string]*shipmentState),
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return c.name
}

// Available always reports true; the mock needs no credentials.
func (c *Client) Available() bool {
	return true
}

// CreateShipment stores a shipment and hands out a tracking number.
// Re-creating an existing reference is a soft success, mirroring the
// duplicate handling of the real carriers.
func (c *Client) CreateShipment(ctx context.Context, req *cargo.ShipmentRequest) *cargo.ShipmentResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.shipments[req.ReferenceID]; ok {
		return cargo.ShipmentSuccess(existing.trackingNumber, "Shipment already exists").
			WithCode(cargo.CodeAccepted)
	}

	state := &shipmentState{
		trackingNumber: fmt.Sprintf("%s-%s", c.name, req.ReferenceID),
		createdAt:      time.Now(),
	}
	c.shipments[req.ReferenceID] = state

	return cargo.ShipmentSuccess(state.trackingNumber, "Shipment created").
		WithLabelURL(fmt.Sprintf("https://labels.%s.mock/%s.pdf", c.name, req.ReferenceID))
}

// CancelShipment cancels a stored shipment. Unknown or already
// cancelled references are unprocessable.
func (c *Client) CancelShipment(ctx context.Context, reference string) *cargo.ShipmentResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.shipments[reference]
	if !ok || state.cancelled {
		return cargo.ShipmentFailure(cargo.CodeUnprocessable, "Shipment not found or already cancelled")
	}

	state.cancelled = true
	return cargo.ShipmentSuccess(state.trackingNumber, "Shipment cancelled")
}

// TrackShipment reports stored shipment state.
func (c *Client) TrackShipment(ctx context.Context, reference string) *cargo.TrackingResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.shipments[reference]
	if !ok {
		return cargo.TrackingPending(reference)
	}

	status := cargo.StatusInTransit
	if state.cancelled {
		status = cargo.StatusReturned
	}

	ts := state.createdAt
	return &cargo.TrackingResult{
		Success:        true,
		Status:         status,
		CarrierStatus:  "MOCK",
		TrackingNumber: state.trackingNumber,
		TrackingURL:    fmt.Sprintf("https://track.%s.mock/%s", c.name, state.trackingNumber),
		Timestamp:      &ts,
	}
}

// GetLabel returns a hosted label for stored shipments.
func (c *Client) GetLabel(ctx context.Context, reference string) (*cargo.Label, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.shipments[reference]; !ok {
		return nil, nil
	}

	return &cargo.Label{
		Format: cargo.LabelPDF,
		URL:    fmt.Sprintf("https://labels.%s.mock/%s.pdf", c.name, reference),
	}, nil
}

var _ cargo.Provider = (*Client)(nil)
