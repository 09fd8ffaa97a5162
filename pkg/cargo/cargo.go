// Package cargo provides an abstraction layer over shipping carriers.
package cargo

import (
	"context"
)

// Provider defines the interface that all carrier drivers must implement.
//
// CreateShipment, CancelShipment and TrackShipment never return a Go error:
// every failure mode, including transport faults, SOAP faults and missing
// configuration, is absorbed inside the driver and surfaced as a typed
// result. Callers branch on the result fields only and never see
// carrier-specific error types.
type Provider interface {
	// Name returns the carrier identifier (e.g. "aras", "mng", "ptt",
	// "yurtici", "navlungo").
	Name() string

	// Available reports whether the driver has enough configuration to
	// attempt a network call. It performs no I/O.
	Available() bool

	// CreateShipment registers a new shipment with the carrier.
	CreateShipment(ctx context.Context, req *ShipmentRequest) *ShipmentResult

	// CancelShipment cancels a shipment by its order reference. Cancelling
	// an already-cancelled or unknown shipment yields a business failure
	// (code 422), never a transport failure.
	CancelShipment(ctx context.Context, reference string) *ShipmentResult

	// TrackShipment returns the current tracking state. A shipment the
	// carrier has no record of yet is a successful result with
	// StatusPending, not a failure.
	TrackShipment(ctx context.Context, reference string) *TrackingResult

	// GetLabel fetches the shipping label. It returns (nil, nil) when the
	// carrier has not produced a label yet.
	GetLabel(ctx context.Context, reference string) (*Label, error)
}
