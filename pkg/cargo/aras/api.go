package aras

import (
	"context"
)

// APIClient defines the interface for Aras Kargo API operations.
// This abstraction allows for mock implementations during testing
// and the real SOAP implementation in production.
type APIClient interface {
	// SaveOrder registers a shipment order via the SaveOrder SOAP operation.
	SaveOrder(ctx context.Context, req *SaveOrderRequest) (*SaveOrderResponse, error)

	// DeleteOrder cancels a shipment order via the DeleteOrder SOAP operation.
	DeleteOrder(ctx context.Context, integrationCode string) (*DeleteOrderResponse, error)

	// QueryShipment fetches shipment movement via the GetQueryXML SOAP operation.
	QueryShipment(ctx context.Context, integrationCode string) (*QueryResponse, error)
}

// ============================================================================
// API Request/Response Types (match the Aras SOAP API structure)
// ============================================================================

// Payor values for the Aras LovPayOrType enum.
const (
	PayOrTypeSender   = 1
	PayOrTypePlatform = 2
)

// SaveOrderRequest represents an Aras SaveOrder order record.
// Aras carries no per-order weight or desi: billing figures are measured
// at the branch, so only the piece count travels with the order.
type SaveOrderRequest struct {
	IntegrationCode  string // order reference, echoed back on queries
	InvoiceNumber    string
	ReceiverName     string
	ReceiverAddress  string
	ReceiverCity     string
	ReceiverDistrict string
	ReceiverPhone    string
	PieceCount       int
	PayOrType        int // LovPayOrType: 1 sender pays, 2 platform pays
	Description      string
}

// SaveOrderResponse represents the SaveOrderResult element.
// Result == 1 signals success; anything else is a business rejection with
// the carrier's own message.
type SaveOrderResponse struct {
	Result         int
	Message        string
	TrackingNumber string
}

// DeleteOrderResponse represents the DeleteOrderResult element.
// Result == 1 signals success.
type DeleteOrderResponse struct {
	Result  int
	Message string
}

// QueryResponse represents the parsed GetQueryXML payload.
// An empty record list means the branch has not scanned the parcel yet.
type QueryResponse struct {
	Records []QueryRecord
}

// QueryRecord is one row of the Aras tracking XML. Field names mirror the
// carrier's uppercase Turkish vocabulary.
type QueryRecord struct {
	StatusCode     int     // DURUM_KODU
	TypeCode       int     // TIP_KODU: 1/2 forward movement, 3 return
	TrackingNumber string  // KARGO_TAKIP_NO
	StatusText     string  // DURUMU
	WeightDesi     float64 // KG_DESI
	Amount         float64 // TUTAR
	EventDate      string  // ISLEM_TARIHI
	Unit           string  // BIRIM, the branch handling the parcel
}

// APIError represents an error from the Aras API.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Description
}
