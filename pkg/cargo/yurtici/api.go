package yurtici

import (
	"context"
)

// APIClient defines the interface for Yurtici Kargo API operations.
type APIClient interface {
	// CreateOrder registers a shipping order via the
	// createNgiShipmentWithAddress SOAP operation.
	CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error)

	// CancelOrder cancels a shipping order via the cancelNgiShipment SOAP
	// operation.
	CancelOrder(ctx context.Context, cargoKey string) (*OrderResponse, error)

	// QueryOrder fetches order state via the
	// listInvDocumentInterfaceByReference SOAP operation.
	QueryOrder(ctx context.Context, cargoKey string) (*QueryResponse, error)
}

// ============================================================================
// API Request/Response Types (match the Yurtici NGI SOAP API structure)
// ============================================================================

// OrderRequest represents a createNgiShipmentWithAddress order. Yurtici
// takes one kg/desi total per order, summed client-side.
type OrderRequest struct {
	CargoKey     string // the order reference, Yurtici's primary key for us
	InvoiceKey   string
	ReceiverName string
	Address      string
	City         string // cityName
	District     string // townName
	Phone        string
	Kg           float64
	Desi         float64
	Count        int
	Description  string
}

// OrderResponse is the shared create/cancel result shape. OutFlag is a
// string on the wire; "0" means success and anything else is a failure
// explained by OutResult.
type OrderResponse struct {
	OutFlag   string
	OutResult string
	JobID     string
}

// QueryResponse represents the listInvDocumentInterfaceByReference
// result. Found is false when Yurtici has no document row for the key,
// which is the normal state before physical acceptance.
type QueryResponse struct {
	Found  bool
	Record DocumentRecord
}

// DocumentRecord mirrors the invoice document row for a cargo key.
type DocumentRecord struct {
	CargoKey         string
	TrackingNumber   string // docId, printed on the waybill
	OperationCode    int
	OperationMessage string
	ReceiverName     string // who signed, set once delivered
	DeliveryDate     string
	Kg               float64
	Desi             float64
	Unit             string // the branch currently holding the parcel
}

// APIError represents an error from the Yurtici API.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Description
}
