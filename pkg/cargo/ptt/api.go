package ptt

import (
	"context"
)

// APIClient defines the interface for PTT Kargo API operations.
type APIClient interface {
	// CreateAcceptance registers a shipment via the kabulEkle2 SOAP operation.
	CreateAcceptance(ctx context.Context, req *AcceptanceRequest) (*AcceptanceResponse, error)

	// DeleteBarcode cancels a shipment via the barkodVeriSil SOAP operation.
	DeleteBarcode(ctx context.Context, barcode string) (*DeleteResponse, error)

	// QueryShipment fetches shipment state via the gonderiSorgu2 SOAP operation.
	QueryShipment(ctx context.Context, barcode string) (*QueryResponse, error)
}

// ============================================================================
// API Request/Response Types (match the PTT SOAP API structure)
// ============================================================================

// AcceptanceRequest represents a kabulEkle2 record. PTT wants the weight in
// grams and one client-side desi total, unlike the carriers that take
// per-item figures.
type AcceptanceRequest struct {
	Barcode      string // barkodNo, generated from the order reference
	ReceiverName string // aliciAdi
	Address      string // aliciAdresi
	City         string // aliciIl
	District     string // aliciIlce
	Phone        string // aliciTel
	WeightGrams  int    // agirlik
	Desi         float64
	PieceCount   int    // adet
	Description  string // aciklama
}

// AcceptanceResponse represents the kabulEkle2 result. HataKodu is a
// pointer because PTT signals success with a null error code as often as
// with an explicit zero.
type AcceptanceResponse struct {
	HataKodu *int
	Aciklama string
	Barcode  string
}

// DeleteResponse represents the barkodVeriSil result. Null or zero
// HataKodu both mean the barcode was deleted.
type DeleteResponse struct {
	HataKodu *int
	Aciklama string
}

// QueryResponse represents the gonderiSorgu2 result. Found is false when
// the barcode has no acceptance record yet.
type QueryResponse struct {
	Found  bool
	Record ShipmentRecord
}

// ShipmentRecord mirrors the gonderiSorgu2 row. TesAlan (TESALAN) carries
// the name of whoever signed for the parcel; its presence is the delivery
// signal.
type ShipmentRecord struct {
	Barcode      string
	StatusText   string // konum/durum description
	TesAlan      string // TESALAN, non-empty means delivered
	DeliveryDate string // tesTarihi
	Events       []ShipmentEvent
}

// ShipmentEvent is one movement row from the query result.
type ShipmentEvent struct {
	Date        string
	Description string
	Unit        string // the PTT branch handling the parcel
}

// APIError represents an error from the PTT API.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Description
}
