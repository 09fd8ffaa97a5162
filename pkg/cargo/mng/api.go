package mng

import (
	"context"
)

// APIClient defines the interface for MNG Kargo API operations.
type APIClient interface {
	// CreateOrder registers an order via the SiparisKayit_C2C SOAP operation.
	CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error)

	// CancelOrder cancels an order via the SiparisIptali_C2C SOAP operation.
	CancelOrder(ctx context.Context, orderNo string) (*CancelResponse, error)

	// QueryOrder fetches order state via the GelecekIadeSiparisKontrol
	// SOAP operation. The payload is a dataset embedded in the SOAP any
	// field at NewDataSet.Table1.
	QueryOrder(ctx context.Context, orderNo string) (*QueryResponse, error)
}

// ============================================================================
// API Request/Response Types (match the MNG SOAP API structure)
// ============================================================================

// pOdemeSekli values. MNG types the payment flag as a string on the wire.
const (
	OdemeSekliGonderici = "1" // sender's contract pays
	OdemeSekliKurumsal  = "2" // platform's corporate contract pays
)

// Piece is one Kg/Desi/Adet triplet. MNG takes the raw per-item figures
// and aggregates server-side, unlike the carriers that want a client-side
// total.
type Piece struct {
	Kg   float64
	Desi float64
	Adet int
}

// OrderRequest represents a SiparisKayit_C2C order record.
type OrderRequest struct {
	SiparisNo     string // order reference
	AliciAdi      string
	AliciAdresi   string
	AliciIl       string
	AliciIlce     string
	AliciTel      string
	OdemeSekli    string // pOdemeSekli
	Icerik        string
	Pieces        []Piece
	FaturaSeriNo  string
}

// OrderResponse represents the SiparisKayit_C2C result. The carrier returns
// a bare string: "1" for success, an error sentence otherwise. A duplicate
// order comes back as a sentence containing "ZATEN VAR".
type OrderResponse struct {
	Result string
}

// CancelResponse represents the SiparisIptali_C2C result: "1" for success,
// an error sentence otherwise.
type CancelResponse struct {
	Result string
}

// QueryResponse represents the parsed GelecekIadeSiparisKontrol dataset.
// Found is false when Table1 is absent, i.e. no record yet.
type QueryResponse struct {
	Found  bool
	Record QueryRecord
}

// QueryRecord mirrors NewDataSet.Table1.
type QueryRecord struct {
	SiparisNo     string
	KargoNo       string
	Durum         int // carrier status enum, see NormalizeStatus
	DurumAciklama string
	TeslimAlan    string
	TeslimTarihi  string
	Kg            float64
	Desi          float64
	Sehir         string
}

// APIError represents an error from the MNG API.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Description
}
