package cargo

import (
	"time"
)

// TrackingStatus represents the normalized status of a shipment.
type TrackingStatus string

const (
	StatusPending        TrackingStatus = "pending"
	StatusShipped        TrackingStatus = "shipped"
	StatusInTransit      TrackingStatus = "in_transit"
	StatusOutForDelivery TrackingStatus = "out_for_delivery"
	StatusDelivered      TrackingStatus = "delivered"
	StatusReturned       TrackingStatus = "returned"
	StatusFailed         TrackingStatus = "failed"
	StatusUnknown        TrackingStatus = "unknown"
)

// Numeric status codes shared with the order domain. The gaps are
// deliberate: they mirror the carrier-facing numbering the platform has
// always exposed, so in_transit stays 4 and out_for_delivery stays 5.
const (
	StatusCodeUnknown        = 0
	StatusCodePending        = 1
	StatusCodeShipped        = 2
	StatusCodeInTransit      = 4
	StatusCodeOutForDelivery = 5
	StatusCodeDelivered      = 6
	StatusCodeReturned       = 7
	StatusCodeFailed         = 8
)

// StatusFromCode maps a numeric status code to its canonical status.
// Unassigned codes map to StatusUnknown.
func StatusFromCode(code int) TrackingStatus {
	switch code {
	case StatusCodePending:
		return StatusPending
	case StatusCodeShipped:
		return StatusShipped
	case StatusCodeInTransit:
		return StatusInTransit
	case StatusCodeOutForDelivery:
		return StatusOutForDelivery
	case StatusCodeDelivered:
		return StatusDelivered
	case StatusCodeReturned:
		return StatusReturned
	case StatusCodeFailed:
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// Code returns the numeric code for a canonical status.
func (s TrackingStatus) Code() int {
	switch s {
	case StatusPending:
		return StatusCodePending
	case StatusShipped:
		return StatusCodeShipped
	case StatusInTransit:
		return StatusCodeInTransit
	case StatusOutForDelivery:
		return StatusCodeOutForDelivery
	case StatusDelivered:
		return StatusCodeDelivered
	case StatusReturned:
		return StatusCodeReturned
	case StatusFailed:
		return StatusCodeFailed
	default:
		return StatusCodeUnknown
	}
}

// Terminal reports whether no further carrier movement is expected.
func (s TrackingStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusReturned || s == StatusFailed
}

// PayerType encodes who pays the carrier for a shipment.
type PayerType string

const (
	// PayerSender bills the shipping pharmacy's own carrier contract.
	PayerSender PayerType = "sender"
	// PayerPlatform bills the marketplace's carrier contract.
	PayerPlatform PayerType = "platform"
)

// Result codes follow an HTTP-like taxonomy shared by every carrier driver.
const (
	CodeOK            = 200 // carrier accepted the operation
	CodeAccepted      = 201 // soft success, e.g. duplicate create treated as existing
	CodeBadRequest    = 400 // carrier or client-side validation rejected the data
	CodeNotFound      = 404 // missing field or unknown shipment/carrier
	CodeUnprocessable = 422 // business rejection, e.g. double cancel
	CodeUnavailable   = 503 // transport failure, missing config, carrier down
)

// Party is one side of a shipment: the shipping pharmacy or the buyer.
type Party struct {
	Name      string `json:"name" validate:"required"`
	Address   string `json:"address"`
	City      string `json:"city"`
	District  string `json:"district"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	TaxOffice string `json:"taxOffice"`
	TaxNumber string `json:"taxNumber"`
}

// Item is one order line with the shipping figures carried by the product
// catalog. Desi is the Turkish volumetric weight unit ((W*H*L)/3000 in cm).
type Item struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity" validate:"min=1"`
	WeightKg    float64 `json:"weightKg"`
	Desi        float64 `json:"desi"`
}

// Parcel is the aggregate the carriers bill on.
type Parcel struct {
	WeightKg float64 `json:"weightKg"`
	Desi     float64 `json:"desi"`
	Pieces   int     `json:"pieces"`
}

// ShipmentRequest is the canonical shipment request built from an order and
// the seller's sender profile. Drivers translate it into their carrier's
// native schema.
type ShipmentRequest struct {
	// ReferenceID is the invoice/order number. It is the join key between
	// the order aggregate and the carrier shipment.
	ReferenceID string `json:"referenceId" validate:"required"`

	Sender   Party `json:"sender" validate:"required"`
	Receiver Party `json:"receiver" validate:"required"`

	Items []Item `json:"items" validate:"min=1,dive"`

	Payer              PayerType `json:"payer"`
	ContentDescription string    `json:"contentDescription"`
}

// Parcel sums the order items into the billable aggregate. Weight, desi and
// piece count are clamped to at least 1: carriers reject zero-rated parcels.
func (r *ShipmentRequest) Parcel() Parcel {
	var p Parcel
	for _, item := range r.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		p.WeightKg += item.WeightKg * float64(qty)
		p.Desi += item.Desi * float64(qty)
		p.Pieces += qty
	}
	if p.WeightKg < 1 {
		p.WeightKg = 1
	}
	if p.Desi < 1 {
		p.Desi = 1
	}
	if p.Pieces < 1 {
		p.Pieces = 1
	}
	return p
}

// ShipmentResult is the canonical outcome of a create or cancel call.
// Exactly one of the success and failure shapes holds: Success implies a
// tracking number and an empty Error, failure implies a non-empty Error.
type ShipmentResult struct {
	Success        bool   `json:"success"`
	Code           int    `json:"code"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	LabelURL       string `json:"labelUrl,omitempty"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ShipmentSuccess builds a successful result with code 200.
func ShipmentSuccess(trackingNumber, message string) *ShipmentResult {
	return &ShipmentResult{
		Success:        true,
		Code:           CodeOK,
		TrackingNumber: trackingNumber,
		Message:        message,
	}
}

// ShipmentFailure builds a failed result. An empty error message is
// replaced so the failure shape always carries one.
func ShipmentFailure(code int, errMsg string) *ShipmentResult {
	if errMsg == "" {
		errMsg = "carrier operation failed"
	}
	return &ShipmentResult{
		Success: false,
		Code:    code,
		Error:   errMsg,
	}
}

// WithCode overrides the result code, e.g. 201 for a soft-duplicate create.
func (r *ShipmentResult) WithCode(code int) *ShipmentResult {
	r.Code = code
	return r
}

// WithLabelURL attaches a label URL to a successful result.
func (r *ShipmentResult) WithLabelURL(url string) *ShipmentResult {
	r.LabelURL = url
	return r
}

// TrackingEvent is one scan in a shipment's movement history.
type TrackingEvent struct {
	Timestamp   time.Time      `json:"timestamp"`
	Description string         `json:"description"`
	Location    string         `json:"location,omitempty"`
	Status      TrackingStatus `json:"status,omitempty"`
}

// TrackingResult is the canonical outcome of a track call. It is built
// fresh on every call and never persisted in this layer.
type TrackingResult struct {
	Success        bool            `json:"success"`
	Status         TrackingStatus  `json:"status"`
	CarrierStatus  string          `json:"carrierStatus,omitempty"` // native label, kept for display
	TrackingNumber string          `json:"trackingNumber,omitempty"`
	TrackingURL    string          `json:"trackingUrl,omitempty"`
	Location       string          `json:"location,omitempty"`
	Timestamp      *time.Time      `json:"timestamp,omitempty"`
	Events         []TrackingEvent `json:"events,omitempty"`
	Desi           float64         `json:"desi,omitempty"`
	DeclaredValue  float64         `json:"declaredValue,omitempty"`
	Message        string          `json:"message,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// TrackingPending is the normal pre-dispatch state: the carrier has no
// record yet because the parcel has not been handed over.
func TrackingPending(trackingNumber string) *TrackingResult {
	return &TrackingResult{
		Success:        true,
		Status:         StatusPending,
		TrackingNumber: trackingNumber,
		Message:        "preparing",
	}
}

// TrackingFailure builds a failed tracking result.
func TrackingFailure(errMsg string) *TrackingResult {
	if errMsg == "" {
		errMsg = "carrier tracking failed"
	}
	return &TrackingResult{
		Success: false,
		Status:  StatusUnknown,
		Error:   errMsg,
	}
}

// LabelFormat represents the format of shipping labels.
type LabelFormat string

const (
	LabelPDF LabelFormat = "pdf"
	LabelPNG LabelFormat = "png"
	LabelZPL LabelFormat = "zpl"
)

// Label is a shipping label, either hosted or inline.
type Label struct {
	Format LabelFormat `json:"format"`
	URL    string      `json:"url,omitempty"`
	Data   []byte      `json:"data,omitempty"`
}
