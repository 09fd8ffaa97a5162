// Package aras provides integration with the Aras Kargo SOAP API.
package aras

import (
	"context"
	"time"

	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "aras"

// Config holds Aras Kargo configuration.
type Config struct {
	Username     string
	Password     string
	CustomerCode string
	EndpointURL  string
	UseMock      bool
}

// Client is the Aras Kargo driver.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Aras Kargo client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewSOAPAPIClient(SOAPAPIClientConfig{
			EndpointURL:  cfg.EndpointURL,
			Username:     cfg.Username,
			Password:     cfg.Password,
			CustomerCode: cfg.CustomerCode,
			Timeout:      30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Aras Kargo client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// Available reports whether credentials and the endpoint are configured.
func (c *Client) Available() bool {
	if c.config.UseMock {
		return true
	}
	return c.config.Username != "" && c.config.Password != "" &&
		c.config.CustomerCode != "" && c.config.EndpointURL != ""
}

// CreateShipment registers a shipment order with Aras.
func (c *Client) CreateShipment(ctx context.Context, req *cargo.ShipmentRequest) *cargo.ShipmentResult {
	c.logger.Info("Creating Aras order",
		zap.String("reference", req.ReferenceID),
		zap.String("receiver_city", req.Receiver.City),
	)

	apiResp, err := c.apiClient.SaveOrder(ctx, saveOrderRequest(req))
	if err != nil {
		c.logger.Error("Aras API error", zap.Error(err))
		return cargo.FailureFromError(carrierName, err)
	}

	// SaveOrderResult.Result == 1 is the only success signal.
	if apiResp.Result != 1 {
		return cargo.ShipmentFailure(cargo.CodeBadRequest, apiResp.Message)
	}

	trackingNumber := apiResp.TrackingNumber
	if trackingNumber == "" {
		// Aras assigns the tracking number at branch acceptance; until then
		// the integration code is the reference callers track by.
		trackingNumber = req.ReferenceID
	}

	return cargo.ShipmentSuccess(trackingNumber, apiResp.Message)
}

// CancelShipment cancels a shipment order with Aras.
func (c *Client) CancelShipment(ctx context.Context, reference string) *cargo.ShipmentResult {
	c.logger.Info("Cancelling Aras order", zap.String("reference", reference))

	apiResp, err := c.apiClient.DeleteOrder(ctx, reference)
	if err != nil {
		c.logger.Error("Aras API error", zap.Error(err))
		return cargo.FailureFromError(carrierName, err)
	}

	// A repeated cancel or an unknown code is a business rejection the
	// operator can act on, not a transport fault.
	if apiResp.Result != 1 {
		return cargo.ShipmentFailure(cargo.CodeUnprocessable, apiResp.Message)
	}

	return cargo.ShipmentSuccess(reference, apiResp.Message)
}

// TrackShipment queries shipment movement from Aras.
func (c *Client) TrackShipment(ctx context.Context, reference string) *cargo.TrackingResult {
	apiResp, err := c.apiClient.QueryShipment(ctx, reference)
	if err != nil {
		c.logger.Error("Aras API error", zap.Error(err))
		return cargo.TrackingFailureFromError(carrierName, err)
	}

	if len(apiResp.Records) == 0 {
		// Normal pre-dispatch state: the parcel has not been scanned yet.
		return cargo.TrackingPending(reference)
	}

	latest := apiResp.Records[len(apiResp.Records)-1]
	status := NormalizeStatus(latest.StatusCode, latest.TypeCode)

	events := make([]cargo.TrackingEvent, 0, len(apiResp.Records))
	for _, rec := range apiResp.Records {
		events = append(events, cargo.TrackingEvent{
			Timestamp:   parseEventDate(rec.EventDate),
			Description: rec.StatusText,
			Location:    rec.Unit,
			Status:      NormalizeStatus(rec.StatusCode, rec.TypeCode),
		})
	}

	ts := parseEventDate(latest.EventDate)
	return &cargo.TrackingResult{
		Success:        true,
		Status:         status,
		CarrierStatus:  latest.StatusText,
		TrackingNumber: latest.TrackingNumber,
		TrackingURL:    "https://kargotakip.araskargo.com.tr/mainpage.aspx?code=" + latest.TrackingNumber,
		Location:       latest.Unit,
		Timestamp:      &ts,
		Events:         events,
		Desi:           latest.WeightDesi,
		DeclaredValue:  latest.Amount,
	}
}

// GetLabel reports no label: Aras prints barcodes at branch acceptance and
// exposes no document endpoint on the order integration service.
func (c *Client) GetLabel(ctx context.Context, reference string) (*cargo.Label, error) {
	return nil, nil
}

// NormalizeStatus maps an Aras (DURUM_KODU, TIP_KODU) pair to the canonical
// status. The pair is required: the same status integer means different
// things depending on the shipment type, and a return shipment (type 3) is
// returned regardless of its status code.
func NormalizeStatus(statusCode, typeCode int) cargo.TrackingStatus {
	switch typeCode {
	case 1, 2:
		switch statusCode {
		case 6:
			return cargo.StatusOutForDelivery
		case 7:
			return cargo.StatusInTransit
		default:
			return cargo.StatusFromCode(statusCode)
		}
	case 3:
		return cargo.StatusReturned
	default:
		return cargo.StatusUnknown
	}
}

// ============================================================================
// Field mapping
// ============================================================================

func saveOrderRequest(req *cargo.ShipmentRequest) *SaveOrderRequest {
	parcel := req.Parcel()

	return &SaveOrderRequest{
		IntegrationCode:  req.ReferenceID,
		InvoiceNumber:    req.ReferenceID,
		ReceiverName:     req.Receiver.Name,
		ReceiverAddress:  req.Receiver.Address,
		ReceiverCity:     req.Receiver.City,
		ReceiverDistrict: req.Receiver.District,
		ReceiverPhone:    req.Receiver.Phone,
		PieceCount:       parcel.Pieces,
		PayOrType:        payOrType(req.Payer),
		Description:      req.ContentDescription,
	}
}

func payOrType(p cargo.PayerType) int {
	if p == cargo.PayerPlatform {
		return PayOrTypePlatform
	}
	return PayOrTypeSender
}

func parseEventDate(s string) time.Time {
	if t, err := time.Parse("02.01.2006 15:04", s); err == nil {
		return t
	}
	if t, err := time.Parse("02.01.2006", s); err == nil {
		return t
	}
	return time.Time{}
}

var _ cargo.Provider = (*Client)(nil)
