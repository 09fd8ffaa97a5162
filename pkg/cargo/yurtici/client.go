// Package yurtici provides integration with the Yurtici Kargo NGI SOAP API.
package yurtici

import (
	"context"
	"time"

	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "yurtici"

// Yurtici operation codes as reported on the invoice document row.
const (
	OperationPending   = 0 // order registered, cargo not yet accepted
	OperationInTransit = 1
	OperationDelivered = 2
	OperationReturned  = 3
)

// Config holds Yurtici Kargo configuration.
type Config struct {
	Username    string
	Password    string
	EndpointURL string
	Language    string
	UseMock     bool
}

// Client is the Yurtici Kargo driver.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Yurtici Kargo client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewSOAPAPIClient(SOAPAPIClientConfig{
			EndpointURL: cfg.EndpointURL,
			Username:    cfg.Username,
			Password:    cfg.Password,
			Language:    cfg.Language,
			Timeout:     30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Yurtici Kargo client with a custom API client.
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
		c.config.EndpointURL != ""
}

// CreateShipment registers a shipping order with Yurtici.
func (c *Client) CreateShipment(ctx context.Context, req *cargo.ShipmentRequest) *cargo.ShipmentResult {
	c.logger.Info("Creating Yurtici order",
		zap.String("reference", req.ReferenceID),
		zap.String("receiver_city", req.Receiver.City),
	)

	apiResp, err := c.apiClient.CreateOrder(ctx, orderRequest(req))
	if err != nil {
		c.logger.Error("Yurtici API error", zap.Error(err))
		return cargo.FailureFromError(carrierName, err)
	}

	// outFlag stays a string on the wire; only the literal "0" is success.
	if apiResp.OutFlag != "0" {
		return cargo.ShipmentFailure(cargo.CodeBadRequest, apiResp.OutResult)
	}

	return cargo.ShipmentSuccess(req.ReferenceID, apiResp.OutResult)
}

// CancelShipment cancels a shipping order with Yurtici.
func (c *Client) CancelShipment(ctx context.Context, reference string) *cargo.ShipmentResult {
	c.logger.Info("Cancelling Yurtici order", zap.String("reference", reference))

	apiResp, err := c.apiClient.CancelOrder(ctx, reference)
	if err != nil {
		c.logger.Error("Yurtici API error", zap.Error(err))
		return cargo.FailureFromError(carrierName, err)
	}

	if apiResp.OutFlag != "0" {
		return cargo.ShipmentFailure(cargo.CodeUnprocessable, apiResp.OutResult)
	}

	return cargo.ShipmentSuccess(reference, apiResp.OutResult)
}

// TrackShipment queries shipping order state from Yurtici.
func (c *Client) TrackShipment(ctx context.Context, reference string) *cargo.TrackingResult {
	apiResp, err := c.apiClient.QueryOrder(ctx, reference)
	if err != nil {
		c.logger.Error("Yurtici API error", zap.Error(err))
		return cargo.TrackingFailureFromError(carrierName, err)
	}

	if !apiResp.Found {
		return cargo.TrackingPending(reference)
	}

	rec := apiResp.Record
	status := NormalizeStatus(rec.OperationCode)
	if rec.ReceiverName != "" && rec.DeliveryDate != "" {
		status = cargo.StatusDelivered
	}

	result := &cargo.TrackingResult{
		Success:        true,
		Status:         status,
		CarrierStatus:  rec.OperationMessage,
		TrackingNumber: rec.TrackingNumber,
		TrackingURL:    "https://www.yurticikargo.com/tr/online-servisler/gonderi-sorgula?code=" + rec.TrackingNumber,
		Location:       rec.Unit,
		Desi:           rec.Desi,
	}

	if rec.DeliveryDate != "" {
		if t, err := time.Parse("02.01.2006 15:04", rec.DeliveryDate); err == nil {
			result.Timestamp = &t
		}
	}

	return result
}

// GetLabel reports no label: the Yurtici waybill is produced by the
// courier against the cargo key.
func (c *Client) GetLabel(ctx context.Context, reference string) (*cargo.Label, error) {
	return nil, nil
}

// NormalizeStatus maps the Yurtici operation code to the canonical status.
func NormalizeStatus(operationCode int) cargo.TrackingStatus {
	switch operationCode {
	case OperationPending:
		return cargo.StatusShipped
	case OperationInTransit:
		return cargo.StatusInTransit
	case OperationDelivered:
		return cargo.StatusDelivered
	case OperationReturned:
		return cargo.StatusReturned
	default:
		return cargo.StatusUnknown
	}
}

// ============================================================================
// Field mapping
// ============================================================================

// orderRequest flattens the order lines to the single kg/desi totals
// Yurtici expects. Yurtici has no payer field; billing follows the
// contract on the web service account.
func orderRequest(req *cargo.ShipmentRequest) *OrderRequest {
	parcel := req.Parcel()

	return &OrderRequest{
		CargoKey:     req.ReferenceID,
		InvoiceKey:   req.ReferenceID,
		ReceiverName: req.Receiver.Name,
		Address:      req.Receiver.Address,
		City:         req.Receiver.City,
		District:     req.Receiver.District,
		Phone:        req.Receiver.Phone,
		Kg:           parcel.WeightKg,
		Desi:         parcel.Desi,
		Count:        parcel.Pieces,
		Description:  req.ContentDescription,
	}
}

var _ cargo.Provider = (*Client)(nil)
