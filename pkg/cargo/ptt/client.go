// Package ptt provides integration with the PTT Kargo SOAP API.
package ptt

import (
	"context"
	"math"
	"time"

	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "ptt"

// Config holds PTT Kargo configuration. InsecureSkipVerify is passed
// through to the transport and defaults to off.
type Config struct {
	CustomerID         string
	Username           string
	Password           string
	EndpointURL        string
	InsecureSkipVerify bool
	UseMock            bool
}

// Client is the PTT Kargo driver.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new PTT Kargo client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewSOAPAPIClient(SOAPAPIClientConfig{
			EndpointURL:        cfg.EndpointURL,
			CustomerID:         cfg.CustomerID,
			Username:           cfg.Username,
			Password:           cfg.Password,
			Timeout:            30 * time.Second,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new PTT Kargo client with a custom API client.
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
	return c.config.CustomerID != "" && c.config.Username != "" &&
		c.config.Password != "" && c.config.EndpointURL != ""
}

// CreateShipment registers an acceptance record with PTT.
func (c *Client) CreateShipment(ctx context.Context, req *cargo.ShipmentRequest) *cargo.ShipmentResult {
	c.logger.Info("Creating PTT acceptance",
		zap.String("reference", req.ReferenceID),
		zap.String("receiver_city", req.Receiver.City),
	)

	apiResp, err := c.apiClient.CreateAcceptance(ctx, acceptanceRequest(req))
	if err != nil {
		c.logger.Error("PTT API error", zap.Error(err))
		return cargo.FailureFromError(carrierName, err)
	}

	if !isSuccess(apiResp.HataKodu) {
		return cargo.ShipmentFailure(cargo.CodeBadRequest, apiResp.Aciklama)
	}

	barcode := apiResp.Barcode
	if barcode == "" {
		barcode = req.ReferenceID
	}
	return cargo.ShipmentSuccess(barcode, "Kabul kaydedildi")
}

// CancelShipment deletes the barcode record with PTT.
func (c *Client) CancelShipment(ctx context.Context, reference string) *cargo.ShipmentResult {
	c.logger.Info("Cancelling PTT acceptance", zap.String("reference", reference))

	apiResp, err := c.apiClient.DeleteBarcode(ctx, reference)
	if err != nil {
		c.logger.Error("PTT API error", zap.Error(err))
		return cargo.FailureFromError(carrierName, err)
	}

	if !isSuccess(apiResp.HataKodu) {
		return cargo.ShipmentFailure(cargo.CodeUnprocessable, apiResp.Aciklama)
	}

	return cargo.ShipmentSuccess(reference, "Kabul silindi")
}

// TrackShipment queries shipment state from PTT.
func (c *Client) TrackShipment(ctx context.Context, reference string) *cargo.TrackingResult {
	apiResp, err := c.apiClient.QueryShipment(ctx, reference)
	if err != nil {
		c.logger.Error("PTT API error", zap.Error(err))
		return cargo.TrackingFailureFromError(carrierName, err)
	}

	if !apiResp.Found {
		return cargo.TrackingPending(reference)
	}

	rec := apiResp.Record
	result := &cargo.TrackingResult{
		Success:        true,
		Status:         NormalizeStatus(rec.TesAlan != "", len(rec.Events) > 0),
		CarrierStatus:  rec.StatusText,
		TrackingNumber: rec.Barcode,
		TrackingURL:    "https://gonderitakip.ptt.gov.tr/Track/Verify?q=" + rec.Barcode,
	}

	for _, ev := range rec.Events {
		event := cargo.TrackingEvent{
			Description: ev.Description,
			Location:    ev.Unit,
		}
		if t, err := parseEventDate(ev.Date); err == nil {
			event.Timestamp = t
		}
		result.Events = append(result.Events, event)
	}

	if rec.DeliveryDate != "" {
		if t, err := parseEventDate(rec.DeliveryDate); err == nil {
			result.Timestamp = &t
		}
	}

	return result
}

// GetLabel reports no label: PTT works off the client-generated barcode
// and exposes no document operation.
func (c *Client) GetLabel(ctx context.Context, reference string) (*cargo.Label, error) {
	return nil, nil
}

// NormalizeStatus maps the PTT query result to the canonical status. PTT
// has no status enum; the signed-for name is the only hard signal, and
// movement rows distinguish shipped from in transit.
func NormalizeStatus(delivered, hasMovement bool) cargo.TrackingStatus {
	switch {
	case delivered:
		return cargo.StatusDelivered
	case hasMovement:
		return cargo.StatusInTransit
	default:
		return cargo.StatusShipped
	}
}

// ============================================================================
// Field mapping
// ============================================================================

// acceptanceRequest flattens the order lines the way PTT wants them: one
// record per shipment carrying the gram weight, the summed desi and the
// total piece count.
func acceptanceRequest(req *cargo.ShipmentRequest) *AcceptanceRequest {
	parcel := req.Parcel()

	return &AcceptanceRequest{
		Barcode:      req.ReferenceID,
		ReceiverName: req.Receiver.Name,
		Address:      req.Receiver.Address,
		City:         req.Receiver.City,
		District:     req.Receiver.District,
		Phone:        req.Receiver.Phone,
		WeightGrams:  int(math.Round(parcel.WeightKg * 1000)),
		Desi:         parcel.Desi,
		PieceCount:   parcel.Pieces,
		Description:  req.ContentDescription,
	}
}

// isSuccess treats a null error code the same as an explicit zero.
func isSuccess(hataKodu *int) bool {
	return hataKodu == nil || *hataKodu == 0
}

func parseEventDate(s string) (time.Time, error) {
	return time.Parse("02.01.2006 15:04", s)
}

var _ cargo.Provider = (*Client)(nil)
