// Package mng provides integration with the MNG Kargo SOAP API.
package mng

import (
	"context"
	"strings"
	"time"

	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "mng"

// duplicateMarker appears anywhere in the SiparisKayit result when the
// order reference was already registered. MNG does not use a dedicated
// code for this, only the sentence.
const duplicateMarker = "ZATEN VAR"

// Config holds MNG Kargo configuration.
type Config struct {
	CustomerNo  string
	Username    string
	Password    string
	EndpointURL string
	UseMock     bool
}

// Client is the MNG Kargo driver.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new MNG Kargo client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewSOAPAPIClient(SOAPAPIClientConfig{
			EndpointURL: cfg.EndpointURL,
			CustomerNo:  cfg.CustomerNo,
			Username:    cfg.Username,
			Password:    cfg.Password,
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

// NewWithAPIClient creates a new MNG Kargo client with a custom API client.
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
	return c.config.CustomerNo != "" && c.config.Username != "" &&
		c.config.Password != "" && c.config.EndpointURL != ""
}

// CreateShipment registers an order with MNG.
func (c *Client) CreateShipment(ctx context.Context, req *cargo.ShipmentRequest) *cargo.ShipmentResult {
	c.logger.Info("Creating MNG order",
		zap.String("reference", req.ReferenceID),
		zap.String("receiver_city", req.Receiver.City),
	)

	apiResp, err := c.apiClient.CreateOrder(ctx, orderRequest(req))
	if err != nil {
		c.logger.Error("MNG API error", zap.Error(err))
		return cargo.FailureFromError(carrierName, err)
	}

	switch {
	case apiResp.Result == "1":
		return cargo.ShipmentSuccess(req.ReferenceID, "Siparis kaydedildi")
	case strings.Contains(apiResp.Result, duplicateMarker):
		// The order already exists on the carrier side. Re-submitting after
		// a lost response is expected operator behavior, so this is a soft
		// success, not a rejection.
		return cargo.ShipmentSuccess(req.ReferenceID, apiResp.Result).
			WithCode(cargo.CodeAccepted)
	default:
		return cargo.ShipmentFailure(cargo.CodeBadRequest, apiResp.Result)
	}
}

// CancelShipment cancels an order with MNG.
func (c *Client) CancelShipment(ctx context.Context, reference string) *cargo.ShipmentResult {
	c.logger.Info("Cancelling MNG order", zap.String("reference", reference))

	apiResp, err := c.apiClient.CancelOrder(ctx, reference)
	if err != nil {
		c.logger.Error("MNG API error", zap.Error(err))
		return cargo.FailureFromError(carrierName, err)
	}

	if apiResp.Result != "1" {
		return cargo.ShipmentFailure(cargo.CodeUnprocessable, apiResp.Result)
	}

	return cargo.ShipmentSuccess(reference, "Siparis iptal edildi")
}

// TrackShipment queries order state from MNG.
func (c *Client) TrackShipment(ctx context.Context, reference string) *cargo.TrackingResult {
	apiResp, err := c.apiClient.QueryOrder(ctx, reference)
	if err != nil {
		c.logger.Error("MNG API error", zap.Error(err))
		return cargo.TrackingFailureFromError(carrierName, err)
	}

	if !apiResp.Found {
		return cargo.TrackingPending(reference)
	}

	rec := apiResp.Record
	status := NormalizeStatus(rec.Durum)
	// The delivered-to name is the authoritative delivery signal; the
	// status enum can lag behind the final scan.
	if rec.TeslimAlan != "" {
		status = cargo.StatusDelivered
	}

	result := &cargo.TrackingResult{
		Success:        true,
		Status:         status,
		CarrierStatus:  rec.DurumAciklama,
		TrackingNumber: rec.KargoNo,
		TrackingURL:    "https://kargotakip.mngkargo.com.tr/?takipNo=" + rec.KargoNo,
		Location:       rec.Sehir,
		Desi:           rec.Desi,
	}

	if rec.TeslimTarihi != "" {
		if t, err := time.Parse("02.01.2006 15:04", rec.TeslimTarihi); err == nil {
			result.Timestamp = &t
		}
	}

	return result
}

// GetLabel reports no label: MNG C2C orders are barcoded by the courier at
// pickup and the order service exposes no document operation.
func (c *Client) GetLabel(ctx context.Context, reference string) (*cargo.Label, error) {
	return nil, nil
}

// NormalizeStatus maps the MNG order status enum to the canonical status.
func NormalizeStatus(durum int) cargo.TrackingStatus {
	switch durum {
	case 0:
		return cargo.StatusPending
	case 1:
		return cargo.StatusShipped
	case 2:
		return cargo.StatusInTransit
	case 3:
		return cargo.StatusOutForDelivery
	case 4:
		return cargo.StatusDelivered
	case 5:
		return cargo.StatusReturned
	default:
		return cargo.StatusUnknown
	}
}

// ============================================================================
// Field mapping
// ============================================================================

func orderRequest(req *cargo.ShipmentRequest) *OrderRequest {
	// MNG wants the raw Kg/Desi/Adet triplet per order line and sums the
	// figures itself.
	pieces := make([]Piece, 0, len(req.Items))
	for _, item := range req.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		pieces = append(pieces, Piece{
			Kg:   minOne(item.WeightKg),
			Desi: minOne(item.Desi),
			Adet: qty,
		})
	}

	return &OrderRequest{
		SiparisNo:    req.ReferenceID,
		AliciAdi:     req.Receiver.Name,
		AliciAdresi:  req.Receiver.Address,
		AliciIl:      req.Receiver.City,
		AliciIlce:    req.Receiver.District,
		AliciTel:     req.Receiver.Phone,
		OdemeSekli:   odemeSekli(req.Payer),
		Icerik:       req.ContentDescription,
		Pieces:       pieces,
		FaturaSeriNo: req.ReferenceID,
	}
}

func odemeSekli(p cargo.PayerType) string {
	if p == cargo.PayerPlatform {
		return OdemeSekliKurumsal
	}
	return OdemeSekliGonderici
}

func minOne(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v
}

var _ cargo.Provider = (*Client)(nil)
