// Package navlungo provides integration with the Navlungo REST API.
package navlungo

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "navlungo"

// Config holds Navlungo configuration.
type Config struct {
	Username string
	Password string
	BaseURL  string
	UseMock  bool
}

// Client is the Navlungo driver. Unlike the SOAP carriers this one
// speaks JSON over a bearer-token session.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Navlungo client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:  cfg.BaseURL,
			Username: cfg.Username,
			Password: cfg.Password,
			Timeout:  30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Navlungo client with a custom API client.
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
		c.config.BaseURL != ""
}

// CreateShipment creates a post with Navlungo.
func (c *Client) CreateShipment(ctx context.Context, req *cargo.ShipmentRequest) *cargo.ShipmentResult {
	c.logger.Info("Creating Navlungo post",
		zap.String("reference", req.ReferenceID),
		zap.String("receiver_city", req.Receiver.City),
	)

	apiResp, err := c.apiClient.CreatePost(ctx, postRequest(req))
	if err != nil {
		c.logger.Error("Navlungo API error", zap.Error(err))
		return cargo.FailureFromError(carrierName, err)
	}

	if !apiResp.Success {
		return cargo.ShipmentFailure(cargo.CodeBadRequest, apiResp.Message)
	}

	tracking := apiResp.Data.TrackingNumber
	if tracking == "" {
		tracking = apiResp.Data.PostID
	}

	result := cargo.ShipmentSuccess(tracking, apiResp.Message)
	if apiResp.Data.LabelURL != "" {
		result = result.WithLabelURL(apiResp.Data.LabelURL)
	}
	return result
}

// CancelShipment cancels a post with Navlungo.
func (c *Client) CancelShipment(ctx context.Context, reference string) *cargo.ShipmentResult {
	c.logger.Info("Cancelling Navlungo post", zap.String("reference", reference))

	apiResp, err := c.apiClient.CancelPost(ctx, reference)
	if err != nil {
		c.logger.Error("Navlungo API error", zap.Error(err))
		return cargo.FailureFromError(carrierName, err)
	}

	if !apiResp.Success {
		return cargo.ShipmentFailure(cargo.CodeUnprocessable, apiResp.Message)
	}

	return cargo.ShipmentSuccess(reference, apiResp.Message)
}

// TrackShipment fetches tracking state from Navlungo.
func (c *Client) TrackShipment(ctx context.Context, reference string) *cargo.TrackingResult {
	apiResp, err := c.apiClient.TrackPost(ctx, reference)
	if err != nil {
		c.logger.Error("Navlungo API error", zap.Error(err))
		return cargo.TrackingFailureFromError(carrierName, err)
	}

	if !apiResp.Found {
		return cargo.TrackingPending(reference)
	}
	if !apiResp.Success {
		return cargo.TrackingFailure(apiResp.Message)
	}

	data := apiResp.Data
	result := &cargo.TrackingResult{
		Success:        true,
		Status:         cargo.StatusFromCode(data.Status),
		CarrierStatus:  data.StatusDescription,
		TrackingNumber: data.TrackingNumber,
		Location:       data.Location,
	}

	for _, ev := range data.Events {
		event := cargo.TrackingEvent{
			Description: ev.Description,
			Location:    ev.Location,
		}
		if t, err := time.Parse(time.RFC3339, ev.Timestamp); err == nil {
			event.Timestamp = t
		}
		result.Events = append(result.Events, event)
	}

	return result
}

// GetLabel fetches the label document from Navlungo. Returns nil without
// an error while the label is not generated yet.
func (c *Client) GetLabel(ctx context.Context, reference string) (*cargo.Label, error) {
	apiResp, err := c.apiClient.GetLabel(ctx, reference)
	if err != nil {
		c.logger.Error("Navlungo API error", zap.Error(err))
		return nil, err
	}

	if !apiResp.Success {
		return nil, nil
	}

	label := &cargo.Label{
		Format: labelFormat(apiResp.Data.Format),
		URL:    apiResp.Data.URL,
	}
	if apiResp.Data.Base64 != "" {
		data, err := base64.StdEncoding.DecodeString(apiResp.Data.Base64)
		if err != nil {
			return nil, &APIError{Code: "LABEL_DECODE", Description: err.Error()}
		}
		label.Data = data
	}

	return label, nil
}

// ============================================================================
// Field mapping
// ============================================================================

// postRequest expands each order line into one package per unit, the
// shape Navlungo prices by.
func postRequest(req *cargo.ShipmentRequest) *PostRequest {
	var packages []Package
	for _, item := range req.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			packages = append(packages, Package{
				WeightKg: item.WeightKg,
				Desi:     item.Desi,
				Content:  item.Description,
			})
		}
	}

	return &PostRequest{
		ReferenceID: req.ReferenceID,
		Receiver: PostAddress{
			Name:     req.Receiver.Name,
			Address:  req.Receiver.Address,
			City:     req.Receiver.City,
			District: req.Receiver.District,
			Phone:    req.Receiver.Phone,
			Email:    req.Receiver.Email,
		},
		Packages:      packages,
		Description:   req.ContentDescription,
		PayorIsSender: req.Payer != cargo.PayerPlatform,
	}
}

func labelFormat(s string) cargo.LabelFormat {
	switch s {
	case "zpl":
		return cargo.LabelZPL
	case "png":
		return cargo.LabelPNG
	default:
		return cargo.LabelPDF
	}
}

var _ cargo.Provider = (*Client)(nil)
