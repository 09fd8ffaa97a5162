package cargo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Gateway dispatches canonical shipment operations to the selected carrier
// driver. It validates requests client-side before any network call and
// turns registry misses and unconfigured carriers into typed failures, so
// the caller always receives a result object.
type Gateway struct {
	registry *Registry
	validate *validator.Validate
	logger   *otelzap.Logger
}

// NewGateway creates a gateway over the given registry.
func NewGateway(registry *Registry, logger *otelzap.Logger) *Gateway {
	return &Gateway{
		registry: registry,
		validate: validator.New(),
		logger:   logger,
	}
}

// CarrierInfo describes one registered carrier to API consumers.
type CarrierInfo struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Carriers lists registered carriers and whether they are configured.
func (g *Gateway) Carriers() []CarrierInfo {
	providers := g.registry.All()
	infos := make([]CarrierInfo, 0, len(providers))
	for _, p := range providers {
		infos = append(infos, CarrierInfo{Name: p.Name(), Available: p.Available()})
	}
	return infos
}

// CreateShipment validates the request and delegates to the selected carrier.
func (g *Gateway) CreateShipment(ctx context.Context, carrier string, req *ShipmentRequest) *ShipmentResult {
	if req == nil {
		return ShipmentFailure(CodeBadRequest, "shipment request is required")
	}
	if err := g.validateRequest(req); err != nil {
		g.logger.Warn("Shipment request rejected",
			zap.String("carrier", carrier),
			zap.String("reference", req.ReferenceID),
			zap.Error(err),
		)
		return ShipmentFailure(CodeBadRequest, err.Error())
	}

	p, res := g.resolve(carrier)
	if res != nil {
		return res
	}

	return p.CreateShipment(ctx, req)
}

// CancelShipment delegates a cancel to the selected carrier.
func (g *Gateway) CancelShipment(ctx context.Context, carrier, reference string) *ShipmentResult {
	if reference == "" {
		return ShipmentFailure(CodeNotFound, "shipment reference is required")
	}

	p, res := g.resolve(carrier)
	if res != nil {
		return res
	}

	return p.CancelShipment(ctx, reference)
}

// TrackShipment delegates a track to the selected carrier.
func (g *Gateway) TrackShipment(ctx context.Context, carrier, reference string) *TrackingResult {
	if reference == "" {
		return TrackingFailure("shipment reference is required")
	}

	p, res := g.resolve(carrier)
	if res != nil {
		return TrackingFailure(res.Error)
	}

	return p.TrackShipment(ctx, reference)
}

// GetLabel delegates a label fetch to the selected carrier.
// (nil, nil) means the carrier has not produced a label yet.
func (g *Gateway) GetLabel(ctx context.Context, carrier, reference string) (*Label, error) {
	p, err := g.registry.Get(carrier)
	if err != nil {
		return nil, err
	}
	if !p.Available() {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, carrier)
	}
	return p.GetLabel(ctx, reference)
}

// resolve looks up the carrier and checks its configuration. A non-nil
// result is the typed failure to hand back to the caller.
func (g *Gateway) resolve(carrier string) (Provider, *ShipmentResult) {
	p, err := g.registry.Get(carrier)
	if err != nil {
		if errors.Is(err, ErrCarrierNotFound) {
			return nil, ShipmentFailure(CodeNotFound, err.Error())
		}
		return nil, ShipmentFailure(CodeUnavailable, err.Error())
	}
	if !p.Available() {
		return nil, ShipmentFailure(CodeUnavailable,
			fmt.Sprintf("carrier %s is not configured", carrier))
	}
	return p, nil
}

func (g *Gateway) validateRequest(req *ShipmentRequest) error {
	if err := g.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed on %s",
				ErrInvalidRequest, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	// Receiver address fields carry no validate tags because some callers
	// legitimately omit the district; street and city are the carrier minimum.
	if req.Receiver.Address == "" {
		return fmt.Errorf("%w: receiver address is required", ErrInvalidRequest)
	}
	if req.Receiver.City == "" {
		return fmt.Errorf("%w: receiver city is required", ErrInvalidRequest)
	}
	return nil
}
