package cargo_test

import (
	"context"
	"testing"

	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/farmaborsa/cargo/pkg/cargo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// countingProvider records how many times the carrier is actually called.
type countingProvider struct {
	*mock.Client
	createCalls int
}

func (p *countingProvider) CreateShipment(ctx context.Context, req *cargo.ShipmentRequest) *cargo.ShipmentResult {
	p.createCalls++
	return p.Client.CreateShipment(ctx, req)
}

// unavailableProvider simulates a registered carrier without credentials.
type unavailableProvider struct {
	*mock.Client
}

func (p *unavailableProvider) Available() bool {
	return false
}

func newTestGateway(providers ...cargo.Provider) *cargo.Gateway {
	registry := cargo.NewRegistry()
	for _, p := range providers {
		registry.Register(p)
	}
	return cargo.NewGateway(registry, otelzap.New(zap.NewNop()))
}

func validRequest() *cargo.ShipmentRequest {
	return &cargo.ShipmentRequest{
		ReferenceID: "FB-2024-000123",
		Sender: cargo.Party{
			Name:  "Sifa Eczanesi",
			City:  "Istanbul",
			Phone: "02163334455",
		},
		Receiver: cargo.Party{
			Name:     "Deva Eczanesi",
			Address:  "Inonu Cad. 77",
			City:     "Adana",
			District: "Seyhan",
			Phone:    "03228887766",
		},
		Items: []cargo.Item{
			{Description: "Agri kesici", Quantity: 1, WeightKg: 0.5, Desi: 1.0},
		},
		Payer: cargo.PayerSender,
	}
}

func TestGateway_CreateShipment_Success(t *testing.T) {
	gateway := newTestGateway(mock.New("aras"))

	res := gateway.CreateShipment(context.Background(), "aras", validRequest())

	require.True(t, res.Success)
	assert.Equal(t, cargo.CodeOK, res.Code)
	assert.NotEmpty(t, res.TrackingNumber)
}

func TestGateway_CreateShipment_MissingAddressRejectedBeforeCarrierCall(t *testing.T) {
	provider := &countingProvider{Client: mock.New("aras")}
	gateway := newTestGateway(provider)

	req := validRequest()
	req.Receiver.Address = ""

	res := gateway.CreateShipment(context.Background(), "aras", req)

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeBadRequest, res.Code)
	assert.Contains(t, res.Error, "receiver address")
	assert.Zero(t, provider.createCalls, "carrier must not be called for an invalid request")
}

func TestGateway_CreateShipment_MissingReferenceRejected(t *testing.T) {
	provider := &countingProvider{Client: mock.New("aras")}
	gateway := newTestGateway(provider)

	req := validRequest()
	req.ReferenceID = ""

	res := gateway.CreateShipment(context.Background(), "aras", req)

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeBadRequest, res.Code)
	assert.Zero(t, provider.createCalls)
}

func TestGateway_CreateShipment_EmptyItemsRejected(t *testing.T) {
	provider := &countingProvider{Client: mock.New("aras")}
	gateway := newTestGateway(provider)

	req := validRequest()
	req.Items = nil

	res := gateway.CreateShipment(context.Background(), "aras", req)

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeBadRequest, res.Code)
	assert.Zero(t, provider.createCalls)
}

func TestGateway_CreateShipment_NilRequest(t *testing.T) {
	gateway := newTestGateway(mock.New("aras"))

	res := gateway.CreateShipment(context.Background(), "aras", nil)

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeBadRequest, res.Code)
}

func TestGateway_CreateShipment_UnknownCarrier(t *testing.T) {
	gateway := newTestGateway(mock.New("aras"))

	res := gateway.CreateShipment(context.Background(), "dhl", validRequest())

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeNotFound, res.Code)
	assert.Contains(t, res.Error, "dhl")
}

func TestGateway_CreateShipment_UnconfiguredCarrier(t *testing.T) {
	gateway := newTestGateway(&unavailableProvider{Client: mock.New("ptt")})

	res := gateway.CreateShipment(context.Background(), "ptt", validRequest())

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeUnavailable, res.Code)
	assert.Contains(t, res.Error, "not configured")
}

func TestGateway_CancelShipment(t *testing.T) {
	provider := mock.New("mng")
	gateway := newTestGateway(provider)

	gateway.CreateShipment(context.Background(), "mng", validRequest())

	res := gateway.CancelShipment(context.Background(), "mng", "FB-2024-000123")
	require.True(t, res.Success)

	second := gateway.CancelShipment(context.Background(), "mng", "FB-2024-000123")
	require.False(t, second.Success)
	assert.Equal(t, cargo.CodeUnprocessable, second.Code)
}

func TestGateway_CancelShipment_EmptyReference(t *testing.T) {
	gateway := newTestGateway(mock.New("mng"))

	res := gateway.CancelShipment(context.Background(), "mng", "")

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeNotFound, res.Code)
}

func TestGateway_TrackShipment_BeforeDispatchIsPending(t *testing.T) {
	gateway := newTestGateway(mock.New("yurtici"))

	res := gateway.TrackShipment(context.Background(), "yurtici", "FB-2024-000999")

	require.True(t, res.Success)
	assert.Equal(t, cargo.StatusPending, res.Status)
	assert.Equal(t, "preparing", res.Message)
}

func TestGateway_TrackShipment_UnknownCarrier(t *testing.T) {
	gateway := newTestGateway()

	res := gateway.TrackShipment(context.Background(), "aras", "FB-2024-000123")

	require.False(t, res.Success)
	assert.Contains(t, res.Error, "carrier not found")
}

func TestGateway_GetLabel(t *testing.T) {
	gateway := newTestGateway(mock.New("navlungo"))

	gateway.CreateShipment(context.Background(), "navlungo", validRequest())

	label, err := gateway.GetLabel(context.Background(), "navlungo", "FB-2024-000123")
	require.NoError(t, err)
	require.NotNil(t, label)
	assert.Equal(t, cargo.LabelPDF, label.Format)
}

func TestGateway_GetLabel_UnknownCarrier(t *testing.T) {
	gateway := newTestGateway()

	_, err := gateway.GetLabel(context.Background(), "aras", "FB-2024-000123")
	require.Error(t, err)
	assert.ErrorIs(t, err, cargo.ErrCarrierNotFound)
}

func TestGateway_Carriers(t *testing.T) {
	gateway := newTestGateway(
		mock.New("aras"),
		&unavailableProvider{Client: mock.New("ptt")},
	)

	infos := gateway.Carriers()

	require.Len(t, infos, 2)
	byName := map[string]bool{}
	for _, info := range infos {
		byName[info.Name] = info.Available
	}
	assert.True(t, byName["aras"])
	assert.False(t, byName["ptt"])
}
