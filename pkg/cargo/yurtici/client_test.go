package yurtici_test

import (
	"context"
	"testing"

	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/farmaborsa/cargo/pkg/cargo/yurtici"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockClient *yurtici.MockAPIClient) *yurtici.Client {
	logger := otelzap.New(zap.NewNop())
	return yurtici.NewWithAPIClient(
		yurtici.Config{},
		mockClient,
		logger,
		nil,
	)
}

func testRequest() *cargo.ShipmentRequest {
	return &cargo.ShipmentRequest{
		ReferenceID: "FB-2024-000321",
		Sender: cargo.Party{
			Name:  "Sifa Eczanesi",
			City:  "Istanbul",
			Phone: "02163334455",
		},
		Receiver: cargo.Party{
			Name:     "Yildiz Eczanesi",
			Address:  "Cumhuriyet Mah. 18",
			City:     "Bursa",
			District: "Osmangazi",
			Phone:    "02247778899",
		},
		Items: []cargo.Item{
			{Description: "Insulin kalemi", Quantity: 4, WeightKg: 0.25, Desi: 0.6},
		},
		Payer:              cargo.PayerPlatform,
		ContentDescription: "Ilac",
	}
}

func TestClient_CreateShipment_Success(t *testing.T) {
	mockAPI := yurtici.NewMockAPIClient()
	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.True(t, res.Success)
	assert.Equal(t, cargo.CodeOK, res.Code)
	assert.Equal(t, "FB-2024-000321", res.TrackingNumber)
}

func TestClient_CreateShipment_NonZeroOutFlagIsRejection(t *testing.T) {
	mockAPI := yurtici.NewMockAPIClient()
	mockAPI.OnCreateOrder = func(ctx context.Context, req *yurtici.OrderRequest) (*yurtici.OrderResponse, error) {
		return &yurtici.OrderResponse{OutFlag: "1", OutResult: "Gecersiz il bilgisi"}, nil
	}

	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeBadRequest, res.Code)
	assert.Equal(t, "Gecersiz il bilgisi", res.Error)
}

func TestClient_CreateShipment_SendsSummedTotals(t *testing.T) {
	mockAPI := yurtici.NewMockAPIClient()
	var captured *yurtici.OrderRequest
	mockAPI.OnCreateOrder = func(ctx context.Context, req *yurtici.OrderRequest) (*yurtici.OrderResponse, error) {
		captured = req
		return &yurtici.OrderResponse{OutFlag: "0"}, nil
	}

	client := newTestClient(mockAPI)
	client.CreateShipment(context.Background(), testRequest())

	require.NotNil(t, captured)
	// 4 x 0.25kg and 4 x 0.6 desi, summed client-side.
	assert.InDelta(t, 1.0, captured.Kg, 0.001)
	assert.InDelta(t, 2.4, captured.Desi, 0.001)
	assert.Equal(t, 4, captured.Count)
	assert.Equal(t, "FB-2024-000321", captured.CargoKey)
}

func TestClient_CreateShipment_TransportError(t *testing.T) {
	mockAPI := yurtici.NewMockAPIClient()
	mockAPI.SimulateErrors = true

	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeUnavailable, res.Code)
}

func TestClient_CancelShipment_Idempotent(t *testing.T) {
	mockAPI := yurtici.NewMockAPIClient()
	cancelled := false
	mockAPI.OnCancelOrder = func(ctx context.Context, cargoKey string) (*yurtici.OrderResponse, error) {
		if cancelled {
			return &yurtici.OrderResponse{OutFlag: "4", OutResult: "Kayit bulunamadi"}, nil
		}
		cancelled = true
		return &yurtici.OrderResponse{OutFlag: "0", OutResult: "Basarili"}, nil
	}

	client := newTestClient(mockAPI)

	first := client.CancelShipment(context.Background(), "FB-2024-000321")
	require.True(t, first.Success)

	second := client.CancelShipment(context.Background(), "FB-2024-000321")
	require.False(t, second.Success)
	assert.Equal(t, cargo.CodeUnprocessable, second.Code)
	assert.Equal(t, "Kayit bulunamadi", second.Error)
}

func TestClient_TrackShipment_NotFoundIsPending(t *testing.T) {
	mockAPI := yurtici.NewMockAPIClient()
	mockAPI.OnQueryOrder = func(ctx context.Context, cargoKey string) (*yurtici.QueryResponse, error) {
		return &yurtici.QueryResponse{Found: false}, nil
	}

	client := newTestClient(mockAPI)

	res := client.TrackShipment(context.Background(), "FB-2024-000321")

	require.True(t, res.Success)
	assert.Equal(t, cargo.StatusPending, res.Status)
	assert.Equal(t, "preparing", res.Message)
}

func TestClient_TrackShipment_Delivered(t *testing.T) {
	mockAPI := yurtici.NewMockAPIClient()
	mockAPI.OnQueryOrder = func(ctx context.Context, cargoKey string) (*yurtici.QueryResponse, error) {
		return &yurtici.QueryResponse{
			Found: true,
			Record: yurtici.DocumentRecord{
				CargoKey:         cargoKey,
				TrackingNumber:   "660012345678",
				OperationCode:    yurtici.OperationDelivered,
				OperationMessage: "TESLIM EDILDI",
				ReceiverName:     "MEHMET KAYA",
				DeliveryDate:     "18.03.2024 16:45",
			},
		}, nil
	}

	client := newTestClient(mockAPI)

	res := client.TrackShipment(context.Background(), "FB-2024-000321")

	require.True(t, res.Success)
	assert.Equal(t, cargo.StatusDelivered, res.Status)
	assert.Equal(t, "660012345678", res.TrackingNumber)
	require.NotNil(t, res.Timestamp)
	assert.Equal(t, 18, res.Timestamp.Day())
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		code int
		want cargo.TrackingStatus
	}{
		{yurtici.OperationPending, cargo.StatusShipped},
		{yurtici.OperationInTransit, cargo.StatusInTransit},
		{yurtici.OperationDelivered, cargo.StatusDelivered},
		{yurtici.OperationReturned, cargo.StatusReturned},
		{42, cargo.StatusUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, yurtici.NormalizeStatus(tt.code))
	}
}

func TestClient_Name(t *testing.T) {
	client := newTestClient(yurtici.NewMockAPIClient())
	assert.Equal(t, "yurtici", client.Name())
}

func TestClient_Available(t *testing.T) {
	logger := otelzap.New(zap.NewNop())

	unconfigured := yurtici.New(yurtici.Config{}, logger, nil)
	assert.False(t, unconfigured.Available())

	configured := yurtici.New(yurtici.Config{
		Username:    "farmaborsa",
		Password:    "secret",
		EndpointURL: "https://webservices.yurticikargo.com/KOPSWebServices/ShippingOrderDispatcherServices",
	}, logger, nil)
	assert.True(t, configured.Available())
}
