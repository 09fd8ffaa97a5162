package aras_test

import (
	"context"
	"testing"

	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/farmaborsa/cargo/pkg/cargo/aras"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockClient *aras.MockAPIClient) *aras.Client {
	logger := otelzap.New(zap.NewNop())
	return aras.NewWithAPIClient(
		aras.Config{},
		mockClient,
		logger,
		nil,
	)
}

func testRequest() *cargo.ShipmentRequest {
	return &cargo.ShipmentRequest{
		ReferenceID: "FB-2024-000123",
		Sender: cargo.Party{
			Name:      "Sifa Eczanesi",
			Address:   "Bagdat Cad. 101",
			City:      "Istanbul",
			District:  "Kadikoy",
			Phone:     "02163334455",
			TaxNumber: "1234567890",
		},
		Receiver: cargo.Party{
			Name:     "Deva Eczanesi",
			Address:  "Ataturk Blv. 22",
			City:     "Ankara",
			District: "Cankaya",
			Phone:    "03122223344",
		},
		Items: []cargo.Item{
			{Description: "Parol 500mg", Quantity: 10, WeightKg: 0.1, Desi: 0.2},
		},
		Payer:              cargo.PayerPlatform,
		ContentDescription: "Ilac",
	}
}

func TestClient_CreateShipment_Success(t *testing.T) {
	mockAPI := aras.NewMockAPIClient()
	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.True(t, res.Success)
	assert.Equal(t, cargo.CodeOK, res.Code)
	assert.NotEmpty(t, res.TrackingNumber)
	assert.Empty(t, res.Error)
}

func TestClient_CreateShipment_MapsPayOrType(t *testing.T) {
	mockAPI := aras.NewMockAPIClient()
	var captured *aras.SaveOrderRequest
	mockAPI.OnSaveOrder = func(ctx context.Context, req *aras.SaveOrderRequest) (*aras.SaveOrderResponse, error) {
		captured = req
		return &aras.SaveOrderResponse{Result: 1, Message: "ok"}, nil
	}

	client := newTestClient(mockAPI)

	req := testRequest()
	req.Payer = cargo.PayerPlatform
	client.CreateShipment(context.Background(), req)

	require.NotNil(t, captured)
	assert.Equal(t, aras.PayOrTypePlatform, captured.PayOrType)
	assert.Equal(t, 10, captured.PieceCount)
	assert.Equal(t, "FB-2024-000123", captured.IntegrationCode)

	req.Payer = cargo.PayerSender
	client.CreateShipment(context.Background(), req)
	assert.Equal(t, aras.PayOrTypeSender, captured.PayOrType)
}

func TestClient_CreateShipment_BusinessRejection(t *testing.T) {
	mockAPI := aras.NewMockAPIClient()
	mockAPI.OnSaveOrder = func(ctx context.Context, req *aras.SaveOrderRequest) (*aras.SaveOrderResponse, error) {
		return &aras.SaveOrderResponse{Result: 0, Message: "Gecersiz adres bilgisi"}, nil
	}

	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeBadRequest, res.Code)
	assert.Equal(t, "Gecersiz adres bilgisi", res.Error)
	assert.Empty(t, res.TrackingNumber)
}

func TestClient_CreateShipment_TransportError(t *testing.T) {
	mockAPI := aras.NewMockAPIClient()
	mockAPI.SimulateErrors = true

	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeUnavailable, res.Code)
	assert.NotEmpty(t, res.Error)
}

func TestClient_CancelShipment_Idempotent(t *testing.T) {
	mockAPI := aras.NewMockAPIClient()
	cancelled := false
	mockAPI.OnDeleteOrder = func(ctx context.Context, code string) (*aras.DeleteOrderResponse, error) {
		if cancelled {
			return &aras.DeleteOrderResponse{Result: 0, Message: "Kayit bulunamadi"}, nil
		}
		cancelled = true
		return &aras.DeleteOrderResponse{Result: 1, Message: "Iptal edildi"}, nil
	}

	client := newTestClient(mockAPI)

	first := client.CancelShipment(context.Background(), "FB-2024-000123")
	require.True(t, first.Success)

	second := client.CancelShipment(context.Background(), "FB-2024-000123")
	require.False(t, second.Success)
	assert.Equal(t, cargo.CodeUnprocessable, second.Code)
	assert.Equal(t, "Kayit bulunamadi", second.Error)
}

func TestClient_TrackShipment_NoRecordsIsPending(t *testing.T) {
	mockAPI := aras.NewMockAPIClient()
	mockAPI.OnQueryShipment = func(ctx context.Context, code string) (*aras.QueryResponse, error) {
		return &aras.QueryResponse{}, nil
	}

	client := newTestClient(mockAPI)

	res := client.TrackShipment(context.Background(), "FB-2024-000123")

	require.True(t, res.Success)
	assert.Equal(t, cargo.StatusPending, res.Status)
	assert.Equal(t, "preparing", res.Message)
}

func TestClient_TrackShipment_LatestRecordWins(t *testing.T) {
	mockAPI := aras.NewMockAPIClient()
	mockAPI.OnQueryShipment = func(ctx context.Context, code string) (*aras.QueryResponse, error) {
		return &aras.QueryResponse{
			Records: []aras.QueryRecord{
				{StatusCode: 7, TypeCode: 1, StatusText: "YOLDA", TrackingNumber: "74123456789"},
				{StatusCode: 6, TypeCode: 1, StatusText: "DAGITIMDA", TrackingNumber: "74123456789", WeightDesi: 3.5, Amount: 89.90},
			},
		}, nil
	}

	client := newTestClient(mockAPI)

	res := client.TrackShipment(context.Background(), "FB-2024-000123")

	require.True(t, res.Success)
	assert.Equal(t, cargo.StatusOutForDelivery, res.Status)
	assert.Equal(t, "DAGITIMDA", res.CarrierStatus)
	assert.Equal(t, "74123456789", res.TrackingNumber)
	assert.Len(t, res.Events, 2)
	assert.InDelta(t, 3.5, res.Desi, 0.001)
	assert.InDelta(t, 89.90, res.DeclaredValue, 0.001)
}

func TestClient_TrackShipment_TransportError(t *testing.T) {
	mockAPI := aras.NewMockAPIClient()
	mockAPI.SimulateErrors = true

	client := newTestClient(mockAPI)

	res := client.TrackShipment(context.Background(), "FB-2024-000123")

	require.False(t, res.Success)
	assert.Equal(t, cargo.StatusUnknown, res.Status)
	assert.NotEmpty(t, res.Error)
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		typeCode   int
		want       cargo.TrackingStatus
	}{
		{"out for delivery on forward type", 6, 1, cargo.StatusOutForDelivery},
		{"in transit on second forward type", 7, 2, cargo.StatusInTransit},
		{"return type dominates any status", 4, 3, cargo.StatusReturned},
		{"return type dominates out-for-delivery code", 6, 3, cargo.StatusReturned},
		{"passthrough pending", 1, 1, cargo.StatusPending},
		{"passthrough delivered", 6, 0, cargo.StatusUnknown},
		{"unknown type", 7, 9, cargo.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aras.NormalizeStatus(tt.statusCode, tt.typeCode))
		})
	}
}

func TestClient_GetLabel_NoLabelService(t *testing.T) {
	client := newTestClient(aras.NewMockAPIClient())

	label, err := client.GetLabel(context.Background(), "FB-2024-000123")

	require.NoError(t, err)
	assert.Nil(t, label)
}

func TestClient_Name(t *testing.T) {
	client := newTestClient(aras.NewMockAPIClient())
	assert.Equal(t, "aras", client.Name())
}

func TestClient_Available(t *testing.T) {
	logger := otelzap.New(zap.NewNop())

	unconfigured := aras.New(aras.Config{}, logger, nil)
	assert.False(t, unconfigured.Available())

	configured := aras.New(aras.Config{
		Username:     "farmaborsa",
		Password:     "secret",
		CustomerCode: "C100",
		EndpointURL:  "https://customerws.araskargo.com.tr/arascargoservice.asmx",
	}, logger, nil)
	assert.True(t, configured.Available())
}
