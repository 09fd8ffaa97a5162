package ptt_test

import (
	"context"
	"testing"

	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/farmaborsa/cargo/pkg/cargo/ptt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockClient *ptt.MockAPIClient) *ptt.Client {
	logger := otelzap.New(zap.NewNop())
	return ptt.NewWithAPIClient(
		ptt.Config{},
		mockClient,
		logger,
		nil,
	)
}

func testRequest() *cargo.ShipmentRequest {
	return &cargo.ShipmentRequest{
		ReferenceID: "FB-2024-000789",
		Sender: cargo.Party{
			Name:  "Sifa Eczanesi",
			City:  "Istanbul",
			Phone: "02163334455",
		},
		Receiver: cargo.Party{
			Name:     "Gunes Eczanesi",
			Address:  "Ataturk Bulvari 42",
			City:     "Ankara",
			District: "Cankaya",
			Phone:    "03125556677",
		},
		Items: []cargo.Item{
			{Description: "Parol 500mg", Quantity: 2, WeightKg: 0.3, Desi: 0.8},
			{Description: "Vitamin D3 damla", Quantity: 1, WeightKg: 0.9, Desi: 1.2},
		},
		Payer:              cargo.PayerSender,
		ContentDescription: "Ilac",
	}
}

func TestClient_CreateShipment_NullErrorCodeIsSuccess(t *testing.T) {
	mockAPI := ptt.NewMockAPIClient()
	mockAPI.OnCreateAcceptance = func(ctx context.Context, req *ptt.AcceptanceRequest) (*ptt.AcceptanceResponse, error) {
		return &ptt.AcceptanceResponse{HataKodu: nil, Barcode: req.Barcode}, nil
	}

	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.True(t, res.Success)
	assert.Equal(t, cargo.CodeOK, res.Code)
	assert.Equal(t, "FB-2024-000789", res.TrackingNumber)
}

func TestClient_CreateShipment_ZeroErrorCodeIsSuccess(t *testing.T) {
	mockAPI := ptt.NewMockAPIClient()
	zero := 0
	mockAPI.OnCreateAcceptance = func(ctx context.Context, req *ptt.AcceptanceRequest) (*ptt.AcceptanceResponse, error) {
		return &ptt.AcceptanceResponse{HataKodu: &zero, Barcode: req.Barcode}, nil
	}

	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.True(t, res.Success)
}

func TestClient_CreateShipment_BusinessRejection(t *testing.T) {
	mockAPI := ptt.NewMockAPIClient()
	code := 9
	mockAPI.OnCreateAcceptance = func(ctx context.Context, req *ptt.AcceptanceRequest) (*ptt.AcceptanceResponse, error) {
		return &ptt.AcceptanceResponse{HataKodu: &code, Aciklama: "BARKOD DAHA ONCE KULLANILMIS"}, nil
	}

	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeBadRequest, res.Code)
	assert.Equal(t, "BARKOD DAHA ONCE KULLANILMIS", res.Error)
}

func TestClient_CreateShipment_SendsGramsAndSummedDesi(t *testing.T) {
	mockAPI := ptt.NewMockAPIClient()
	var captured *ptt.AcceptanceRequest
	mockAPI.OnCreateAcceptance = func(ctx context.Context, req *ptt.AcceptanceRequest) (*ptt.AcceptanceResponse, error) {
		captured = req
		return &ptt.AcceptanceResponse{Barcode: req.Barcode}, nil
	}

	client := newTestClient(mockAPI)
	client.CreateShipment(context.Background(), testRequest())

	require.NotNil(t, captured)
	// 2 x 0.3kg + 1 x 0.9kg = 1.5kg as grams.
	assert.Equal(t, 1500, captured.WeightGrams)
	// 2 x 0.8 + 1 x 1.2 = 2.8 desi, summed client-side.
	assert.InDelta(t, 2.8, captured.Desi, 0.001)
	assert.Equal(t, 3, captured.PieceCount)
	assert.Equal(t, "FB-2024-000789", captured.Barcode)
}

func TestClient_CreateShipment_TransportError(t *testing.T) {
	mockAPI := ptt.NewMockAPIClient()
	mockAPI.SimulateErrors = true

	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeUnavailable, res.Code)
}

func TestClient_CancelShipment_ZeroErrorCodeIsSuccess(t *testing.T) {
	mockAPI := ptt.NewMockAPIClient()
	zero := 0
	mockAPI.OnDeleteBarcode = func(ctx context.Context, barcode string) (*ptt.DeleteResponse, error) {
		return &ptt.DeleteResponse{HataKodu: &zero, Aciklama: "Islem basarili"}, nil
	}

	client := newTestClient(mockAPI)

	res := client.CancelShipment(context.Background(), "FB-2024-000789")

	require.True(t, res.Success)
	assert.Equal(t, cargo.CodeOK, res.Code)
}

func TestClient_CancelShipment_ErrorCodeIsUnprocessable(t *testing.T) {
	mockAPI := ptt.NewMockAPIClient()
	code := 5
	mockAPI.OnDeleteBarcode = func(ctx context.Context, barcode string) (*ptt.DeleteResponse, error) {
		return &ptt.DeleteResponse{HataKodu: &code, Aciklama: "KAYIT BULUNAMADI"}, nil
	}

	client := newTestClient(mockAPI)

	res := client.CancelShipment(context.Background(), "FB-2024-000789")

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeUnprocessable, res.Code)
	assert.Equal(t, "KAYIT BULUNAMADI", res.Error)
}

func TestClient_TrackShipment_NotFoundIsPending(t *testing.T) {
	mockAPI := ptt.NewMockAPIClient()
	mockAPI.OnQueryShipment = func(ctx context.Context, barcode string) (*ptt.QueryResponse, error) {
		return &ptt.QueryResponse{Found: false}, nil
	}

	client := newTestClient(mockAPI)

	res := client.TrackShipment(context.Background(), "FB-2024-000789")

	require.True(t, res.Success)
	assert.Equal(t, cargo.StatusPending, res.Status)
	assert.Equal(t, "preparing", res.Message)
}

func TestClient_TrackShipment_DeliveredByTesAlan(t *testing.T) {
	mockAPI := ptt.NewMockAPIClient()
	mockAPI.OnQueryShipment = func(ctx context.Context, barcode string) (*ptt.QueryResponse, error) {
		return &ptt.QueryResponse{
			Found: true,
			Record: ptt.ShipmentRecord{
				Barcode:      barcode,
				StatusText:   "TESLIM EDILDI",
				TesAlan:      "FATMA DEMIR",
				DeliveryDate: "16.03.2024 11:05",
				Events: []ptt.ShipmentEvent{
					{Date: "15.03.2024 09:12", Description: "KABUL", Unit: "ISTANBUL AVR. PIM"},
					{Date: "16.03.2024 11:05", Description: "TESLIM", Unit: "CANKAYA PM"},
				},
			},
		}, nil
	}

	client := newTestClient(mockAPI)

	res := client.TrackShipment(context.Background(), "FB-2024-000789")

	require.True(t, res.Success)
	assert.Equal(t, cargo.StatusDelivered, res.Status)
	assert.Len(t, res.Events, 2)
	require.NotNil(t, res.Timestamp)
	assert.Equal(t, 16, res.Timestamp.Day())
}

func TestClient_TrackShipment_InTransitWithoutTesAlan(t *testing.T) {
	mockAPI := ptt.NewMockAPIClient()

	client := newTestClient(mockAPI)

	res := client.TrackShipment(context.Background(), "FB-2024-000789")

	require.True(t, res.Success)
	assert.Equal(t, cargo.StatusInTransit, res.Status)
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, cargo.StatusDelivered, ptt.NormalizeStatus(true, true))
	assert.Equal(t, cargo.StatusDelivered, ptt.NormalizeStatus(true, false))
	assert.Equal(t, cargo.StatusInTransit, ptt.NormalizeStatus(false, true))
	assert.Equal(t, cargo.StatusShipped, ptt.NormalizeStatus(false, false))
}

func TestClient_GetLabel_NoLabel(t *testing.T) {
	client := newTestClient(ptt.NewMockAPIClient())

	label, err := client.GetLabel(context.Background(), "FB-2024-000789")

	require.NoError(t, err)
	assert.Nil(t, label)
}

func TestClient_Name(t *testing.T) {
	client := newTestClient(ptt.NewMockAPIClient())
	assert.Equal(t, "ptt", client.Name())
}

func TestClient_Available(t *testing.T) {
	logger := otelzap.New(zap.NewNop())

	unconfigured := ptt.New(ptt.Config{}, logger, nil)
	assert.False(t, unconfigured.Available())

	configured := ptt.New(ptt.Config{
		CustomerID:  "555000",
		Username:    "farmaborsa",
		Password:    "secret",
		EndpointURL: "https://pttws.ptt.gov.tr/PttVerileriDuzeltmeServis/services",
	}, logger, nil)
	assert.True(t, configured.Available())
}
