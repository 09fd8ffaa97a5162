package navlungo_test

import (
	"context"
	"testing"

	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/farmaborsa/cargo/pkg/cargo/navlungo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockClient *navlungo.MockAPIClient) *navlungo.Client {
	logger := otelzap.New(zap.NewNop())
	return navlungo.NewWithAPIClient(
		navlungo.Config{},
		mockClient,
		logger,
		nil,
	)
}

func testRequest() *cargo.ShipmentRequest {
	return &cargo.ShipmentRequest{
		ReferenceID: "FB-2024-000654",
		Sender: cargo.Party{
			Name:  "Sifa Eczanesi",
			City:  "Istanbul",
			Phone: "02163334455",
		},
		Receiver: cargo.Party{
			Name:     "Lokman Eczanesi",
			Address:  "Bagdat Cad. 210",
			City:     "Istanbul",
			District: "Kadikoy",
			Phone:    "02165554433",
			Email:    "lokman@example.com",
		},
		Items: []cargo.Item{
			{Description: "Antibiyotik surup", Quantity: 3, WeightKg: 0.4, Desi: 0.9},
			{Description: "Bandaj seti", Quantity: 1, WeightKg: 0.7, Desi: 1.5},
		},
		Payer:              cargo.PayerSender,
		ContentDescription: "Ilac ve sarf malzeme",
	}
}

func TestClient_CreateShipment_Success(t *testing.T) {
	mockAPI := navlungo.NewMockAPIClient()
	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.True(t, res.Success)
	assert.Equal(t, cargo.CodeOK, res.Code)
	assert.Equal(t, "NVLFB-2024-000654", res.TrackingNumber)
}

func TestClient_CreateShipment_ExpandsPackagesPerUnit(t *testing.T) {
	mockAPI := navlungo.NewMockAPIClient()
	var captured *navlungo.PostRequest
	mockAPI.OnCreatePost = func(ctx context.Context, req *navlungo.PostRequest) (*navlungo.PostResponse, error) {
		captured = req
		return &navlungo.PostResponse{Success: true, Data: navlungo.PostData{PostID: req.ReferenceID}}, nil
	}

	client := newTestClient(mockAPI)
	client.CreateShipment(context.Background(), testRequest())

	require.NotNil(t, captured)
	// 3 units of the first line plus 1 of the second, one package each.
	require.Len(t, captured.Packages, 4)
	assert.InDelta(t, 0.4, captured.Packages[0].WeightKg, 0.001)
	assert.InDelta(t, 0.4, captured.Packages[2].WeightKg, 0.001)
	assert.InDelta(t, 0.7, captured.Packages[3].WeightKg, 0.001)
	assert.True(t, captured.PayorIsSender)
}

func TestClient_CreateShipment_APIFailure(t *testing.T) {
	mockAPI := navlungo.NewMockAPIClient()
	mockAPI.OnCreatePost = func(ctx context.Context, req *navlungo.PostRequest) (*navlungo.PostResponse, error) {
		return &navlungo.PostResponse{Success: false, Message: "Invalid receiver district"}, nil
	}

	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeBadRequest, res.Code)
	assert.Equal(t, "Invalid receiver district", res.Error)
}

func TestClient_CreateShipment_TransportError(t *testing.T) {
	mockAPI := navlungo.NewMockAPIClient()
	mockAPI.SimulateErrors = true

	client := newTestClient(mockAPI)

	res := client.CreateShipment(context.Background(), testRequest())

	require.False(t, res.Success)
	assert.Equal(t, cargo.CodeUnavailable, res.Code)
}

func TestClient_CancelShipment_Idempotent(t *testing.T) {
	mockAPI := navlungo.NewMockAPIClient()
	cancelled := false
	mockAPI.OnCancelPost = func(ctx context.Context, postID string) (*navlungo.CancelResponse, error) {
		if cancelled {
			return &navlungo.CancelResponse{Success: false, Message: "Post already cancelled"}, nil
		}
		cancelled = true
		return &navlungo.CancelResponse{Success: true}, nil
	}

	client := newTestClient(mockAPI)

	first := client.CancelShipment(context.Background(), "NP-FB-2024-000654")
	require.True(t, first.Success)

	second := client.CancelShipment(context.Background(), "NP-FB-2024-000654")
	require.False(t, second.Success)
	assert.Equal(t, cargo.CodeUnprocessable, second.Code)
}

func TestClient_TrackShipment_NotFoundIsPending(t *testing.T) {
	mockAPI := navlungo.NewMockAPIClient()
	mockAPI.OnTrackPost = func(ctx context.Context, postID string) (*navlungo.TrackResponse, error) {
		return &navlungo.TrackResponse{Found: false}, nil
	}

	client := newTestClient(mockAPI)

	res := client.TrackShipment(context.Background(), "NP-FB-2024-000654")

	require.True(t, res.Success)
	assert.Equal(t, cargo.StatusPending, res.Status)
	assert.Equal(t, "preparing", res.Message)
}

func TestClient_TrackShipment_MapsStatusAndEvents(t *testing.T) {
	mockAPI := navlungo.NewMockAPIClient()
	mockAPI.OnTrackPost = func(ctx context.Context, postID string) (*navlungo.TrackResponse, error) {
		return &navlungo.TrackResponse{
			Success: true,
			Found:   true,
			Data: navlungo.TrackData{
				PostID:            postID,
				TrackingNumber:    "NVL000654",
				Status:            6,
				StatusDescription: "Delivered",
				Events: []navlungo.TrackEvent{
					{Timestamp: "2024-03-15T09:00:00Z", Description: "Picked up", Location: "Istanbul"},
					{Timestamp: "2024-03-16T14:30:00Z", Description: "Delivered", Location: "Kadikoy"},
				},
			},
		}, nil
	}

	client := newTestClient(mockAPI)

	res := client.TrackShipment(context.Background(), "NP-FB-2024-000654")

	require.True(t, res.Success)
	assert.Equal(t, cargo.StatusDelivered, res.Status)
	require.Len(t, res.Events, 2)
	assert.Equal(t, "Picked up", res.Events[0].Description)
	assert.Equal(t, 2024, res.Events[0].Timestamp.Year())
}

func TestClient_GetLabel_HostedURL(t *testing.T) {
	mockAPI := navlungo.NewMockAPIClient()

	client := newTestClient(mockAPI)

	label, err := client.GetLabel(context.Background(), "NP-FB-2024-000654")

	require.NoError(t, err)
	require.NotNil(t, label)
	assert.Equal(t, cargo.LabelPDF, label.Format)
	assert.Contains(t, label.URL, "NP-FB-2024-000654")
}

func TestClient_GetLabel_InlineDocument(t *testing.T) {
	mockAPI := navlungo.NewMockAPIClient()
	mockAPI.OnGetLabel = func(ctx context.Context, postID string) (*navlungo.LabelResponse, error) {
		return &navlungo.LabelResponse{
			Success: true,
			Data: navlungo.LabelData{
				Format: "zpl",
				Base64: "XkZEZXRpa2V0Xg==", // "^FDetiket^"
			},
		}, nil
	}

	client := newTestClient(mockAPI)

	label, err := client.GetLabel(context.Background(), "NP-FB-2024-000654")

	require.NoError(t, err)
	require.NotNil(t, label)
	assert.Equal(t, cargo.LabelZPL, label.Format)
	assert.Equal(t, []byte("^FDetiket^"), label.Data)
}

func TestClient_GetLabel_NotReady(t *testing.T) {
	mockAPI := navlungo.NewMockAPIClient()
	mockAPI.OnGetLabel = func(ctx context.Context, postID string) (*navlungo.LabelResponse, error) {
		return &navlungo.LabelResponse{Success: false}, nil
	}

	client := newTestClient(mockAPI)

	label, err := client.GetLabel(context.Background(), "NP-FB-2024-000654")

	require.NoError(t, err)
	assert.Nil(t, label)
}

func TestClient_Name(t *testing.T) {
	client := newTestClient(navlungo.NewMockAPIClient())
	assert.Equal(t, "navlungo", client.Name())
}

func TestClient_Available(t *testing.T) {
	logger := otelzap.New(zap.NewNop())

	unconfigured := navlungo.New(navlungo.Config{}, logger, nil)
	assert.False(t, unconfigured.Available())

	configured := navlungo.New(navlungo.Config{
		Username: "farmaborsa",
		Password: "secret",
		BaseURL:  "https://api.navlungo.com",
	}, logger, nil)
	assert.True(t, configured.Available())
}
