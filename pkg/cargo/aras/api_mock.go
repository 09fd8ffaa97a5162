package aras

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnSaveOrder     func(ctx context.Context, req *SaveOrderRequest) (*SaveOrderResponse, error)
	OnDeleteOrder   func(ctx context.Context, integrationCode string) (*DeleteOrderResponse, error)
	OnQueryShipment func(ctx context.Context, integrationCode string) (*QueryResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// SaveOrder registers a mock shipment order.
func (m *MockAPIClient) SaveOrder(ctx context.Context, req *SaveOrderRequest) (*SaveOrderResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnSaveOrder != nil {
		return m.OnSaveOrder(ctx, req)
	}

	return &SaveOrderResponse{
		Result:         1,
		Message:        "Siparis kaydedildi",
		TrackingNumber: fmt.Sprintf("74%011d", time.Now().UnixNano()%100000000000),
	}, nil
}

// DeleteOrder cancels a mock shipment order.
func (m *MockAPIClient) DeleteOrder(ctx context.Context, integrationCode string) (*DeleteOrderResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnDeleteOrder != nil {
		return m.OnDeleteOrder(ctx, integrationCode)
	}

	return &DeleteOrderResponse{
		Result:  1,
		Message: "Siparis iptal edildi",
	}, nil
}

// QueryShipment fetches mock shipment movement records.
func (m *MockAPIClient) QueryShipment(ctx context.Context, integrationCode string) (*QueryResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnQueryShipment != nil {
		return m.OnQueryShipment(ctx, integrationCode)
	}

	return &QueryResponse{
		Records: []QueryRecord{
			{
				StatusCode:     7,
				TypeCode:       1,
				TrackingNumber: "74" + uuid.New().String()[:9],
				StatusText:     "YOLDA",
				WeightDesi:     2.5,
				Amount:         64.90,
				EventDate:      time.Now().Format("02.01.2006"),
				Unit:           "ISTANBUL AVR. TRANSFER MERKEZI",
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
