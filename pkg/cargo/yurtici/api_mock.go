package yurtici

import (
	"context"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCreateOrder func(ctx context.Context, req *OrderRequest) (*OrderResponse, error)
	OnCancelOrder func(ctx context.Context, cargoKey string) (*OrderResponse, error)
	OnQueryOrder  func(ctx context.Context, cargoKey string) (*QueryResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// CreateOrder registers a mock shipping order.
func (m *MockAPIClient) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnCreateOrder != nil {
		return m.OnCreateOrder(ctx, req)
	}

	return &OrderResponse{OutFlag: "0", OutResult: "Basarili", JobID: "900100"}, nil
}

// CancelOrder cancels a mock shipping order.
func (m *MockAPIClient) CancelOrder(ctx context.Context, cargoKey string) (*OrderResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnCancelOrder != nil {
		return m.OnCancelOrder(ctx, cargoKey)
	}

	return &OrderResponse{OutFlag: "0", OutResult: "Basarili"}, nil
}

// QueryOrder fetches mock shipping order state.
func (m *MockAPIClient) QueryOrder(ctx context.Context, cargoKey string) (*QueryResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnQueryOrder != nil {
		return m.OnQueryOrder(ctx, cargoKey)
	}

	return &QueryResponse{
		Found: true,
		Record: DocumentRecord{
			CargoKey:         cargoKey,
			TrackingNumber:   "660012345678",
			OperationCode:    OperationInTransit,
			OperationMessage: "YOLDA",
			Kg:               1.5,
			Desi:             2.0,
			Unit:             "ANKARA BOLGE",
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
