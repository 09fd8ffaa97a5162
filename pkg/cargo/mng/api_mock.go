package mng

import (
	"context"
	"fmt"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCreateOrder func(ctx context.Context, req *OrderRequest) (*OrderResponse, error)
	OnCancelOrder func(ctx context.Context, orderNo string) (*CancelResponse, error)
	OnQueryOrder  func(ctx context.Context, orderNo string) (*QueryResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// CreateOrder registers a mock order.
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

	return &OrderResponse{Result: "1"}, nil
}

// CancelOrder cancels a mock order.
func (m *MockAPIClient) CancelOrder(ctx context.Context, orderNo string) (*CancelResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnCancelOrder != nil {
		return m.OnCancelOrder(ctx, orderNo)
	}

	return &CancelResponse{Result: "1"}, nil
}

// QueryOrder fetches mock order state.
func (m *MockAPIClient) QueryOrder(ctx context.Context, orderNo string) (*QueryResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnQueryOrder != nil {
		return m.OnQueryOrder(ctx, orderNo)
	}

	return &QueryResponse{
		Found: true,
		Record: QueryRecord{
			SiparisNo:     orderNo,
			KargoNo:       fmt.Sprintf("88%09d", time.Now().UnixNano()%1000000000),
			Durum:         2,
			DurumAciklama: "YOLDA",
			Kg:            1.2,
			Desi:          2.0,
			Sehir:         "ANKARA",
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
