package ptt

import (
	"context"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCreateAcceptance func(ctx context.Context, req *AcceptanceRequest) (*AcceptanceResponse, error)
	OnDeleteBarcode    func(ctx context.Context, barcode string) (*DeleteResponse, error)
	OnQueryShipment    func(ctx context.Context, barcode string) (*QueryResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// CreateAcceptance registers a mock shipment.
func (m *MockAPIClient) CreateAcceptance(ctx context.Context, req *AcceptanceRequest) (*AcceptanceResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnCreateAcceptance != nil {
		return m.OnCreateAcceptance(ctx, req)
	}

	// PTT leaves hataKodu null on success.
	return &AcceptanceResponse{Barcode: req.Barcode}, nil
}

// DeleteBarcode cancels a mock shipment.
func (m *MockAPIClient) DeleteBarcode(ctx context.Context, barcode string) (*DeleteResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnDeleteBarcode != nil {
		return m.OnDeleteBarcode(ctx, barcode)
	}

	zero := 0
	return &DeleteResponse{HataKodu: &zero, Aciklama: "Islem basarili"}, nil
}

// QueryShipment fetches mock shipment state.
func (m *MockAPIClient) QueryShipment(ctx context.Context, barcode string) (*QueryResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnQueryShipment != nil {
		return m.OnQueryShipment(ctx, barcode)
	}

	return &QueryResponse{
		Found: true,
		Record: ShipmentRecord{
			Barcode:    barcode,
			StatusText: "TASIMA MERKEZINDE",
			Events: []ShipmentEvent{
				{Date: "15.03.2024 09:12", Description: "KABUL", Unit: "ISTANBUL AVR. PIM"},
				{Date: "15.03.2024 21:40", Description: "YOLA CIKTI", Unit: "ISTANBUL AVR. PIM"},
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
