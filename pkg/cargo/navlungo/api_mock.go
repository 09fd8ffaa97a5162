package navlungo

import (
	"context"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCreatePost func(ctx context.Context, req *PostRequest) (*PostResponse, error)
	OnCancelPost func(ctx context.Context, postID string) (*CancelResponse, error)
	OnTrackPost  func(ctx context.Context, postID string) (*TrackResponse, error)
	OnGetLabel   func(ctx context.Context, postID string) (*LabelResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// CreatePost creates a mock post.
func (m *MockAPIClient) CreatePost(ctx context.Context, req *PostRequest) (*PostResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnCreatePost != nil {
		return m.OnCreatePost(ctx, req)
	}

	return &PostResponse{
		Success: true,
		Data: PostData{
			PostID:         "NP-" + req.ReferenceID,
			TrackingNumber: "NVL" + req.ReferenceID,
		},
	}, nil
}

// CancelPost cancels a mock post.
func (m *MockAPIClient) CancelPost(ctx context.Context, postID string) (*CancelResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnCancelPost != nil {
		return m.OnCancelPost(ctx, postID)
	}

	return &CancelResponse{Success: true}, nil
}

// TrackPost fetches mock tracking state.
func (m *MockAPIClient) TrackPost(ctx context.Context, postID string) (*TrackResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnTrackPost != nil {
		return m.OnTrackPost(ctx, postID)
	}

	return &TrackResponse{
		Success: true,
		Found:   true,
		Data: TrackData{
			PostID:            postID,
			TrackingNumber:    "NVL" + postID,
			Status:            4,
			StatusDescription: "In transit",
			Location:          "Istanbul Hub",
		},
	}, nil
}

// GetLabel fetches a mock label.
func (m *MockAPIClient) GetLabel(ctx context.Context, postID string) (*LabelResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnGetLabel != nil {
		return m.OnGetLabel(ctx, postID)
	}

	return &LabelResponse{
		Success: true,
		Data: LabelData{
			Format: "pdf",
			URL:    "https://cdn.navlungo.com/labels/" + postID + ".pdf",
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
