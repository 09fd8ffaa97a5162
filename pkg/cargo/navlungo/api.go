package navlungo

import (
	"context"
)

// APIClient defines the interface for Navlungo API operations.
type APIClient interface {
	// CreatePost creates a shipment post.
	CreatePost(ctx context.Context, req *PostRequest) (*PostResponse, error)

	// CancelPost cancels a shipment post.
	CancelPost(ctx context.Context, postID string) (*CancelResponse, error)

	// TrackPost fetches tracking state for a post.
	TrackPost(ctx context.Context, postID string) (*TrackResponse, error)

	// GetLabel fetches the shipping label for a post.
	GetLabel(ctx context.Context, postID string) (*LabelResponse, error)
}

// ============================================================================
// API Request/Response Types (match the Navlungo REST API structure)
// ============================================================================

// Package is one physical parcel. Navlungo wants one package object per
// unit, not a quantity field.
type Package struct {
	WeightKg float64 `json:"weight"`
	Desi     float64 `json:"desi"`
	Content  string  `json:"content"`
}

// PostAddress is the receiver block of a post.
type PostAddress struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	District string `json:"district"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
}

// PostRequest is the create-a-post payload.
type PostRequest struct {
	ReferenceID   string      `json:"referenceId"`
	Receiver      PostAddress `json:"receiver"`
	Packages      []Package   `json:"packages"`
	Description   string      `json:"description,omitempty"`
	PayorIsSender bool        `json:"payorIsSender"`
}

// PostResponse is the create-a-post result.
type PostResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    PostData `json:"data,omitempty"`
}

// PostData carries the identifiers of a created post.
type PostData struct {
	PostID         string `json:"postId"`
	TrackingNumber string `json:"trackingNumber"`
	LabelURL       string `json:"labelUrl,omitempty"`
}

// CancelResponse is the cancel result.
type CancelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TrackResponse is the tracking result. Found is false on a 404, which
// Navlungo returns until the post enters its network.
type TrackResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Found   bool      `json:"-"`
	Data    TrackData `json:"data,omitempty"`
}

// TrackData carries the post state. Status uses Navlungo's numeric
// status enum.
type TrackData struct {
	PostID            string       `json:"postId"`
	TrackingNumber    string       `json:"trackingNumber"`
	Status            int          `json:"status"`
	StatusDescription string       `json:"statusDescription"`
	Location          string       `json:"location,omitempty"`
	Events            []TrackEvent `json:"events,omitempty"`
}

// TrackEvent is one movement entry.
type TrackEvent struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}

// LabelResponse is the label result.
type LabelResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    LabelData `json:"data,omitempty"`
}

// LabelData carries the label document. Base64 holds the raw document
// when Navlungo inlines it instead of linking it.
type LabelData struct {
	Format string `json:"format"`
	URL    string `json:"url,omitempty"`
	Base64 string `json:"base64,omitempty"`
}

// loginRequest is the auth payload.
type loginRequest struct {
	Username string `json:"userName"`
	Password string `json:"password"`
}

// loginResponse is the auth result. ExpiresIn is in seconds.
type loginResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// APIError represents an error from the Navlungo API.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Description
}
