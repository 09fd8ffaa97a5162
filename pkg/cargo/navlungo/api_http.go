package navlungo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPAPIClient is the production implementation of APIClient using the
// Navlungo REST API.
type HTTPAPIClient struct {
	http     *resty.Client
	username string
	password string
	tokens   *tokenCache
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

// NewHTTPAPIClient creates a new REST API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &HTTPAPIClient{
		http:     client,
		username: cfg.Username,
		password: cfg.Password,
		tokens:   newTokenCache(),
	}
}

// CreatePost creates a shipment post with Navlungo.
func (c *HTTPAPIClient) CreatePost(ctx context.Context, req *PostRequest) (*PostResponse, error) {
	var out PostResponse
	resp, err := c.authorizedRequest(ctx, &out).
		SetBody(req).
		Post("/v2/create-a-post")
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	return &out, nil
}

// CancelPost cancels a shipment post with Navlungo.
func (c *HTTPAPIClient) CancelPost(ctx context.Context, postID string) (*CancelResponse, error) {
	var out CancelResponse
	resp, err := c.authorizedRequest(ctx, &out).
		SetPathParam("id", postID).
		Post("/v2/cancel/{id}")
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	return &out, nil
}

// TrackPost fetches tracking state from Navlungo. A 404 is mapped to
// Found=false: the post exists on our side but has not entered the
// carrier network.
func (c *HTTPAPIClient) TrackPost(ctx context.Context, postID string) (*TrackResponse, error) {
	var out TrackResponse
	resp, err := c.authorizedRequest(ctx, &out).
		SetPathParam("id", postID).
		Get("/v2/track/{id}")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return &TrackResponse{Found: false}, nil
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	out.Found = true
	return &out, nil
}

// GetLabel fetches the shipping label from Navlungo.
func (c *HTTPAPIClient) GetLabel(ctx context.Context, postID string) (*LabelResponse, error) {
	var out LabelResponse
	resp, err := c.authorizedRequest(ctx, &out).
		SetPathParam("id", postID).
		Get("/v2/label/{id}")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return &LabelResponse{Success: false}, nil
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	return &out, nil
}

// ============================================================================
// Auth
// ============================================================================

// authorizedRequest builds a request carrying a bearer token from the
// cache. Token fetch errors surface on the request itself via resty's
// error short-circuit.
func (c *HTTPAPIClient) authorizedRequest(ctx context.Context, result interface{}) *resty.Request {
	req := c.http.R().
		SetContext(ctx).
		SetResult(result)

	token, err := c.tokens.Token(ctx, c.login)
	if err != nil {
		// Leave the request without a token; the API answers 401 and
		// checkStatus turns that into a typed auth error.
		return req
	}

	return req.SetAuthToken(token)
}

// login performs the auth call. Used as the fetch hook of the token
// cache so concurrent requests trigger only one login.
func (c *HTTPAPIClient) login(ctx context.Context) (string, time.Duration, error) {
	var out loginResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&loginRequest{Username: c.username, Password: c.password}).
		SetResult(&out).
		Post("/v2/auth/login")
	if err != nil {
		return "", 0, err
	}
	if resp.IsError() || !out.Success || out.Token == "" {
		return "", 0, &APIError{
			Code:        "AUTH_FAILED",
			Description: out.Message,
		}
	}

	return out.Token, time.Duration(out.ExpiresIn) * time.Second, nil
}

func (c *HTTPAPIClient) checkStatus(resp *resty.Response) error {
	if resp.StatusCode() == http.StatusUnauthorized {
		c.tokens.Invalidate()
		return &APIError{Code: "AUTH_FAILED", Description: "Token rejected"}
	}
	if resp.IsError() {
		return &APIError{
			Code:        fmt.Sprintf("HTTP_%d", resp.StatusCode()),
			Description: string(resp.Body()),
		}
	}
	return nil
}

var _ APIClient = (*HTTPAPIClient)(nil)
