package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mapalengke/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// PostgREST embed selections for the directory tables
const (
	vendorColumns  = "id,auth_user_id,business_name,phone_number,stall_number,complete_address"
	listingSelect  = "id,vendor_id,status,price,uom,vendor_profiles!inner(" + vendorColumns + "),products!inner(id,name,description,category_id,product_categories(name))"
	stallSelect    = "vendor_profile_id,stall_number,location_description"
	clientInfo     = "mapalengke-backend/1.0.0"
	maxErrorBodyKB = 4
)

// Config holds connection settings for the managed backend
type Config struct {
	BaseURL           string
	AnonKey           string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	MaxRetries        int
}

// Client reads the directory from Supabase through its REST (PostgREST) and
// auth (GoTrue) endpoints
type Client struct {
	httpClient  *http.Client
	baseURL     string
	anonKey     string
	rateLimiter *rate.Limiter
	maxRetries  int
	logger      *zap.Logger
}

// NewClient creates a new Supabase client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		anonKey:     cfg.AnonKey,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxRetries:  cfg.MaxRetries,
		logger:      logger.Named("supabase"),
	}
}

// exponentialBackoff returns the wait before retrying after the given attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// retryable reports whether a response status is worth another attempt
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// bearerFor returns the token the request should carry: the session's access
// token when the context has one, else the anon key
func (c *Client) bearerFor(ctx context.Context) string {
	if session, ok := domain.SessionFromContext(ctx); ok && session.AccessToken != "" {
		return session.AccessToken
	}
	return c.anonKey
}

// get executes a GET with rate limiting and retries and returns the body of a 200 response
func (c *Client) get(ctx context.Context, path string, params url.Values, bearer string) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.doRequest(ctx, reqURL, bearer)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("request failed", zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
			lastErr = fmt.Errorf("%w: %v", domain.ErrBackendFailure, err)
		case status == http.StatusOK:
			return body, nil
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return nil, fmt.Errorf("%w: status %d", domain.ErrUnauthorized, status)
		case !retryable(status):
			return nil, fmt.Errorf("%w: status %d: %s", domain.ErrBackendFailure, status, truncate(body))
		default:
			c.logger.Warn("backend error",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Int("status", status),
				zap.String("body", truncate(body)))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrBackendFailure, status)
		}

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt)):
			}
		}
	}

	c.logger.Error("all retries failed", zap.String("path", path), zap.Error(lastErr))
	return nil, lastErr
}

// doRequest executes an HTTP GET request with the Supabase headers
func (c *Client) doRequest(ctx context.Context, reqURL, bearer string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Info", clientInfo)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBodyKB*1024 {
		body = body[:maxErrorBodyKB*1024]
	}
	return string(body)
}

// ListListings returns every vendor listing joined with vendor and product
func (c *Client) ListListings(ctx context.Context) ([]domain.ListingRow, error) {
	params := url.Values{}
	params.Set("select", listingSelect)

	return c.fetchListings(ctx, params)
}

// ListVendorListings returns all listings of one vendor
func (c *Client) ListVendorListings(ctx context.Context, vendorID uuid.UUID) ([]domain.ListingRow, error) {
	params := url.Values{}
	params.Set("select", listingSelect)
	params.Set("vendor_id", "eq."+vendorID.String())
	params.Set("order", "created_at.desc")

	return c.fetchListings(ctx, params)
}

func (c *Client) fetchListings(ctx context.Context, params url.Values) ([]domain.ListingRow, error) {
	body, err := c.get(ctx, "/rest/v1/vendor_products", params, c.bearerFor(ctx))
	if err != nil {
		return nil, err
	}

	var records []listingRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: failed to decode listings: %v", domain.ErrBackendFailure, err)
	}

	rows, stats := mapListings(records)
	if stats.Skipped > 0 {
		c.logger.Warn("skipped listings with invalid ids", zap.Int("skipped", stats.Skipped))
	}
	if stats.Malformed > 0 {
		c.logger.Warn("listings with undecodable embeds", zap.Int("malformed", stats.Malformed))
	}
	c.logger.Debug("fetched listings", zap.Int("rows", len(rows)))
	return rows, nil
}

// ListStallsByVendor returns stall records for the given vendors
func (c *Client) ListStallsByVendor(ctx context.Context, vendorIDs []uuid.UUID) ([]domain.Stall, error) {
	if len(vendorIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(vendorIDs))
	for i, id := range vendorIDs {
		ids[i] = id.String()
	}

	params := url.Values{}
	params.Set("select", stallSelect)
	params.Set("vendor_profile_id", "in.("+strings.Join(ids, ",")+")")

	body, err := c.get(ctx, "/rest/v1/stalls", params, c.bearerFor(ctx))
	if err != nil {
		return nil, err
	}

	var records []stallRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: failed to decode stalls: %v", domain.ErrBackendFailure, err)
	}
	return mapStalls(records), nil
}

// GetVendor returns the vendor profile with the given id
func (c *Client) GetVendor(ctx context.Context, vendorID uuid.UUID) (*domain.Vendor, error) {
	return c.findVendor(ctx, "id", vendorID.String())
}

// GetVendorByAuthUser returns the vendor profile owned by an auth user
func (c *Client) GetVendorByAuthUser(ctx context.Context, authUserID string) (*domain.Vendor, error) {
	if authUserID == "" {
		return nil, domain.ErrVendorNotFound
	}
	return c.findVendor(ctx, "auth_user_id", authUserID)
}

func (c *Client) findVendor(ctx context.Context, column, value string) (*domain.Vendor, error) {
	params := url.Values{}
	params.Set("select", vendorColumns)
	params.Set(column, "eq."+value)
	params.Set("limit", "1")

	body, err := c.get(ctx, "/rest/v1/vendor_profiles", params, c.bearerFor(ctx))
	if err != nil {
		return nil, err
	}

	var records []vendorRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: failed to decode vendor: %v", domain.ErrBackendFailure, err)
	}
	if len(records) == 0 {
		return nil, domain.ErrVendorNotFound
	}

	vendor, err := records[0].toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendFailure, err)
	}
	return &vendor, nil
}

// authUser is the subset of the GoTrue user object we read
type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// VerifyToken exchanges a user access token for a session via the auth API
func (c *Client) VerifyToken(ctx context.Context, accessToken string) (*domain.Session, error) {
	if accessToken == "" {
		return nil, domain.ErrUnauthorized
	}

	body, err := c.get(ctx, "/auth/v1/user", nil, accessToken)
	if err != nil {
		return nil, err
	}

	var user authUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode user: %v", domain.ErrBackendFailure, err)
	}
	if user.ID == "" {
		return nil, errors.Join(domain.ErrUnauthorized, errors.New("auth user has no id"))
	}

	return domain.NewSession(user.ID, user.Email, accessToken), nil
}
