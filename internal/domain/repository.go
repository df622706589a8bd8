package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// DirectoryRepository reads the market directory from the managed backend.
// Implementations normalize listing status before returning rows.
type DirectoryRepository interface {
	// ListListings returns every vendor listing joined with its vendor and product.
	ListListings(ctx context.Context) ([]ListingRow, error)

	// ListVendorListings returns all listings of a single vendor.
	ListVendorListings(ctx context.Context, vendorID uuid.UUID) ([]ListingRow, error)

	// ListStallsByVendor returns stall records for the given vendors.
	// Vendors without a stall record are simply absent from the result.
	ListStallsByVendor(ctx context.Context, vendorIDs []uuid.UUID) ([]Stall, error)

	// GetVendor returns ErrVendorNotFound when no profile has the id.
	GetVendor(ctx context.Context, vendorID uuid.UUID) (*Vendor, error)

	// GetVendorByAuthUser returns ErrVendorNotFound when the auth user owns no profile.
	GetVendorByAuthUser(ctx context.Context, authUserID string) (*Vendor, error)
}

// SessionVerifier exchanges a bearer access token for a session
type SessionVerifier interface {
	VerifyToken(ctx context.Context, accessToken string) (*Session, error)
}
