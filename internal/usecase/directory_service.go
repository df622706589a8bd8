package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mapalengke/backend/internal/domain"
	"go.uber.org/zap"
)

// listingsCacheKey holds the anonymous listing join shared by every browse request
const listingsCacheKey = "listings:all"

// DirectoryServiceConfig holds configuration for the directory service
type DirectoryServiceConfig struct {
	CacheTTL   time.Duration
	MarketName string
}

// BrowseRequest selects a category and an ordering
type BrowseRequest struct {
	Category string
	Sort     SortMode
}

// BrowseResult is the sorted vendor directory for one category
type BrowseResult struct {
	Category string                 `json:"category"`
	Sort     SortMode               `json:"sort"`
	Vendors  []domain.VendorSummary `json:"vendors"`
	Total    int                    `json:"total"`
}

// DirectoryService answers directory queries over the managed backend
type DirectoryService struct {
	repo       domain.DirectoryRepository
	cache      domain.CacheRepository
	logger     *zap.Logger
	cacheTTL   time.Duration
	marketName string
}

// NewDirectoryService creates a new directory service with dependencies.
// cache may be nil, in which case every request reads the backend.
func NewDirectoryService(
	repo domain.DirectoryRepository,
	cache domain.CacheRepository,
	logger *zap.Logger,
	config DirectoryServiceConfig,
) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	marketName := config.MarketName
	if marketName == "" {
		marketName = DefaultMarketName
	}

	return &DirectoryService{
		repo:       repo,
		cache:      cache,
		logger:     logger.Named("directory"),
		cacheTTL:   cacheTTL,
		marketName: marketName,
	}
}

// BrowseCategory returns the vendors selling in a category.
// Flow: listings (cache -> backend) -> aggregate -> stall overlay -> profile fallback -> sort
func (s *DirectoryService) BrowseCategory(ctx context.Context, request BrowseRequest) (*BrowseResult, error) {
	if strings.TrimSpace(request.Category) == "" {
		return nil, fmt.Errorf("%w: category is required", domain.ErrInvalidRequest)
	}

	mode := request.Sort
	if mode == "" {
		mode = SortAlpha
	}

	// browse reads are shared through the cache and never carry the caller's session
	public := domain.WithoutSession(ctx)

	rows, err := s.listings(public)
	if err != nil {
		return nil, err
	}

	agg := Aggregate(rows, request.Category)
	s.logger.Debug("aggregated listings",
		zap.String("category", request.Category),
		zap.Int("rows", len(rows)),
		zap.Int("vendors", agg.Len()))

	if agg.Len() > 0 {
		stalls, err := s.repo.ListStallsByVendor(public, agg.VendorIDs())
		if err != nil {
			// vendors are still listed, stalls come from their profiles
			s.logger.Warn("stall lookup failed", zap.Error(err))
		} else {
			agg.ApplyStalls(stalls)
		}
	}
	agg.ApplyProfileFallback(s.marketName)

	vendors := SortVendors(agg.Summaries(), mode)
	return &BrowseResult{
		Category: domain.NormalizeCategory(request.Category),
		Sort:     mode,
		Vendors:  vendors,
		Total:    len(vendors),
	}, nil
}

// VendorDetails returns a vendor with its stall and currently available
// products, optionally filtered by a case-insensitive product name query
func (s *DirectoryService) VendorDetails(ctx context.Context, vendorID, query string) (*domain.VendorDetails, error) {
	id, err := uuid.Parse(strings.TrimSpace(vendorID))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vendor id", domain.ErrInvalidRequest)
	}

	vendor, err := s.repo.GetVendor(ctx, id)
	if err != nil {
		return nil, wrapBackend(err)
	}

	rows, err := s.repo.ListVendorListings(ctx, id)
	if err != nil {
		return nil, wrapBackend(err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	products := make([]domain.ProductListing, 0, len(rows))
	for _, row := range rows {
		if !row.Status.IsAvailable() {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(row.Product.Name), needle) {
			continue
		}
		products = append(products, toProductListing(row))
	}

	return &domain.VendorDetails{
		ID:           vendor.ID,
		BusinessName: vendor.BusinessName,
		PhoneNumber:  vendor.PhoneNumber,
		Stall:        s.stallFor(ctx, *vendor),
		Products:     products,
	}, nil
}

// Categories returns the browsing menu
func (s *DirectoryService) Categories() []domain.Category {
	return domain.Categories()
}

// Dashboard returns the signed-in vendor's shop and listing counts.
// The session must be attached to ctx.
func (s *DirectoryService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	session, ok := domain.SessionFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	vendor, err := s.repo.GetVendorByAuthUser(ctx, session.AuthUserID)
	if err != nil {
		return nil, wrapBackend(err)
	}

	rows, err := s.repo.ListVendorListings(ctx, vendor.ID)
	if err != nil {
		return nil, wrapBackend(err)
	}

	var stats domain.ListingStats
	products := make([]domain.ProductListing, 0, len(rows))
	for _, row := range rows {
		stats.Total++
		if row.Status.IsAvailable() {
			stats.Active++
		} else {
			stats.Inactive++
		}
		products = append(products, toProductListing(row))
	}

	return &domain.Dashboard{
		Vendor: domain.VendorDetails{
			ID:           vendor.ID,
			BusinessName: vendor.BusinessName,
			PhoneNumber:  vendor.PhoneNumber,
			Stall:        s.stallFor(ctx, *vendor),
			Products:     products,
		},
		Stats: stats,
	}, nil
}

// listings returns the listing join, served from cache when possible.
// ctx must not carry a session.
func (s *DirectoryService) listings(ctx context.Context) ([]domain.ListingRow, error) {
	if s.cache != nil {
		if value, err := s.cache.Get(ctx, listingsCacheKey); err == nil {
			if rows, ok := value.([]domain.ListingRow); ok {
				return rows, nil
			}
		}
	}

	rows, err := s.repo.ListListings(ctx)
	if err != nil {
		return nil, wrapBackend(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, listingsCacheKey, rows, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache listings", zap.Error(err))
		}
	}
	return rows, nil
}

// stallFor resolves a single vendor's stall: stall table first, then profile
func (s *DirectoryService) stallFor(ctx context.Context, vendor domain.Vendor) *domain.StallInfo {
	stalls, err := s.repo.ListStallsByVendor(ctx, []uuid.UUID{vendor.ID})
	if err != nil {
		s.logger.Warn("stall lookup failed", zap.String("vendor_id", vendor.ID.String()), zap.Error(err))
	}
	for _, stall := range stalls {
		if stall.VendorID == vendor.ID {
			return &domain.StallInfo{
				StallNumber:         stall.StallNumber,
				LocationDescription: stall.LocationDescription,
			}
		}
	}
	return stallFromProfile(vendor, s.marketName)
}

func toProductListing(row domain.ListingRow) domain.ProductListing {
	return domain.ProductListing{
		ID:           row.ID,
		ProductID:    row.Product.ID,
		Name:         row.Product.Name,
		Description:  row.Product.Description,
		CategoryName: row.Product.CategoryName,
		Price:        row.Price,
		UOM:          row.UOM,
		Status:       row.Status,
		Kind:         ClassifyProductKind(row.Product.Name, row.Product.CategoryName),
	}
}

// wrapBackend keeps the domain sentinels callers branch on and marks
// everything else as a backend failure
func wrapBackend(err error) error {
	switch {
	case errors.Is(err, domain.ErrVendorNotFound),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrBackendFailure),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrBackendFailure, err)
	}
}
