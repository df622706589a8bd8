package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mapalengke/backend/internal/domain"
	"github.com/shopspring/decimal"
)

const listingQuery = `
	SELECT
		vp.id                                 AS id,
		vp.vendor_id                          AS vendor_id,
		COALESCE(vp.status, '')               AS status,
		vp.price                              AS price,
		COALESCE(vp.uom, '')                  AS uom,
		COALESCE(v.auth_user_id::text, '')    AS auth_user_id,
		COALESCE(v.business_name, '')         AS business_name,
		COALESCE(v.phone_number, '')          AS phone_number,
		COALESCE(v.stall_number, '')          AS stall_number,
		COALESCE(v.complete_address, '')      AS complete_address,
		p.id                                  AS product_id,
		COALESCE(p.name, '')                  AS product_name,
		COALESCE(p.description, '')           AS product_description,
		COALESCE(pc.name, '')                 AS category_name
	FROM vendor_products vp
	JOIN vendor_profiles v ON v.id = vp.vendor_id
	JOIN products p ON p.id = vp.product_id
	LEFT JOIN product_categories pc ON pc.id = p.category_id
`

const vendorQuery = `
	SELECT
		id,
		COALESCE(auth_user_id::text, '') AS auth_user_id,
		COALESCE(business_name, '')      AS business_name,
		COALESCE(phone_number, '')       AS phone_number,
		COALESCE(stall_number, '')       AS stall_number,
		COALESCE(complete_address, '')   AS complete_address
	FROM vendor_profiles
`

// listingRow is the flat shape of listingQuery
type listingRow struct {
	ID                 uuid.UUID           `db:"id"`
	VendorID           uuid.UUID           `db:"vendor_id"`
	Status             string              `db:"status"`
	Price              decimal.NullDecimal `db:"price"`
	UOM                string              `db:"uom"`
	AuthUserID         string              `db:"auth_user_id"`
	BusinessName       string              `db:"business_name"`
	PhoneNumber        string              `db:"phone_number"`
	StallNumber        string              `db:"stall_number"`
	CompleteAddress    string              `db:"complete_address"`
	ProductID          uuid.UUID           `db:"product_id"`
	ProductName        string              `db:"product_name"`
	ProductDescription string              `db:"product_description"`
	CategoryName       string              `db:"category_name"`
}

func (r listingRow) toDomain() domain.ListingRow {
	return domain.ListingRow{
		ID:       r.ID,
		VendorID: r.VendorID,
		Status:   domain.ParseListingStatus(r.Status),
		Price:    r.Price.Decimal,
		UOM:      r.UOM,
		Vendor: domain.Vendor{
			ID:              r.VendorID,
			AuthUserID:      r.AuthUserID,
			BusinessName:    r.BusinessName,
			PhoneNumber:     r.PhoneNumber,
			StallNumber:     r.StallNumber,
			CompleteAddress: r.CompleteAddress,
		},
		Product: domain.Product{
			ID:           r.ProductID,
			Name:         r.ProductName,
			CategoryName: r.CategoryName,
			Description:  r.ProductDescription,
		},
	}
}

// PGRepository reads the directory straight from the market database
type PGRepository struct {
	DB *sqlx.DB
}

// NewPGRepository creates a repository over an open database handle
func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// Open connects to databaseURL with the lib/pq driver and verifies the connection
func Open(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// ListListings returns every vendor listing joined with its vendor and product
func (r *PGRepository) ListListings(ctx context.Context) ([]domain.ListingRow, error) {
	return r.selectListings(ctx, listingQuery)
}

// ListVendorListings returns one vendor's listings, newest first
func (r *PGRepository) ListVendorListings(ctx context.Context, vendorID uuid.UUID) ([]domain.ListingRow, error) {
	return r.selectListings(ctx, listingQuery+" WHERE vp.vendor_id = $1 ORDER BY vp.created_at DESC", vendorID)
}

func (r *PGRepository) selectListings(ctx context.Context, query string, args ...interface{}) ([]domain.ListingRow, error) {
	var rows []listingRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendFailure, err)
	}

	listings := make([]domain.ListingRow, len(rows))
	for i, row := range rows {
		listings[i] = row.toDomain()
	}
	return listings, nil
}

// ListStallsByVendor returns the stall records of the given vendors
func (r *PGRepository) ListStallsByVendor(ctx context.Context, vendorIDs []uuid.UUID) ([]domain.Stall, error) {
	if len(vendorIDs) == 0 {
		return nil, nil
	}

	ids := make(pq.StringArray, len(vendorIDs))
	for i, id := range vendorIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT
			vendor_profile_id,
			COALESCE(stall_number, '')         AS stall_number,
			COALESCE(location_description, '') AS location_description
		FROM stalls
		WHERE vendor_profile_id = ANY($1::uuid[])
	`
	var stalls []domain.Stall
	if err := r.DB.SelectContext(ctx, &stalls, query, ids); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendFailure, err)
	}
	return stalls, nil
}

// GetVendor returns the vendor profile with the given id
func (r *PGRepository) GetVendor(ctx context.Context, vendorID uuid.UUID) (*domain.Vendor, error) {
	return r.getVendor(ctx, vendorQuery+" WHERE id = $1 LIMIT 1", vendorID)
}

// GetVendorByAuthUser returns the vendor profile owned by an auth user.
// An id that is not a uuid cannot own a profile.
func (r *PGRepository) GetVendorByAuthUser(ctx context.Context, authUserID string) (*domain.Vendor, error) {
	userID, err := uuid.Parse(authUserID)
	if err != nil {
		return nil, domain.ErrVendorNotFound
	}
	return r.getVendor(ctx, vendorQuery+" WHERE auth_user_id = $1::uuid LIMIT 1", userID)
}

func (r *PGRepository) getVendor(ctx context.Context, query string, arg interface{}) (*domain.Vendor, error) {
	var vendor domain.Vendor
	if err := r.DB.GetContext(ctx, &vendor, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendFailure, err)
	}
	return &vendor, nil
}
