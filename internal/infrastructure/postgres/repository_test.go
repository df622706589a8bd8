package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mapalengke/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ domain.DirectoryRepository = (*PGRepository)(nil)

func TestListingRowToDomain(t *testing.T) {
	listingID, vendorID, productID := uuid.New(), uuid.New(), uuid.New()

	row := listingRow{
		ID:              listingID,
		VendorID:        vendorID,
		Status:          " Active ",
		Price:           decimal.NewNullDecimal(decimal.RequireFromString("145.75")),
		UOM:             "kg",
		BusinessName:    "Mang Ben Meats",
		PhoneNumber:     "09171234567",
		StallNumber:     "M-4",
		ProductID:       productID,
		ProductName:     "Pork Liempo",
		CategoryName:    "Pork",
		CompleteAddress: "Toril, Davao City",
	}

	got := row.toDomain()

	assert.Equal(t, listingID, got.ID)
	assert.Equal(t, vendorID, got.VendorID)
	assert.Equal(t, vendorID, got.Vendor.ID)
	assert.Equal(t, domain.StatusAvailable, got.Status)
	assert.Equal(t, "145.75", got.Price.String())
	assert.Equal(t, "Mang Ben Meats", got.Vendor.BusinessName)
	assert.Equal(t, "Toril, Davao City", got.Vendor.CompleteAddress)
	assert.Equal(t, productID, got.Product.ID)
	assert.Equal(t, "Pork", got.Product.CategoryName)
}

func TestListingRowToDomain_NullPrice(t *testing.T) {
	got := listingRow{Status: "sold out"}.toDomain()

	assert.True(t, got.Price.IsZero())
	assert.Equal(t, domain.StatusUnavailable, got.Status)
}

func TestPGRepository_ShortCircuits(t *testing.T) {
	// neither call may reach the database
	repo := NewPGRepository(nil)
	ctx := context.Background()

	stalls, err := repo.ListStallsByVendor(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, stalls)

	_, err = repo.GetVendorByAuthUser(ctx, "")
	assert.True(t, errors.Is(err, domain.ErrVendorNotFound))

	_, err = repo.GetVendorByAuthUser(ctx, "not-a-uuid")
	assert.True(t, errors.Is(err, domain.ErrVendorNotFound))
}

func newMockRepository(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

var listingColumns = []string{
	"id", "vendor_id", "status", "price", "uom",
	"auth_user_id", "business_name", "phone_number", "stall_number", "complete_address",
	"product_id", "product_name", "product_description", "category_name",
}

var vendorColumns = []string{
	"id", "auth_user_id", "business_name", "phone_number", "stall_number", "complete_address",
}

func TestPGRepository_ListListings(t *testing.T) {
	repo, mock := newMockRepository(t)
	listingID, vendorID, productID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM vendor_products vp")).
		WillReturnRows(sqlmock.NewRows(listingColumns).
			AddRow(listingID.String(), vendorID.String(), "available", "180.00", "kg",
				"", "Aling Nena Isdaan", "", "F-2", "", productID.String(), "Tilapia", "", "Fish").
			AddRow(uuid.New().String(), vendorID.String(), "inactive", nil, "pc",
				"", "Aling Nena Isdaan", "", "F-2", "", uuid.New().String(), "Bangus", "", ""))

	rows, err := repo.ListListings(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, listingID, rows[0].ID)
	assert.Equal(t, vendorID, rows[0].Vendor.ID)
	assert.Equal(t, domain.StatusAvailable, rows[0].Status)
	assert.Equal(t, "180", rows[0].Price.String())
	assert.Equal(t, "F-2", rows[0].Vendor.StallNumber)
	assert.Equal(t, productID, rows[0].Product.ID)
	assert.Equal(t, "Fish", rows[0].Product.CategoryName)

	assert.Equal(t, domain.StatusUnavailable, rows[1].Status)
	assert.True(t, rows[1].Price.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepository_ListVendorListings(t *testing.T) {
	repo, mock := newMockRepository(t)
	vendorID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE vp.vendor_id = $1 ORDER BY vp.created_at DESC")).
		WithArgs(vendorID).
		WillReturnRows(sqlmock.NewRows(listingColumns))

	rows, err := repo.ListVendorListings(context.Background(), vendorID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepository_ListListings_QueryError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM vendor_products vp")).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ListListings(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBackendFailure))
	assert.Contains(t, err.Error(), "connection reset")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepository_ListStallsByVendor(t *testing.T) {
	repo, mock := newMockRepository(t)
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE vendor_profile_id = ANY($1::uuid[])")).
		WithArgs(pq.StringArray{first.String(), second.String()}).
		WillReturnRows(sqlmock.NewRows([]string{"vendor_profile_id", "stall_number", "location_description"}).
			AddRow(second.String(), "F-1", "Fish Section, Row 1"))

	stalls, err := repo.ListStallsByVendor(context.Background(), []uuid.UUID{first, second})
	require.NoError(t, err)
	assert.Equal(t, []domain.Stall{
		{VendorID: second, StallNumber: "F-1", LocationDescription: "Fish Section, Row 1"},
	}, stalls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepository_GetVendor(t *testing.T) {
	vendorID := uuid.New()

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM vendor_profiles WHERE id = $1 LIMIT 1")).
			WithArgs(vendorID).
			WillReturnRows(sqlmock.NewRows(vendorColumns).
				AddRow(vendorID.String(), "", "Mang Ben Meats", "09171234567", "M-1", "Toril"))

		vendor, err := repo.GetVendor(context.Background(), vendorID)
		require.NoError(t, err)
		assert.Equal(t, domain.Vendor{
			ID:              vendorID,
			BusinessName:    "Mang Ben Meats",
			PhoneNumber:     "09171234567",
			StallNumber:     "M-1",
			CompleteAddress: "Toril",
		}, *vendor)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 LIMIT 1")).
			WithArgs(vendorID).
			WillReturnRows(sqlmock.NewRows(vendorColumns))

		_, err := repo.GetVendor(context.Background(), vendorID)
		assert.True(t, errors.Is(err, domain.ErrVendorNotFound))
		assert.False(t, errors.Is(err, domain.ErrBackendFailure))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 LIMIT 1")).
			WithArgs(vendorID).
			WillReturnError(errors.New("too many connections"))

		_, err := repo.GetVendor(context.Background(), vendorID)
		assert.True(t, errors.Is(err, domain.ErrBackendFailure))
		assert.False(t, errors.Is(err, domain.ErrVendorNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPGRepository_GetVendorByAuthUser(t *testing.T) {
	repo, mock := newMockRepository(t)
	vendorID, authUserID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE auth_user_id = $1::uuid LIMIT 1")).
		WithArgs(authUserID).
		WillReturnRows(sqlmock.NewRows(vendorColumns).
			AddRow(vendorID.String(), authUserID.String(), "Mang Ben Meats", "", "M-1", ""))

	vendor, err := repo.GetVendorByAuthUser(context.Background(), authUserID.String())
	require.NoError(t, err)
	assert.Equal(t, vendorID, vendor.ID)
	assert.Equal(t, authUserID.String(), vendor.AuthUserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
