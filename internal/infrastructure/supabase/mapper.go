package supabase

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mapalengke/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// embedded decodes a PostgREST embed that may arrive as an object, an array
// of objects (first element wins), or null. Any other shape decodes to the
// zero value instead of failing the whole response; an object that is present
// but does not decode is flagged Malformed.
type embedded[T any] struct {
	Value     T
	Valid     bool
	Malformed bool
}

// UnmarshalJSON implements json.Unmarshaler
func (e *embedded[T]) UnmarshalJSON(data []byte) error {
	*e = embedded[T]{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '{':
		e.decode(trimmed)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil || len(items) == 0 {
			return nil
		}
		first := bytes.TrimSpace(items[0])
		if len(first) > 0 && first[0] == '{' {
			e.decode(first)
		}
	}
	return nil
}

func (e *embedded[T]) decode(object []byte) {
	var v T
	if err := json.Unmarshal(object, &v); err != nil {
		e.Malformed = true
		return
	}
	e.Value, e.Valid = v, true
}

// text is a scalar column decoded as a string. Numbers and booleans keep their
// JSON literal so a numeric stall number still reads as "12"; null is empty.
type text string

// UnmarshalJSON implements json.Unmarshaler
func (t *text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*t = ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = text(s)
	case trimmed[0] == '{' || trimmed[0] == '[':
		return fmt.Errorf("expected a scalar, got %.20s", trimmed)
	default:
		*t = text(trimmed)
	}
	return nil
}

// nameRecord is an embed that only carries a name
type nameRecord struct {
	Name string `json:"name"`
}

type vendorRecord struct {
	ID              string `json:"id"`
	AuthUserID      string `json:"auth_user_id"`
	BusinessName    text   `json:"business_name"`
	PhoneNumber     text   `json:"phone_number"`
	StallNumber     text   `json:"stall_number"`
	CompleteAddress text   `json:"complete_address"`
}

type productRecord struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	ProductCategories embedded[nameRecord] `json:"product_categories"`
}

type listingRecord struct {
	ID             string                  `json:"id"`
	VendorID       string                  `json:"vendor_id"`
	Status         string                  `json:"status"`
	Price          decimal.NullDecimal     `json:"price"`
	UOM            string                  `json:"uom"`
	VendorProfiles embedded[vendorRecord]  `json:"vendor_profiles"`
	Products       embedded[productRecord] `json:"products"`
}

type stallRecord struct {
	VendorProfileID     string `json:"vendor_profile_id"`
	StallNumber         text   `json:"stall_number"`
	LocationDescription text   `json:"location_description"`
}

func (r vendorRecord) toDomain() (domain.Vendor, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("invalid vendor id %q: %w", r.ID, err)
	}
	return domain.Vendor{
		ID:              id,
		AuthUserID:      r.AuthUserID,
		BusinessName:    string(r.BusinessName),
		PhoneNumber:     string(r.PhoneNumber),
		StallNumber:     string(r.StallNumber),
		CompleteAddress: string(r.CompleteAddress),
	}, nil
}

// toDomain converts a listing record, normalizing its status.
// The vendor id column is authoritative; the embedded profile id may be absent.
func (r listingRecord) toDomain() (domain.ListingRow, error) {
	vendorID, err := uuid.Parse(r.VendorID)
	if err != nil {
		return domain.ListingRow{}, fmt.Errorf("invalid vendor_id %q: %w", r.VendorID, err)
	}

	// listing and product ids are informational, a malformed one becomes uuid.Nil
	listingID, _ := uuid.Parse(r.ID)

	profile := r.VendorProfiles.Value
	vendor := domain.Vendor{
		ID:              vendorID,
		AuthUserID:      profile.AuthUserID,
		BusinessName:    string(profile.BusinessName),
		PhoneNumber:     string(profile.PhoneNumber),
		StallNumber:     string(profile.StallNumber),
		CompleteAddress: string(profile.CompleteAddress),
	}

	product := r.Products.Value
	productID, _ := uuid.Parse(product.ID)

	return domain.ListingRow{
		ID:       listingID,
		VendorID: vendorID,
		Status:   domain.ParseListingStatus(r.Status),
		Price:    r.Price.Decimal,
		UOM:      r.UOM,
		Vendor:   vendor,
		Product: domain.Product{
			ID:           productID,
			Name:         product.Name,
			CategoryName: product.ProductCategories.Value.Name,
			Description:  product.Description,
		},
	}, nil
}

// mapStats counts the records mapListings could not fully use
type mapStats struct {
	Skipped   int // dropped for an unparseable vendor id
	Malformed int // kept, but a vendor or product embed failed to decode
}

// mapListings converts listing records to domain rows
func mapListings(records []listingRecord) ([]domain.ListingRow, mapStats) {
	rows := make([]domain.ListingRow, 0, len(records))
	var stats mapStats
	for _, record := range records {
		row, err := record.toDomain()
		if err != nil {
			stats.Skipped++
			continue
		}
		if record.VendorProfiles.Malformed || record.Products.Malformed {
			stats.Malformed++
		}
		rows = append(rows, row)
	}
	return rows, stats
}

// mapStalls converts stall records, dropping those without a valid vendor id
func mapStalls(records []stallRecord) []domain.Stall {
	stalls := make([]domain.Stall, 0, len(records))
	for _, record := range records {
		vendorID, err := uuid.Parse(record.VendorProfileID)
		if err != nil {
			continue
		}
		stalls = append(stalls, domain.Stall{
			VendorID:            vendorID,
			StallNumber:         string(record.StallNumber),
			LocationDescription: string(record.LocationDescription),
		})
	}
	return stalls
}
