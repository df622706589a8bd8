package usecase

import (
	"github.com/google/uuid"
	"github.com/mapalengke/backend/internal/domain"
)

// DefaultMarketName is the location shown when a vendor profile has a stall
// number but no address
const DefaultMarketName = "Toril Public Market"

// Aggregation is the per-vendor fold of listing rows for one category.
// It is built fresh by Aggregate and owned by the caller.
type Aggregation struct {
	order    []uuid.UUID
	byVendor map[uuid.UUID]*domain.VendorSummary
	profiles map[uuid.UUID]domain.Vendor
}

// Aggregate groups the rows matching selectedCategory by vendor.
// Non-matching rows are skipped, so a vendor appears only when at least one
// of its rows matches. Meat badges are set from every matching row whatever
// the selected category is.
func Aggregate(rows []domain.ListingRow, selectedCategory string) *Aggregation {
	agg := &Aggregation{
		byVendor: make(map[uuid.UUID]*domain.VendorSummary),
		profiles: make(map[uuid.UUID]domain.Vendor),
	}

	for _, row := range rows {
		if !MatchesListing(selectedCategory, row) {
			continue
		}

		summary, exists := agg.byVendor[row.VendorID]
		if !exists {
			summary = &domain.VendorSummary{
				ID:            row.VendorID,
				BusinessName:  row.Vendor.BusinessName,
				ContactNumber: row.Vendor.PhoneNumber,
			}
			agg.byVendor[row.VendorID] = summary
			agg.profiles[row.VendorID] = row.Vendor
			agg.order = append(agg.order, row.VendorID)
		}

		summary.ProductCount++
		if row.Status.IsAvailable() {
			summary.AvailableProductCount++
		}
		summary.MeatTypes.Merge(DetectMeatTypes(row.Product.Name, row.Product.CategoryName))
	}

	return agg
}

// Len returns the number of vendors in the aggregation
func (a *Aggregation) Len() int {
	return len(a.order)
}

// VendorIDs returns the vendor ids in first-seen order
func (a *Aggregation) VendorIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(a.order))
	copy(ids, a.order)
	return ids
}

// ApplyStalls overlays stall-table records onto the matching vendors.
// Records for vendors outside the aggregation are ignored.
func (a *Aggregation) ApplyStalls(stalls []domain.Stall) {
	for _, stall := range stalls {
		summary, ok := a.byVendor[stall.VendorID]
		if !ok {
			continue
		}
		summary.Stall = &domain.StallInfo{
			StallNumber:         stall.StallNumber,
			LocationDescription: stall.LocationDescription,
		}
	}
}

// ApplyProfileFallback fills the stall of vendors that have no stall-table
// record from their own profile. Vendors whose profile carries neither a
// stall number nor an address keep a nil stall.
func (a *Aggregation) ApplyProfileFallback(marketName string) {
	for _, id := range a.order {
		summary := a.byVendor[id]
		if summary.Stall != nil {
			continue
		}
		summary.Stall = stallFromProfile(a.profiles[id], marketName)
	}
}

// Summaries returns copies of the vendor summaries in first-seen order
func (a *Aggregation) Summaries() []domain.VendorSummary {
	result := make([]domain.VendorSummary, 0, len(a.order))
	for _, id := range a.order {
		result = append(result, copySummary(a.byVendor[id]))
	}
	return result
}

// ByVendor returns copies of the vendor summaries keyed by vendor id
func (a *Aggregation) ByVendor() map[uuid.UUID]domain.VendorSummary {
	result := make(map[uuid.UUID]domain.VendorSummary, len(a.byVendor))
	for id, summary := range a.byVendor {
		result[id] = copySummary(summary)
	}
	return result
}

// stallFromProfile builds stall info from a vendor's denormalized profile fields
func stallFromProfile(vendor domain.Vendor, marketName string) *domain.StallInfo {
	if vendor.StallNumber == "" && vendor.CompleteAddress == "" {
		return nil
	}

	location := vendor.CompleteAddress
	if location == "" {
		location = marketName
	}
	return &domain.StallInfo{
		StallNumber:         vendor.StallNumber,
		LocationDescription: location,
	}
}

func copySummary(summary *domain.VendorSummary) domain.VendorSummary {
	out := *summary
	if summary.Stall != nil {
		stall := *summary.Stall
		out.Stall = &stall
	}
	return out
}
