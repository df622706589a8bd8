package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListingStatus is the normalized availability of a vendor listing
type ListingStatus string

const (
	StatusAvailable   ListingStatus = "available"
	StatusUnavailable ListingStatus = "unavailable"
)

// ParseListingStatus folds the backend's status vocabulary into two states.
// "available" and "active" (any case) are available, everything else is not.
func ParseListingStatus(raw string) ListingStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "available", "active":
		return StatusAvailable
	default:
		return StatusUnavailable
	}
}

// IsAvailable reports whether the listing can currently be bought
func (s ListingStatus) IsAvailable() bool {
	return s == StatusAvailable
}

// Vendor is a registered market vendor profile
type Vendor struct {
	ID              uuid.UUID `json:"id" db:"id"`
	AuthUserID      string    `json:"-" db:"auth_user_id"`
	BusinessName    string    `json:"business_name" db:"business_name"`
	PhoneNumber     string    `json:"phone_number,omitempty" db:"phone_number"`
	StallNumber     string    `json:"stall_number,omitempty" db:"stall_number"`
	CompleteAddress string    `json:"complete_address,omitempty" db:"complete_address"`
}

// Product is catalog reference data shared by all vendors
type Product struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CategoryName string    `json:"category_name,omitempty"`
	Description  string    `json:"description,omitempty"`
}

// ListingRow is one vendor x product offering as delivered by the backend join
type ListingRow struct {
	ID       uuid.UUID       `json:"id"`
	VendorID uuid.UUID       `json:"vendor_id"`
	Status   ListingStatus   `json:"status"`
	Price    decimal.Decimal `json:"price"`
	UOM      string          `json:"uom"`
	Vendor   Vendor          `json:"vendor"`
	Product  Product         `json:"product"`
}

// Stall is a physical stall record from the stall table
type Stall struct {
	VendorID            uuid.UUID `json:"vendor_id" db:"vendor_profile_id"`
	StallNumber         string    `json:"stall_number" db:"stall_number"`
	LocationDescription string    `json:"location_description" db:"location_description"`
}

// StallInfo is the stall shown next to a vendor
type StallInfo struct {
	StallNumber         string `json:"stall_number,omitempty"`
	LocationDescription string `json:"location_description,omitempty"`
}
