package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MeatTypes are informational badges for the kinds of meat a vendor sells
type MeatTypes struct {
	Pork    bool `json:"pork"`
	Beef    bool `json:"beef"`
	Chicken bool `json:"chicken"`
}

// Merge sets every flag that is set in other. Flags are never cleared.
func (m *MeatTypes) Merge(other MeatTypes) {
	m.Pork = m.Pork || other.Pork
	m.Beef = m.Beef || other.Beef
	m.Chicken = m.Chicken || other.Chicken
}

// VendorSummary is the per-vendor aggregate for one category query
type VendorSummary struct {
	ID                    uuid.UUID  `json:"id"`
	BusinessName          string     `json:"business_name"`
	ContactNumber         string     `json:"contact_number,omitempty"`
	Stall                 *StallInfo `json:"stall"`
	ProductCount          int        `json:"productCount"`
	AvailableProductCount int        `json:"availableProductCount"`
	MeatTypes             MeatTypes  `json:"meatTypes"`
}

// ProductKind is the coarse product type used for product icons
type ProductKind string

const (
	KindBeef    ProductKind = "beef"
	KindPork    ProductKind = "pork"
	KindChicken ProductKind = "chicken"
	KindOther   ProductKind = "other"
)

// ProductListing is a listing as shown on a vendor page
type ProductListing struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Price        decimal.Decimal `json:"price"`
	UOM          string          `json:"uom"`
	Status       ListingStatus   `json:"status"`
	Kind         ProductKind     `json:"kind"`
}

// VendorDetails is a vendor profile together with its stall and listings
type VendorDetails struct {
	ID           uuid.UUID        `json:"id"`
	BusinessName string           `json:"business_name"`
	PhoneNumber  string           `json:"phone_number,omitempty"`
	Stall        *StallInfo       `json:"stall"`
	Products     []ProductListing `json:"products"`
}

// ListingStats counts a vendor's own listings by availability
type ListingStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// Dashboard is the signed-in vendor's overview of their shop
type Dashboard struct {
	Vendor VendorDetails `json:"vendor"`
	Stats  ListingStats  `json:"stats"`
}
