package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListingStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want ListingStatus
	}{
		{"available", StatusAvailable},
		{"active", StatusAvailable},
		{"Active", StatusAvailable},
		{"  AVAILABLE ", StatusAvailable},
		{"unavailable", StatusUnavailable},
		{"inactive", StatusUnavailable},
		{"", StatusUnavailable},
		{"sold out", StatusUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseListingStatus(tt.raw))
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryFish, NormalizeCategory("  Fish "))
	assert.Equal(t, CategoryRiceGrain, NormalizeCategory("Rice/Grain"))
	assert.Equal(t, CategoryVegetablesFruits, NormalizeCategory("Vegetables & Fruits"))
	assert.Equal(t, "seafood", NormalizeCategory("Seafood"))

	assert.True(t, IsKnownCategory("Dried Fish"))
	assert.False(t, IsKnownCategory("Seafood"))
}

func TestCategories(t *testing.T) {
	categories := Categories()
	require.Len(t, categories, 6)
	assert.Equal(t, "Fish", categories[0].Name)
	assert.Equal(t, "Dried Fish", categories[5].Name)

	meat := categories[1]
	require.Len(t, meat.Subcategories, 4)
	for _, sub := range meat.Subcategories {
		assert.True(t, IsKnownCategory(sub.Key), sub.Key)
	}
}

func TestMeatTypesMergeIsSticky(t *testing.T) {
	var m MeatTypes
	m.Merge(MeatTypes{Pork: true})
	m.Merge(MeatTypes{Beef: true})
	m.Merge(MeatTypes{})

	assert.Equal(t, MeatTypes{Pork: true, Beef: true}, m)
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()

	_, ok := SessionFromContext(ctx)
	assert.False(t, ok)

	session := NewSession("auth-user-1", "vendor@example.com", "token")
	ctx = WithSession(ctx, session)

	got, ok := SessionFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, session, got)
	assert.NotEqual(t, session.ID.String(), "00000000-0000-0000-0000-000000000000")

	_, ok = SessionFromContext(WithSession(context.Background(), nil))
	assert.False(t, ok)
}

func TestWithoutSession(t *testing.T) {
	signedIn := WithSession(context.Background(), NewSession("auth-user-1", "", "token"))

	_, ok := SessionFromContext(WithoutSession(signedIn))
	assert.False(t, ok)

	// the parent context keeps its session
	_, ok = SessionFromContext(signedIn)
	assert.True(t, ok)
}
