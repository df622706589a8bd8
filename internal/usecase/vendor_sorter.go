package usecase

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/mapalengke/backend/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects the vendor list ordering
type SortMode string

const (
	SortAlpha SortMode = "alpha"
	SortStall SortMode = "stall"
)

// ParseSortMode accepts "alpha", "stall" or empty (alpha)
func ParseSortMode(raw string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SortAlpha:
		return SortAlpha, nil
	case SortStall:
		return SortStall, nil
	default:
		return "", domain.ErrInvalidRequest
	}
}

// missingStallPrefix sorts stall numbers without letters after every zone
const missingStallPrefix = "ZZZ"

var (
	stallPrefixRegex = regexp.MustCompile(`[A-Za-z]+`)
	stallNumberRegex = regexp.MustCompile(`\d+`)
)

// stallKey is the parsed ordering key of a stall number
type stallKey struct {
	prefix string
	number int
}

// parseStallKey splits a stall number into its first letter run and first digit run.
// "DF-12" becomes {DF, 12}; a missing prefix or number sorts last.
func parseStallKey(stallNumber string) stallKey {
	key := stallKey{prefix: missingStallPrefix, number: math.MaxInt}

	if prefix := stallPrefixRegex.FindString(stallNumber); prefix != "" {
		key.prefix = strings.ToUpper(prefix)
	}
	if digits := stallNumberRegex.FindString(stallNumber); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			key.number = n
		}
	}
	return key
}

// SortVendors returns a sorted copy of the vendor list. Sorting is stable, so
// vendors that compare equal keep their input order.
func SortVendors(vendors []domain.VendorSummary, mode SortMode) []domain.VendorSummary {
	sorted := slices.Clone(vendors)

	if mode == SortStall {
		type keyed struct {
			key    stallKey
			vendor domain.VendorSummary
		}
		// parse each key once
		items := make([]keyed, len(sorted))
		for i, v := range sorted {
			items[i] = keyed{key: parseStallKey(stallNumberOf(v)), vendor: v}
		}
		slices.SortStableFunc(items, func(a, b keyed) int {
			if c := strings.Compare(a.key.prefix, b.key.prefix); c != 0 {
				return c
			}
			return cmp.Compare(a.key.number, b.key.number)
		})
		for i := range items {
			sorted[i] = items[i].vendor
		}
		return sorted
	}

	collator := collate.New(language.Und, collate.Loose)
	slices.SortStableFunc(sorted, func(a, b domain.VendorSummary) int {
		return collator.CompareString(strings.ToLower(a.BusinessName), strings.ToLower(b.BusinessName))
	})
	return sorted
}

func stallNumberOf(v domain.VendorSummary) string {
	if v.Stall == nil {
		return ""
	}
	return v.Stall.StallNumber
}
