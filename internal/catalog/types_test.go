package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Palgie/luxury-beauty-app/pkg/money"
)

func TestAsPagePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collection url with domain", "https://www.example.com/skincare/c/moisturisers/", "/c/moisturisers"},
		{"collection path", "/c/makeup", "/c/makeup"},
		{"collection with list suffix", "/skincare/c/cleansers.list", "/c/cleansers"},
		{"product path keeps no leading slash", "/glow-night-cream/p/11buy", "glow-night-cream/p/11buy"},
		{"plain path gains leading slash", "offers/new-in", "/offers/new-in"},
		{"http scheme", "http://example.com/c/fragrance", "/c/fragrance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AsPagePath(tt.in))
		})
	}
}

func TestSortOption_Valid(t *testing.T) {
	assert.True(t, SortPopularity.Valid())
	assert.True(t, SortPriceLowToHigh.Valid())
	assert.True(t, SortPriceHighToLow.Valid())
	assert.True(t, SortNewestToOldest.Valid())
	assert.True(t, SortDiscountHighLow.Valid())
	assert.False(t, SortOption("ALPHABETICAL").Valid())
	assert.False(t, SortOption("").Valid())
}

func TestFacetList_UnmarshalAllVariants(t *testing.T) {
	var fl FacetList
	err := json.Unmarshal([]byte(`[
		{"__typename": "SimpleFacet", "facetName": "brand", "facetHeader": "Brand",
		 "options": [{"optionName": "glow", "displayName": "Glow", "matchedProductCount": 3}]},
		{"__typename": "RangedFacet", "facetName": "price_band", "facetHeader": "Price",
		 "options": [{"displayName": "£10 - £20", "from": 10, "to": 20, "matchedProductCount": 8}]},
		{"__typename": "SliderFacet", "facetName": "price", "facetHeader": "Price", "minValue": 4.5, "maxValue": 99}
	]`), &fl)
	require.NoError(t, err)
	require.Len(t, fl, 3)

	simple, ok := fl[0].(SimpleFacet)
	require.True(t, ok)
	assert.Equal(t, "brand", simple.FacetName())
	require.Len(t, simple.Options, 1)
	assert.Equal(t, 3, simple.Options[0].MatchedProductCount)

	ranged, ok := fl[1].(RangedFacet)
	require.True(t, ok)
	assert.Equal(t, 10.0, ranged.Options[0].From)

	slider, ok := fl[2].(SliderFacet)
	require.True(t, ok)
	assert.Equal(t, 99.0, slider.MaxValue)
}

func TestFacetList_UnknownTypeIsError(t *testing.T) {
	var fl FacetList
	err := json.Unmarshal([]byte(`[{"__typename": "HistogramFacet", "facetName": "x"}]`), &fl)
	assert.ErrorContains(t, err, "unknown facet type")
}

func TestPriceRange_IsDiscounted(t *testing.T) {
	discounted := PriceRange{
		Price: money.New(18, "GBP"),
		RRP:   money.New(24, "GBP"),
	}
	assert.True(t, discounted.IsDiscounted())

	full := PriceRange{
		Price: money.New(24, "GBP"),
		RRP:   money.New(24, "GBP"),
	}
	assert.False(t, full.IsDiscounted())

	crossCurrency := PriceRange{
		Price: money.New(18, "USD"),
		RRP:   money.New(24, "GBP"),
	}
	assert.False(t, crossCurrency.IsDiscounted())
}

func TestProduct_AccessorsOnSparseProduct(t *testing.T) {
	var p Product
	assert.Equal(t, "", p.BrandName())
	assert.Equal(t, "", p.ImageURL())
	assert.True(t, p.Price().Price.IsZero())
}
