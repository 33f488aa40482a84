package catalog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Palgie/luxury-beauty-app/pkg/money"
)

// SortOption is a product list sort order accepted by the catalog API.
type SortOption string

const (
	SortPopularity      SortOption = "POPULARITY"
	SortPriceLowToHigh  SortOption = "PRICE_LOW_TO_HIGH"
	SortPriceHighToLow  SortOption = "PRICE_HIGH_TO_LOW"
	SortNewestToOldest  SortOption = "NEWEST_TO_OLDEST"
	SortDiscountHighLow SortOption = "DISCOUNT_PERCENTAGE_HIGH_TO_LOW"
)

// Valid reports whether the sort option is one the API accepts.
func (s SortOption) Valid() bool {
	switch s {
	case SortPopularity, SortPriceLowToHigh, SortPriceHighToLow,
		SortNewestToOldest, SortDiscountHighLow:
		return true
	}
	return false
}

// FacetSelection is one chosen facet option, sent as a filter input.
type FacetSelection struct {
	FacetName  string `json:"facetName"`
	OptionName string `json:"optionName"`
}

// Reviews summarises customer review scores for a product.
type Reviews struct {
	Total        int     `json:"total"`
	AverageScore float64 `json:"averageScore"`
	MaxScore     float64 `json:"maxScore"`
}

// PriceRange is the selling price with its recommended retail price.
type PriceRange struct {
	Price money.Money `json:"price"`
	RRP   money.Money `json:"rrp"`
}

// IsDiscounted reports whether the selling price is below the RRP.
func (p PriceRange) IsDiscounted() bool {
	return p.Price.IsDiscountedFrom(p.RRP)
}

// Brand is the product brand.
type Brand struct {
	Name string `json:"name"`
}

// Image holds the image renditions the API exposes.
type Image struct {
	LargeProduct string `json:"largeProduct,omitempty"`
	Zoom         string `json:"zoom,omitempty"`
	Original     string `json:"original,omitempty"`
}

// VariantChoice is one option choice on a variant (shade, size).
type VariantChoice struct {
	OptionKey string `json:"optionKey"`
	Key       string `json:"key"`
	Colour    string `json:"colour,omitempty"`
	Title     string `json:"title"`
}

// Variant is a purchasable variant of a product.
type Variant struct {
	SKU     string          `json:"sku"`
	Title   string          `json:"title,omitempty"`
	InStock bool            `json:"inStock"`
	Price   PriceRange      `json:"price"`
	Choices []VariantChoice `json:"choices,omitempty"`
}

// Product is a catalog product as returned by search and detail queries.
type Product struct {
	SKU             string    `json:"sku"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Brand           *Brand    `json:"brand,omitempty"`
	Images          []Image   `json:"images,omitempty"`
	Reviews         *Reviews  `json:"reviews,omitempty"`
	CheapestVariant *Variant  `json:"cheapestVariant,omitempty"`
	Variants        []Variant `json:"variants,omitempty"`
}

// Price returns the cheapest variant's price range, or a zero range
// when the product carries no variant pricing.
func (p Product) Price() PriceRange {
	if p.CheapestVariant == nil {
		return PriceRange{}
	}
	return p.CheapestVariant.Price
}

// ImageURL returns the first large product image, or empty.
func (p Product) ImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].LargeProduct
}

// BrandName returns the brand name, or empty when unbranded.
func (p Product) BrandName() string {
	if p.Brand == nil {
		return ""
	}
	return p.Brand.Name
}

// Facet is a filter dimension returned alongside a product list. The
// set of variants is closed: Simple, Ranged, and Slider.
type Facet interface {
	FacetName() string
	FacetHeader() string
	isFacet()
}

// SimpleFacet is a facet with named options (brand, product type).
type SimpleFacet struct {
	Name    string              `json:"facetName"`
	Header  string              `json:"facetHeader"`
	Options []SimpleFacetOption `json:"options"`
}

type SimpleFacetOption struct {
	OptionName          string `json:"optionName"`
	DisplayName         string `json:"displayName"`
	MatchedProductCount int    `json:"matchedProductCount"`
}

func (f SimpleFacet) FacetName() string   { return f.Name }
func (f SimpleFacet) FacetHeader() string { return f.Header }
func (f SimpleFacet) isFacet()            {}

// RangedFacet is a facet with numeric bucket options (price bands).
type RangedFacet struct {
	Name    string              `json:"facetName"`
	Header  string              `json:"facetHeader"`
	Options []RangedFacetOption `json:"options"`
}

type RangedFacetOption struct {
	DisplayName         string  `json:"displayName"`
	From                float64 `json:"from"`
	To                  float64 `json:"to"`
	MatchedProductCount int     `json:"matchedProductCount"`
}

func (f RangedFacet) FacetName() string   { return f.Name }
func (f RangedFacet) FacetHeader() string { return f.Header }
func (f RangedFacet) isFacet()            {}

// SliderFacet is a facet with a continuous numeric range.
type SliderFacet struct {
	Name     string  `json:"facetName"`
	Header   string  `json:"facetHeader"`
	MinValue float64 `json:"minValue"`
	MaxValue float64 `json:"maxValue"`
}

func (f SliderFacet) FacetName() string   { return f.Name }
func (f SliderFacet) FacetHeader() string { return f.Header }
func (f SliderFacet) isFacet()            {}

// FacetList decodes the facet union by __typename. An unrecognised
// typename is an error rather than a silent skip so schema changes
// surface immediately.
type FacetList []Facet

func (fl *FacetList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make([]Facet, 0, len(raws))
	for _, raw := range raws {
		var probe struct {
			TypeName string `json:"__typename"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return err
		}

		switch probe.TypeName {
		case "SimpleFacet":
			var f SimpleFacet
			if err := json.Unmarshal(raw, &f); err != nil {
				return err
			}
			out = append(out, f)
		case "RangedFacet":
			var f RangedFacet
			if err := json.Unmarshal(raw, &f); err != nil {
				return err
			}
			out = append(out, f)
		case "SliderFacet":
			var f SliderFacet
			if err := json.Unmarshal(raw, &f); err != nil {
				return err
			}
			out = append(out, f)
		default:
			return fmt.Errorf("catalog: unknown facet type %q", probe.TypeName)
		}
	}
	*fl = out
	return nil
}

// ProductListPage is one page of a product listing.
type ProductListPage struct {
	Total    int       `json:"total"`
	HasMore  bool      `json:"hasMore"`
	Products []Product `json:"products"`
	Facets   FacetList `json:"facets,omitempty"`
}

// NavigationLink is a navigation target.
type NavigationLink struct {
	Text           string `json:"text,omitempty"`
	URL            string `json:"url"`
	OpenExternally bool   `json:"openExternally"`
}

// NavigationItem is one node of the header navigation tree.
type NavigationItem struct {
	Type          string           `json:"type,omitempty"`
	DisplayName   string           `json:"displayName"`
	Link          *NavigationLink  `json:"link,omitempty"`
	SubNavigation []NavigationItem `json:"subNavigation,omitempty"`
}

// Navigation is the site navigation tree.
type Navigation struct {
	TopLevel []NavigationItem `json:"topLevel"`
}

// HomeProducts groups the three curated home screen shelves.
type HomeProducts struct {
	NewArrivals []Product
	BestSellers []Product
	Trending    []Product
}

var schemeAndHost = regexp.MustCompile(`^https?://[^/]+`)

// AsPagePath normalises a URL or path into the page path the catalog
// API expects: no scheme or host, no trailing slash, no .list suffix.
// Collection paths keep their leading slash; product paths do not.
func AsPagePath(path string) string {
	clean := schemeAndHost.ReplaceAllString(path, "")
	clean = strings.Trim(clean, "/")
	clean = strings.TrimSuffix(clean, ".list")

	if i := strings.Index(clean, "c/"); i >= 0 {
		return "/c/" + clean[i+len("c/"):]
	}
	if strings.Contains(clean, "p/") {
		return clean
	}
	return "/" + clean
}
