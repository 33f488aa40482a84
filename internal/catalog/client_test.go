package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Palgie/luxury-beauty-app/internal/graphql"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeExecutor struct {
	lastReq *graphql.Request
	resp    *graphql.Response
	err     error
}

func (f *fakeExecutor) Execute(_ context.Context, req *graphql.Request) (*graphql.Response, error) {
	f.lastReq = req
	return f.resp, f.err
}

func newTestCatalogClient(t *testing.T, exec Executor) *Client {
	t.Helper()
	c, err := NewClient(exec, DefaultConfig(), testLogger())
	require.NoError(t, err)
	return c
}

func dataResponse(s string) *graphql.Response {
	return &graphql.Response{Data: json.RawMessage(s)}
}

func TestNewClient_RejectsInvalidConfig(t *testing.T) {
	_, err := NewClient(&fakeExecutor{}, Config{
		Currency:            "POUNDS",
		ShippingDestination: "GB",
		PageSize:            20,
	}, testLogger())
	assert.Error(t, err)
}

func TestSearch_DecodesProductList(t *testing.T) {
	exec := &fakeExecutor{resp: dataResponse(`{
		"search": {
			"productList": {
				"total": 2,
				"hasMore": true,
				"products": [
					{"sku": "11buy", "title": "Night Cream", "brand": {"name": "Glow"},
					 "images": [{"largeProduct": "https://cdn.example/11buy.jpg"}],
					 "cheapestVariant": {"sku": "11buy-v", "inStock": true, "price": {
						"price": {"amount": 18.00, "currency": "GBP", "displayValue": "£18.00"},
						"rrp": {"amount": 24.00, "currency": "GBP", "displayValue": "£24.00"}}}},
					{"sku": "22buy", "title": "Day Cream"}
				]
			}
		}
	}`)}
	c := newTestCatalogClient(t, exec)

	page, err := c.Search(context.Background(), "cream", ListParams{Limit: 20, Sort: SortPopularity})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Total)
	assert.True(t, page.HasMore)
	require.Len(t, page.Products, 2)

	p := page.Products[0]
	assert.Equal(t, "Glow", p.BrandName())
	assert.Equal(t, "https://cdn.example/11buy.jpg", p.ImageURL())
	assert.True(t, p.Price().IsDiscounted())
	assert.Equal(t, "£18.00", p.Price().Price.Display())

	assert.Equal(t, "SearchProducts", exec.lastReq.OperationName)
	assert.Equal(t, "cream", exec.lastReq.Variables["query"])
	assert.Equal(t, "GBP", exec.lastReq.Variables["currency"])
	assert.Equal(t, "GB", exec.lastReq.Variables["shippingDestination"])
}

func TestSearch_SendsEmptyFacetsArrayNotNull(t *testing.T) {
	exec := &fakeExecutor{resp: dataResponse(`{"search":{"productList":{"total":0,"hasMore":false,"products":[]}}}`)}
	c := newTestCatalogClient(t, exec)

	_, err := c.Search(context.Background(), "", ListParams{Limit: 20, Sort: SortPopularity})
	require.NoError(t, err)

	facets, ok := exec.lastReq.Variables["facets"].([]FacetSelection)
	require.True(t, ok)
	assert.NotNil(t, facets)
	assert.Empty(t, facets)
}

func TestSearch_RejectsInvalidParams(t *testing.T) {
	c := newTestCatalogClient(t, &fakeExecutor{})

	_, err := c.Search(context.Background(), "x", ListParams{Offset: -1, Limit: 20, Sort: SortPopularity})
	assert.Error(t, err)

	_, err = c.Search(context.Background(), "x", ListParams{Limit: 20, Sort: "ALPHABETICAL"})
	assert.Error(t, err)
}

func TestProductList_FindsProductListWidget(t *testing.T) {
	exec := &fakeExecutor{resp: dataResponse(`{
		"page": {
			"title": "Skincare",
			"widgets": [
				{"__typename": "GlobalPrimaryBanner", "id": "banner-1"},
				{"__typename": "ProductListWidget", "id": "plw-1", "productList": {
					"total": 120,
					"hasMore": true,
					"facets": [
						{"__typename": "SimpleFacet", "facetName": "brand", "facetHeader": "Brand",
						 "options": [{"optionName": "glow", "displayName": "Glow", "matchedProductCount": 14}]},
						{"__typename": "SliderFacet", "facetName": "price", "facetHeader": "Price",
						 "minValue": 5, "maxValue": 120}
					],
					"products": [{"sku": "11buy", "title": "Night Cream"}]
				}}
			]
		}
	}`)}
	c := newTestCatalogClient(t, exec)

	page, err := c.ProductList(context.Background(), "https://www.example.com/skincare/c/moisturisers/", ListParams{Limit: 20, Sort: SortPopularity})
	require.NoError(t, err)

	assert.Equal(t, 120, page.Total)
	require.Len(t, page.Facets, 2)
	assert.IsType(t, SimpleFacet{}, page.Facets[0])
	assert.IsType(t, SliderFacet{}, page.Facets[1])

	assert.Equal(t, "/c/moisturisers", exec.lastReq.Variables["handle"])
}

func TestProductList_PageNotFound(t *testing.T) {
	exec := &fakeExecutor{resp: dataResponse(`{"page": null}`)}
	c := newTestCatalogClient(t, exec)

	_, err := c.ProductList(context.Background(), "/c/gone", ListParams{Limit: 20, Sort: SortPopularity})
	assert.ErrorContains(t, err, "page not found")
}

func TestProductList_NoProductListWidget(t *testing.T) {
	exec := &fakeExecutor{resp: dataResponse(`{"page": {"title": "Editorial", "widgets": [{"__typename": "GlobalPrimaryBanner", "id": "b1"}]}}`)}
	c := newTestCatalogClient(t, exec)

	_, err := c.ProductList(context.Background(), "/c/editorial", ListParams{Limit: 20, Sort: SortPopularity})
	assert.ErrorContains(t, err, "no product list")
}

func TestProduct_DecodesVariants(t *testing.T) {
	exec := &fakeExecutor{resp: dataResponse(`{
		"product": {
			"sku": "11buy",
			"title": "Night Cream",
			"variants": [
				{"sku": "11buy-30", "title": "30ml", "inStock": true,
				 "choices": [{"optionKey": "size", "key": "30ml", "title": "30ml"}],
				 "price": {"price": {"amount": 18, "currency": "GBP"}, "rrp": {"amount": 18, "currency": "GBP"}}},
				{"sku": "11buy-50", "title": "50ml", "inStock": false,
				 "price": {"price": {"amount": 26, "currency": "GBP"}, "rrp": {"amount": 26, "currency": "GBP"}}}
			]
		}
	}`)}
	c := newTestCatalogClient(t, exec)

	p, err := c.Product(context.Background(), "11buy")
	require.NoError(t, err)
	require.Len(t, p.Variants, 2)
	assert.True(t, p.Variants[0].InStock)
	assert.False(t, p.Variants[1].InStock)
}

func TestProduct_NotFound(t *testing.T) {
	exec := &fakeExecutor{resp: dataResponse(`{"product": null}`)}
	c := newTestCatalogClient(t, exec)

	_, err := c.Product(context.Background(), "missing")
	assert.ErrorContains(t, err, "product not found")
}

func TestProduct_RequiresSKU(t *testing.T) {
	c := newTestCatalogClient(t, &fakeExecutor{})

	_, err := c.Product(context.Background(), "")
	assert.ErrorContains(t, err, "sku is required")
}

func TestHomeProducts_DecodesAllShelves(t *testing.T) {
	exec := &fakeExecutor{resp: dataResponse(`{
		"newProducts": {"productList": {"products": [{"sku": "n1", "title": "New"}]}},
		"bestSellers": {"productList": {"products": [{"sku": "b1", "title": "Best"}, {"sku": "b2", "title": "Best 2"}]}},
		"trending": {"productList": {"products": [{"sku": "t1", "title": "Trend"}]}}
	}`)}
	c := newTestCatalogClient(t, exec)

	home, err := c.HomeProducts(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, home.NewArrivals, 1)
	assert.Len(t, home.BestSellers, 2)
	assert.Len(t, home.Trending, 1)
}

func TestSearch_ForwardsPartialDataWithError(t *testing.T) {
	exec := &fakeExecutor{
		resp: dataResponse(`{"search":{"productList":{"total":1,"hasMore":false,"products":[{"sku":"11buy","title":"Night Cream"}]}}}`),
		err:  &graphql.PartialError{Operation: "SearchProducts", Errors: []graphql.ResponseError{{Message: "reviews unavailable"}}},
	}
	c := newTestCatalogClient(t, exec)

	page, err := c.Search(context.Background(), "cream", ListParams{Limit: 20, Sort: SortPopularity})

	var partialErr *graphql.PartialError
	require.ErrorAs(t, err, &partialErr)
	require.NotNil(t, page)
	assert.Len(t, page.Products, 1)
}

func TestSearch_LogsPartialResponses(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))
	exec := &fakeExecutor{
		resp: dataResponse(`{"search":{"productList":{"total":1,"hasMore":false,"products":[{"sku":"11buy","title":"Night Cream"}]}}}`),
		err:  &graphql.PartialError{Operation: "SearchProducts", Errors: []graphql.ResponseError{{Message: "reviews unavailable"}}},
	}
	c, err := NewClient(exec, DefaultConfig(), l)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "cream", ListParams{Limit: 20, Sort: SortPopularity})
	require.Error(t, err)

	assert.Contains(t, buf.String(), "using partial response")
	assert.Contains(t, buf.String(), "SearchProducts")
}

func TestHeaderNavigation(t *testing.T) {
	exec := &fakeExecutor{resp: dataResponse(`{
		"header": {"navigation": {"topLevel": [
			{"type": "TEXT", "displayName": "Skincare", "link": {"url": "/c/skincare"},
			 "subNavigation": [{"displayName": "Moisturisers", "link": {"url": "/c/moisturisers"}}]}
		]}}
	}`)}
	c := newTestCatalogClient(t, exec)

	nav, err := c.HeaderNavigation(context.Background())
	require.NoError(t, err)
	require.Len(t, nav.TopLevel, 1)
	assert.Equal(t, "Skincare", nav.TopLevel[0].DisplayName)
	require.Len(t, nav.TopLevel[0].SubNavigation, 1)
}
