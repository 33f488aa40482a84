package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Palgie/luxury-beauty-app/internal/graphql"
	"github.com/Palgie/luxury-beauty-app/pkg/validator"
)

// Executor runs a GraphQL operation. *graphql.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, req *graphql.Request) (*graphql.Response, error)
}

// Config holds catalog client settings.
type Config struct {
	Currency            string `validate:"required,iso4217"`
	ShippingDestination string `validate:"required,len=2"`
	PageSize            int    `validate:"min=1,max=100"`
}

// DefaultConfig returns the UK storefront defaults.
func DefaultConfig() Config {
	return Config{
		Currency:            "GBP",
		ShippingDestination: "GB",
		PageSize:            20,
	}
}

// ListParams selects a page of a product listing.
type ListParams struct {
	Offset int        `validate:"gte=0"`
	Limit  int        `validate:"min=1,max=100"`
	Sort   SortOption `validate:"required"`
	Facets []FacetSelection
}

// Client is a typed catalog API client on top of the GraphQL transport.
type Client struct {
	exec   Executor
	cfg    Config
	logger *slog.Logger
}

// NewClient validates cfg and returns a catalog client.
func NewClient(exec Executor, cfg Config, logger *slog.Logger) (*Client, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("catalog config: %w", err)
	}
	return &Client{exec: exec, cfg: cfg, logger: logger}, nil
}

func (c *Client) validateListParams(p ListParams) error {
	if err := validator.Validate(p); err != nil {
		return err
	}
	if !p.Sort.Valid() {
		return fmt.Errorf("catalog: invalid sort option %q", p.Sort)
	}
	return nil
}

// execute runs the operation and decodes data into out. A partial
// response is decoded and the *graphql.PartialError is returned with
// the decoded value so callers can use what arrived.
func (c *Client) execute(ctx context.Context, req *graphql.Request, out any) error {
	resp, execErr := c.exec.Execute(ctx, req)
	if execErr != nil {
		var partialErr *graphql.PartialError
		if !errors.As(execErr, &partialErr) {
			return execErr
		}
		c.logger.WarnContext(ctx, "using partial response",
			slog.String("operation", req.OperationName),
			slog.Int("error_count", len(partialErr.Errors)),
		)
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.OperationName, err)
	}
	return execErr
}

func facetsVariable(facets []FacetSelection) []FacetSelection {
	if facets == nil {
		return []FacetSelection{}
	}
	return facets
}

// Search runs a free-text product search.
func (c *Client) Search(ctx context.Context, query string, p ListParams) (*ProductListPage, error) {
	if err := c.validateListParams(p); err != nil {
		return nil, err
	}

	req := &graphql.Request{
		OperationName: "SearchProducts",
		Query:         querySearchProducts,
		Variables: map[string]any{
			"query":               query,
			"currency":            c.cfg.Currency,
			"shippingDestination": c.cfg.ShippingDestination,
			"offset":              p.Offset,
			"limit":               p.Limit,
			"sort":                p.Sort,
			"facets":              facetsVariable(p.Facets),
		},
	}

	var data struct {
		Search struct {
			ProductList ProductListPage `json:"productList"`
		} `json:"search"`
	}
	if err := c.execute(ctx, req, &data); err != nil && !isPartial(err) {
		return nil, err
	} else if err != nil {
		return &data.Search.ProductList, err
	}
	return &data.Search.ProductList, nil
}

// ProductList fetches the product list widget of a collection page.
// The page path is normalised with AsPagePath before sending.
func (c *Client) ProductList(ctx context.Context, pagePath string, p ListParams) (*ProductListPage, error) {
	if err := c.validateListParams(p); err != nil {
		return nil, err
	}

	req := &graphql.Request{
		OperationName: "CollectionPage",
		Query:         queryCollectionPage,
		Variables: map[string]any{
			"handle":              AsPagePath(pagePath),
			"currency":            c.cfg.Currency,
			"shippingDestination": c.cfg.ShippingDestination,
			"offset":              p.Offset,
			"limit":               p.Limit,
			"sort":                p.Sort,
			"facets":              facetsVariable(p.Facets),
		},
	}

	var data struct {
		Page *struct {
			Title   string            `json:"title"`
			Widgets []json.RawMessage `json:"widgets"`
		} `json:"page"`
	}
	execErr := c.execute(ctx, req, &data)
	if execErr != nil && !isPartial(execErr) {
		return nil, execErr
	}
	if data.Page == nil {
		return nil, fmt.Errorf("catalog: page not found: %s", pagePath)
	}

	for _, raw := range data.Page.Widgets {
		var probe struct {
			TypeName    string           `json:"__typename"`
			ProductList *ProductListPage `json:"productList"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("decode page widget: %w", err)
		}
		if probe.TypeName == "ProductListWidget" && probe.ProductList != nil {
			return probe.ProductList, execErr
		}
	}
	return nil, fmt.Errorf("catalog: page has no product list: %s", pagePath)
}

// Product fetches a single product with its variants by SKU.
func (c *Client) Product(ctx context.Context, sku string) (*Product, error) {
	if sku == "" {
		return nil, fmt.Errorf("catalog: sku is required")
	}

	req := &graphql.Request{
		OperationName: "GetProductDetails",
		Query:         queryProductDetails,
		Variables: map[string]any{
			"sku":                 sku,
			"currency":            c.cfg.Currency,
			"shippingDestination": c.cfg.ShippingDestination,
		},
	}

	var data struct {
		Product *Product `json:"product"`
	}
	if err := c.execute(ctx, req, &data); err != nil && !isPartial(err) {
		return nil, err
	}
	if data.Product == nil {
		return nil, fmt.Errorf("catalog: product not found: %s", sku)
	}
	return data.Product, nil
}

// HomeProducts fetches the three curated home screen shelves in one
// round trip using aliased searches.
func (c *Client) HomeProducts(ctx context.Context, limit int) (*HomeProducts, error) {
	if limit < 1 {
		limit = c.cfg.PageSize
	}

	req := &graphql.Request{
		OperationName: "GetHomeProducts",
		Query:         queryHomeProducts,
		Variables: map[string]any{
			"currency":            c.cfg.Currency,
			"shippingDestination": c.cfg.ShippingDestination,
			"limit":               limit,
		},
	}

	type shelf struct {
		ProductList struct {
			Products []Product `json:"products"`
		} `json:"productList"`
	}
	var data struct {
		NewProducts shelf `json:"newProducts"`
		BestSellers shelf `json:"bestSellers"`
		Trending    shelf `json:"trending"`
	}
	execErr := c.execute(ctx, req, &data)
	if execErr != nil && !isPartial(execErr) {
		return nil, execErr
	}

	return &HomeProducts{
		NewArrivals: data.NewProducts.ProductList.Products,
		BestSellers: data.BestSellers.ProductList.Products,
		Trending:    data.Trending.ProductList.Products,
	}, execErr
}

// HeaderNavigation fetches the site navigation tree.
func (c *Client) HeaderNavigation(ctx context.Context) (*Navigation, error) {
	req := &graphql.Request{
		OperationName: "HeaderNavigation",
		Query:         queryHeaderNavigation,
	}

	var data struct {
		Header struct {
			Navigation Navigation `json:"navigation"`
		} `json:"header"`
	}
	if err := c.execute(ctx, req, &data); err != nil && !isPartial(err) {
		return nil, err
	}
	return &data.Header.Navigation, nil
}

func isPartial(err error) bool {
	var partialErr *graphql.PartialError
	return errors.As(err, &partialErr)
}
