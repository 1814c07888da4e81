package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/storeqa/api-common/apiclient"
	"github.com/storeqa/api-common/batch"
	"github.com/storeqa/api-common/cache"
	"github.com/storeqa/api-common/cache/noop"
)

const (
	productsListEndpoint  = "/productsList"
	searchProductEndpoint = "/searchProduct"
	brandsListEndpoint    = "/brandsList"
)

// ProductsClient reads the store catalog. The full product and brand lists
// change rarely, so both are memoized through the configured cache.
type ProductsClient struct {
	api      *apiclient.Client
	cache    cache.Cache
	cacheTTL time.Duration
	logger   apiclient.Logger
}

// ProductsOption is a functional option for configuring a ProductsClient
type ProductsOption func(*ProductsClient)

// WithCache sets the response cache. Defaults to a no-op cache.
func WithCache(c cache.Cache, ttl time.Duration) ProductsOption {
	return func(p *ProductsClient) {
		p.cache = c
		p.cacheTTL = ttl
	}
}

// WithProductsLogger sets the logger for the ProductsClient
func WithProductsLogger(logger apiclient.Logger) ProductsOption {
	return func(p *ProductsClient) {
		p.logger = logger
	}
}

// NewProductsClient creates a catalog client on top of api
func NewProductsClient(api *apiclient.Client, opts ...ProductsOption) *ProductsClient {
	p := &ProductsClient{
		api:      api,
		cache:    noop.NewNoOpCache(),
		cacheTTL: 10 * time.Minute,
		logger:   apiclient.NoopLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// List fetches the full product catalog, serving from cache when a fresh
// entry exists.
func (p *ProductsClient) List(ctx context.Context) ([]Product, error) {
	if products, ok := p.cachedProducts(productsListEndpoint); ok {
		return products, nil
	}

	resp, err := apiclient.Get[productsResponse](ctx, p.api, productsListEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if err := checkResponseCode(productsListEndpoint, resp.Data.ResponseCode, resp.Data.Message); err != nil {
		return nil, err
	}

	p.storeProducts(productsListEndpoint, resp.Data.Products)
	return resp.Data.Products, nil
}

// Search queries the catalog for products matching term
func (p *ProductsClient) Search(ctx context.Context, term string) ([]Product, error) {
	resp, err := apiclient.Post[productsResponse](ctx, p.api, searchProductEndpoint,
		map[string]interface{}{"search_product": term})
	if err != nil {
		return nil, fmt.Errorf("failed to search products for %q: %w", term, err)
	}
	if err := checkResponseCode(searchProductEndpoint, resp.Data.ResponseCode, resp.Data.Message); err != nil {
		return nil, err
	}
	return resp.Data.Products, nil
}

// SearchMany runs one search per term, chunked to stay polite toward the
// site. Results are merged in term order; the first failure aborts the rest.
func (p *ProductsClient) SearchMany(ctx context.Context, terms []string, opts batch.Options) ([]Product, error) {
	return batch.Fetch(ctx, terms, opts, func(ctx context.Context, chunk []string) ([]Product, error) {
		var merged []Product
		for _, term := range chunk {
			products, err := p.Search(ctx, term)
			if err != nil {
				return nil, err
			}
			merged = append(merged, products...)
		}
		return merged, nil
	})
}

// Brands fetches the brand list, serving from cache when a fresh entry exists
func (p *ProductsClient) Brands(ctx context.Context) ([]Brand, error) {
	if entry, ok := p.cache.Get(brandsListEndpoint); ok {
		var brands []Brand
		if err := json.Unmarshal(entry.Data, &brands); err == nil {
			p.logger.Debug("brand list served from cache", "age_s", int(entry.Age().Seconds()))
			return brands, nil
		}
		p.cache.Delete(brandsListEndpoint)
	}

	resp, err := apiclient.Get[brandsResponse](ctx, p.api, brandsListEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	if err := checkResponseCode(brandsListEndpoint, resp.Data.ResponseCode, resp.Data.Message); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp.Data.Brands); err == nil {
		p.cache.Set(brandsListEndpoint, data, p.cacheTTL)
	}
	return resp.Data.Brands, nil
}

func (p *ProductsClient) cachedProducts(key string) ([]Product, bool) {
	entry, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}

	var products []Product
	if err := json.Unmarshal(entry.Data, &products); err != nil {
		p.logger.Warn("dropping undecodable cache entry", "key", key, "error", err)
		p.cache.Delete(key)
		return nil, false
	}

	p.logger.Debug("product list served from cache", "key", key, "age_s", int(entry.Age().Seconds()))
	return products, true
}

func (p *ProductsClient) storeProducts(key string, products []Product) {
	data, err := json.Marshal(products)
	if err != nil {
		p.logger.Warn("failed to encode products for caching", "key", key, "error", err)
		return
	}
	p.cache.Set(key, data, p.cacheTTL)
}
