package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/eleven-jw/ecom-lab/pkg/httpclient"
)

// CatalogClient serves read-only catalog endpoints. The catalog contributes no
// invariant logic; responses are passed through as raw JSON.
type CatalogClient struct {
	httpClient HTTPDoer
	baseURL    string
}

// NewCatalogClient creates a catalog backend client.
func NewCatalogClient(httpClient HTTPDoer, baseURL string) *CatalogClient {
	return &CatalogClient{httpClient: httpClient, baseURL: baseURL}
}

// Banners fetches the home page banner list.
func (c *CatalogClient) Banners(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/catalog/banners", nil)
}

// Categories fetches the category tree.
func (c *CatalogClient) Categories(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/catalog/categories", nil)
}

// Products fetches a product listing. The query is forwarded untouched
// (page, pageSize, categoryId, keyword, sort, minPrice, maxPrice).
func (c *CatalogClient) Products(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.get(ctx, "/catalog/products", query)
}

// Product fetches a single product detail.
func (c *CatalogClient) Product(ctx context.Context, productID string) (json.RawMessage, error) {
	return c.get(ctx, "/catalog/products/"+url.PathEscape(productID), nil)
}

func (c *CatalogClient) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call catalog: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}
	return json.RawMessage(body), nil
}
