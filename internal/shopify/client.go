package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/config"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/logging"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/observability"
)

const (
	maxPageSize = 250
	searchPage  = 50
)

// Client reads products from the Shopify Admin REST API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     *zap.Logger
	metrics *observability.Metrics
}

func NewClient(cfg config.ShopifyConfig, httpClient *http.Client, log *zap.Logger, metrics *observability.Metrics) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: fmt.Sprintf("https://%s/admin/api/%s", cfg.StoreDomain, cfg.APIVersion),
		token:   cfg.APIKey,
		client:  httpClient,
		log:     log.Named("shopify"),
		metrics: metrics,
	}
}

// WithBaseURL points the client at another host. Used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// GetProducts fetches the first limit products; limit is clamped to [1, 250].
func (c *Client) GetProducts(ctx context.Context, limit int) ([]Product, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	url := c.baseURL + "/products.json?limit=" + strconv.Itoa(limit)
	c.log.Info("GET products", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordCatalog(false)
		return nil, fmt.Errorf("shopify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordCatalog(false)
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("shopify api error: %s body=%s", resp.Status, logging.Short(string(b), 300))
	}

	var payload struct {
		Products []Product `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.RecordCatalog(false)
		return nil, fmt.Errorf("decode products: %w", err)
	}

	c.metrics.RecordCatalog(true)
	if payload.Products == nil {
		payload.Products = []Product{}
	}
	return payload.Products, nil
}

// SearchProductByTitle returns up to limit products whose title contains
// query, case-insensitively, in catalog order. Only the first page of the
// catalog is scanned.
func (c *Client) SearchProductByTitle(ctx context.Context, query string, limit int) ([]Product, error) {
	if limit < 1 {
		return []Product{}, nil
	}
	page := searchPage
	if limit > page {
		page = limit
	}

	products, err := c.GetProducts(ctx, page)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	out := make([]Product, 0, limit)
	for _, p := range products {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out, nil
}
