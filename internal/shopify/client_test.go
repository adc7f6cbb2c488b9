package shopify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/config"
)

const catalogJSON = `{"products": [
	{"id": 1, "title": "Blue Running Shoe", "variants": [{"id": 11, "title": "42", "price": "89.90"}]},
	{"id": 2, "title": "Red Cap"},
	{"id": 3, "title": "Trail SHOE Pro"},
	{"id": 4, "title": "Shoe Cleaner"}
]}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient(config.ShopifyConfig{
		StoreDomain: "example.myshopify.com",
		APIKey:      "shpat_test",
		APIVersion:  "2024-07",
	}, srv.Client(), zap.NewNop(), nil)
	return c.WithBaseURL(srv.URL + "/admin/api/2024-07")
}

func TestGetProducts(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/api/2024-07/products.json", r.URL.Path)
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		require.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		_, _ = io.WriteString(w, catalogJSON)
	})

	products, err := c.GetProducts(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, products, 4)
	require.Equal(t, "Blue Running Shoe", products[0].Title)
	require.Equal(t, "89.90", products[0].Variants[0].Price)
}

func TestGetProductsClampsLimit(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		got []string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.URL.Query().Get("limit"))
		mu.Unlock()
		_, _ = io.WriteString(w, `{"products": []}`)
	})

	_, err := c.GetProducts(context.Background(), 0)
	require.NoError(t, err)
	_, err = c.GetProducts(context.Background(), 1000)
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"1", "250"}, got)
}

func TestGetProductsNon2xx(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"errors": "[API] Invalid API key"}`)
	})

	_, err := c.GetProducts(context.Background(), 5)
	require.ErrorContains(t, err, "401")
}

func TestSearchProductByTitle(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "50", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, catalogJSON)
	})

	products, err := c.SearchProductByTitle(context.Background(), "shoe", 2)
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, int64(1), products[0].ID)
	require.Equal(t, int64(3), products[1].ID)

	products, err = c.SearchProductByTitle(context.Background(), "umbrella", 3)
	require.NoError(t, err)
	require.Empty(t, products)
}

func TestSearchFetchesAtLeastLimit(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "80", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, catalogJSON)
	})

	products, err := c.SearchProductByTitle(context.Background(), "SHOE", 80)
	require.NoError(t, err)
	require.Len(t, products, 3)
}
