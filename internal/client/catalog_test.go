package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"
)

func TestProducts_ForwardsQuery(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"items":[],"total":0}`))
	}))
	defer server.Close()

	catalog := NewCatalogClient(plainDoer{}, server.URL)

	query := url.Values{}
	query.Set("categoryId", "cat-1")
	query.Set("keyword", "lamp")
	query.Set("page", "2")

	raw, err := catalog.Products(context.Background(), query)

	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(raw))
	assert.Equal(t, "cat-1", gotQuery.Get("categoryId"))
	assert.Equal(t, "lamp", gotQuery.Get("keyword"))
	assert.Equal(t, "2", gotQuery.Get("page"))
}

func TestProduct_EscapesID(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"id":"a/b"}`))
	}))
	defer server.Close()

	catalog := NewCatalogClient(plainDoer{}, server.URL)

	_, err := catalog.Product(context.Background(), "a/b")

	require.NoError(t, err)
	assert.Equal(t, "/catalog/products/a%2Fb", gotPath)
}

func TestBanners_BackendErrorIsMapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no banners"}`))
	}))
	defer server.Close()

	catalog := NewCatalogClient(plainDoer{}, server.URL)

	_, err := catalog.Banners(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
