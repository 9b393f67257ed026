package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func paramsFor(rawQuery string) Params {
	req := httptest.NewRequest(http.MethodGet, "/orders?"+rawQuery, nil)
	return FromRequest(req)
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
		wantOffset  int
	}{
		{"no parameters", "", 1, 20, 0},
		{"explicit page and size", "page=3&per_page=50", 3, 50, 100},
		{"negative page falls back", "page=-1", 1, 20, 0},
		{"zero page falls back", "page=0", 1, 20, 0},
		{"non-numeric page falls back", "page=abc", 1, 20, 0},
		{"per_page above cap falls back", "per_page=200", 1, 20, 0},
		{"per_page at cap allowed", "per_page=100", 1, 100, 0},
		{"zero per_page falls back", "per_page=0", 1, 20, 0},
		{"offset tracks page and size", "page=5&per_page=10", 5, 10, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paramsFor(tt.query)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestNewResult_SinglePage(t *testing.T) {
	data := []string{"order-1", "order-2", "order-3"}
	result := NewResult(data, 3, Params{Page: 1, PerPage: 10})

	assert.Equal(t, data, result.Data)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 1, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrev)
}

func TestNewResult_MiddlePage(t *testing.T) {
	result := NewResult([]string{"a", "b"}, 10, Params{Page: 2, PerPage: 2, Offset: 2})

	assert.Equal(t, 5, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_LastPartialPage(t *testing.T) {
	result := NewResult([]string{"a"}, 11, Params{Page: 3, PerPage: 5, Offset: 10})

	assert.Equal(t, 3, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_NilDataBecomesEmptySlice(t *testing.T) {
	result := NewResult[string](nil, 0, DefaultParams())

	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Data)
	assert.Equal(t, 0, result.TotalPages)
	assert.False(t, result.HasNext)
}
