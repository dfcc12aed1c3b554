package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	p, err := FromRequest(req)

	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offset())
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?page=3&page_size=50", nil)
	p, err := FromRequest(req)

	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PageSize)
	assert.Equal(t, 100, p.Offset()) // (3-1) * 50
}

func TestFromRequest_PageZero(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?page=0", nil)
	_, err := FromRequest(req)
	assert.Error(t, err)
}

func TestFromRequest_PageNegative(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?page=-1", nil)
	_, err := FromRequest(req)
	assert.Error(t, err)
}

func TestFromRequest_PageNotNumber(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?page=abc", nil)
	_, err := FromRequest(req)
	assert.Error(t, err)
}

func TestFromRequest_PageSizeOverMax(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?page_size=101", nil)
	_, err := FromRequest(req)
	assert.Error(t, err)
}

func TestFromRequest_PageSizeExactlyMax(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?page_size=100", nil)
	p, err := FromRequest(req)

	require.NoError(t, err)
	assert.Equal(t, 100, p.PageSize)
}

func TestFromRequest_PageSizeZero(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?page_size=0", nil)
	_, err := FromRequest(req)
	assert.Error(t, err)
}

func TestParams_OffsetCalculation(t *testing.T) {
	tests := []struct {
		page     int
		pageSize int
		offset   int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{3, 25, 50},
		{5, 20, 80},
	}
	for _, tt := range tests {
		p := Params{Page: tt.page, PageSize: tt.pageSize}
		assert.Equal(t, tt.offset, p.Offset())
		assert.Equal(t, tt.pageSize, p.Limit())
	}
}
