package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	p := FromRequest(httptest.NewRequest("GET", "/api/v1/products", nil))
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_Explicit(t *testing.T) {
	p := FromRequest(httptest.NewRequest("GET", "/api/v1/products?page=3&per_page=10", nil))
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 20, p.Offset)
}

func TestFromRequest_InvalidValues(t *testing.T) {
	p := FromRequest(httptest.NewRequest("GET", "/api/v1/products?page=-1&per_page=9999", nil))
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
}

func TestNewResult_TotalPages(t *testing.T) {
	params := Params{Page: 1, PerPage: 20}
	r := NewResult([]int{1, 2, 3}, 45, params)
	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)
	assert.False(t, r.HasPrev)
}

func TestNewResult_NilData(t *testing.T) {
	r := NewResult[int](nil, 0, Params{Page: 1, PerPage: 20})
	assert.NotNil(t, r.Data)
	assert.Empty(t, r.Data)
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, Window(items, Params{Page: 2, PerPage: 2, Offset: 2}))
	assert.Equal(t, []int{5}, Window(items, Params{Page: 3, PerPage: 2, Offset: 4}))
	assert.Empty(t, Window(items, Params{Page: 4, PerPage: 2, Offset: 6}))
}
