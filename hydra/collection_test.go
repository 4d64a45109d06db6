package hydra

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/pagination"
)

func TestNewCollection_FirstPage(t *testing.T) {
	page, err := pagination.Parse("")
	require.NoError(t, err)

	c := NewCollection("Product", "/api/products", nil, 90, page, nil)

	assert.Equal(t, "/api/contexts/Product", c.Context)
	assert.Equal(t, "/api/products", c.ID)
	assert.Equal(t, "hydra:Collection", c.Type)
	assert.EqualValues(t, 90, c.TotalItems)
	assert.NotNil(t, c.Member)
	assert.Equal(t, View{
		ID:    "/api/products?page=1",
		Type:  "hydra:PartialCollectionView",
		First: "/api/products?page=1",
		Last:  "/api/products?page=9",
		Next:  "/api/products?page=2",
	}, c.View)
}

func TestNewCollection_MiddleAndLastPage(t *testing.T) {
	c := NewCollection("Product", "/api/products", nil, 90, pagination.Page{Number: 2, PerPage: 10}, nil)
	assert.Equal(t, "/api/products?page=1", c.View.Previous)
	assert.Equal(t, "/api/products?page=3", c.View.Next)

	c = NewCollection("Product", "/api/products", nil, 90, pagination.Page{Number: 9, PerPage: 10}, nil)
	assert.Equal(t, "/api/products?page=8", c.View.Previous)
	assert.Empty(t, c.View.Next)
}

func TestNewCollection_KeepsFilters(t *testing.T) {
	params := []Param{{Key: "name", Value: "drill bit"}, {Key: "order[issueDate]", Value: "desc"}}
	c := NewCollection("Product", "/api/products", nil, 25, pagination.Page{Number: 1, PerPage: 10}, params)

	assert.Equal(t, "/api/products?name=drill+bit&order%5BissueDate%5D=desc&page=1", c.View.ID)
	assert.Equal(t, "/api/products?name=drill+bit&order%5BissueDate%5D=desc&page=3", c.View.Last)
}

func TestCollection_JSONOmitsAbsentLinks(t *testing.T) {
	c := NewCollection("Manufacturer", "/api/manufacturers", []any{}, 3, pagination.Page{Number: 1, PerPage: 10}, nil)

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	view := doc["hydra:view"].(map[string]any)
	assert.NotContains(t, view, "hydra:previous")
	assert.NotContains(t, view, "hydra:next")
	assert.NotContains(t, doc, "hydra:search")
	assert.Equal(t, []any{}, doc["hydra:member"])
}

func TestSearchTemplate(t *testing.T) {
	tpl := SearchTemplate("/api/products",
		Filter{Variable: "name", Property: "name"},
		Filter{Variable: "order[issueDate]", Property: "issueDate"},
	)
	assert.Equal(t, "/api/products{?name,order[issueDate]}", tpl.Template)
	require.Len(t, tpl.Mapping, 2)
	assert.Equal(t, "issueDate", tpl.Mapping[1].Property)
}
