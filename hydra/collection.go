// Package hydra renders JSON-LD collection envelopes with Hydra paging
// links.
package hydra

import (
	"fmt"
	"net/url"
	"strings"

	"catalog/pagination"
)

func Context(resource string) string {
	return "/api/contexts/" + resource
}

// Param is one query parameter carried into every page link.
type Param struct {
	Key   string
	Value string
}

type View struct {
	ID       string `json:"@id"`
	Type     string `json:"@type"`
	First    string `json:"hydra:first"`
	Last     string `json:"hydra:last"`
	Previous string `json:"hydra:previous,omitempty"`
	Next     string `json:"hydra:next,omitempty"`
}

type Collection struct {
	Context    string       `json:"@context"`
	ID         string       `json:"@id"`
	Type       string       `json:"@type"`
	TotalItems int64        `json:"hydra:totalItems"`
	Member     []any        `json:"hydra:member"`
	View       View         `json:"hydra:view"`
	Search     *IriTemplate `json:"hydra:search,omitempty"`
}

// NewCollection builds the envelope for one page of resource items found at
// path. total is the size of the filtered set before paging.
func NewCollection(resource, path string, members []any, total int64, page pagination.Page, params []Param) Collection {
	if members == nil {
		members = []any{}
	}
	last := pagination.LastPage(total, page.PerPage)

	view := View{
		ID:    pageLink(path, params, page.Number),
		Type:  "hydra:PartialCollectionView",
		First: pageLink(path, params, 1),
		Last:  pageLink(path, params, last),
	}
	if page.Number > 1 {
		view.Previous = pageLink(path, params, page.Number-1)
	}
	if page.Number < last {
		view.Next = pageLink(path, params, page.Number+1)
	}

	return Collection{
		Context:    Context(resource),
		ID:         path,
		Type:       "hydra:Collection",
		TotalItems: total,
		Member:     members,
		View:       view,
	}
}

func pageLink(path string, params []Param, page int) string {
	parts := make([]string, 0, len(params)+1)
	for _, p := range params {
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	parts = append(parts, fmt.Sprintf("page=%d", page))
	return path + "?" + strings.Join(parts, "&")
}
