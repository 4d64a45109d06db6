// Package pagination turns the page query parameter into offsets and checks
// it against the size of the filtered result set.
package pagination

import (
	"strconv"

	"catalog/apierr"
)

// ItemsPerPage is fixed for every collection.
const ItemsPerPage = 10

type Page struct {
	Number  int
	PerPage int
}

// Parse reads a 1-based page number. An empty value means the first page.
func Parse(raw string) (Page, error) {
	if raw == "" {
		return Page{Number: 1, PerPage: ItemsPerPage}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return Page{}, apierr.PageOutOfRange("Page should be an integer, %q given", raw)
	}
	if n < 1 {
		return Page{}, apierr.PageOutOfRange("Page should not be less than 1")
	}
	return Page{Number: n, PerPage: ItemsPerPage}, nil
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Check fails when the page lies past the last page for total items.
func (p Page) Check(total int64) error {
	last := LastPage(total, p.PerPage)
	if p.Number > last {
		return apierr.PageOutOfRange("Page should not be greater than %d", last)
	}
	return nil
}

// LastPage is never below 1, so an empty collection still has a first page.
func LastPage(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
