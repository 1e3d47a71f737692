// Package pagination slices ordered result sets into fixed-size pages.
package pagination

import "strconv"

// PostsPerPage is the fixed page size used by every feed.
const PostsPerPage = 10

// Page is one slice of an ordered sequence plus its metadata.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ParsePage reads a 1-based page number from a query parameter.
// Absent, malformed or non-positive values fall back to page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// TotalPages returns the number of pages needed for total items.
// An empty sequence still has one (empty) page.
func TotalPages(total int64, size int) int {
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Clamp bounds a requested page number to the last available page and
// returns the final page number together with the row offset to query.
func Clamp(number int, total int64, size int) (page, offset int) {
	page = number
	if last := TotalPages(total, size); page > last {
		page = last
	}
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * size
}

// New assembles a page from an already-sliced item set.
func New[T any](items []T, number int, total int64, size int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := TotalPages(total, size)
	return Page[T]{
		Items:      items,
		Number:     number,
		Size:       size,
		TotalItems: total,
		TotalPages: pages,
		HasNext:    number < pages,
		HasPrev:    number > 1,
	}
}
