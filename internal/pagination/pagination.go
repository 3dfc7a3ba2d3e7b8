// Package pagination slices an ordered listing into fixed-size pages.
package pagination

import "strconv"

// PostsOnPage is the fixed page size for every timeline.
const PostsOnPage = 10

type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int
	HasNext  bool
	HasPrev  bool
}

func (p Page[T]) NextNumber() int { return p.Number + 1 }
func (p Page[T]) PrevNumber() int { return p.Number - 1 }

// ParseNumber reads a page query parameter. Anything missing, malformed
// or below 1 means page 1.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Paginate returns the window of up to PostsOnPage items for the given
// 1-indexed page. Out-of-range numbers clamp to the nearest valid page,
// so an empty listing yields page 1 of 1 with no items. The input slice
// is never mutated.
func Paginate[T any](items []T, number int) Page[T] {
	numPages := (len(items) + PostsOnPage - 1) / PostsOnPage
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	start := (number - 1) * PostsOnPage
	end := start + PostsOnPage
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:    items[start:end],
		Number:   number,
		NumPages: numPages,
		Count:    len(items),
		HasNext:  number < numPages,
		HasPrev:  number > 1,
	}
}
