package utils

import (
	"math"
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetPaginationParams reads ?page and ?limit. Missing or unusable values fall
// back to page 1 and the default page size; limit is capped at maxPageSize and
// page so that the resulting offset fits a Postgres integer.
func GetPaginationParams(r *http.Request) (page, limit int) {
	q := r.URL.Query()

	limit = positiveInt(q.Get("limit"), defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	page = positiveInt(q.Get("page"), 1)
	if last := math.MaxInt32/limit + 1; page > last {
		page = last
	}
	return page, limit
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Offset converts a page and limit into a row offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}
