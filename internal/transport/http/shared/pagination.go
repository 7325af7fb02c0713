package shared

import "net/http"

type Pagination struct {
	Limit  int
	Offset int
}

func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	limit := IntQuery(r, "limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	offset := IntQuery(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Limit: limit, Offset: offset}
}
