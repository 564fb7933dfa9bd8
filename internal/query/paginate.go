package query

// Pagination describes the window a Page was cut from.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// Page is a window over a result list.
type Page[T any] struct {
	Items      []T        `json:"results"`
	Pagination Pagination `json:"pagination"`
}

// Paginate cuts items[offset:offset+limit]. limit <= 0 returns everything
// from offset on; a negative offset is treated as zero.
func Paginate[T any](items []T, limit, offset int) Page[T] {
	total := len(items)
	offset = min(max(offset, 0), total)
	end := total
	if limit > 0 {
		end = min(offset+limit, total)
	} else {
		limit = 0
	}

	return Page[T]{
		Items: items[offset:end],
		Pagination: Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: end < total,
		},
	}
}
