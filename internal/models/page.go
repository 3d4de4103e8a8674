package models

// Page is the pagination envelope every list endpoint returns.
// TotalPages = ceil(TotalItems / PageSize).
type Page[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

func NewPage[T any](items []T, page, pageSize int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Page[T]{
		Items:       items,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  pages,
	}
}

// ClampPage normalizes caller-supplied pagination: page and pageSize below 1
// fall back to 1 and def respectively.
func ClampPage(page, pageSize, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = def
	}
	return page, pageSize
}
