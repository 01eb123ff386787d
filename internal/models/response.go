package models

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success    bool       `json:"success"`
	Data       any        `json:"data,omitempty"`
	Message    string     `json:"message,omitempty"`
	Error      *ErrorBody `json:"error,omitempty"`
	Pagination *PageMeta  `json:"pagination,omitempty"`
}

// ErrorBody is the error part of a failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// PageMeta describes one page of a listing.
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPageMeta computes pages as ceil(total/limit).
func NewPageMeta(page, limit int, total int64) PageMeta {
	var pages int64
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return PageMeta{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Page carries a slice of results with its pagination metadata.
type Page[T any] struct {
	Items []T
	Meta  PageMeta
}
