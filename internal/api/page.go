package api

// Page is the paged-list shape returned by every list/query endpoint.
type Page[T any] struct {
	Records    []T   `json:"records"`
	PageNumber int64 `json:"pageNumber"`
	PageSize   int64 `json:"pageSize"`
	TotalPage  int64 `json:"totalPage"`
	TotalRow   int64 `json:"totalRow"`
}
