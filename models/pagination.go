package models

// PaginationMetadata holds information about the pagination state.
type PaginationMetadata struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	Limit       int `json:"limit"`
}

// PaginatedResponse is a generic wrapper for paginated API responses.
type PaginatedResponse struct {
	Data       interface{}        `json:"data"` // []Grant, []FundingCall, ...
	Pagination PaginationMetadata `json:"pagination"`
}

// NewPaginatedResponse wraps a page of data with its metadata.
func NewPaginatedResponse(data interface{}, totalItems, page, limit int) PaginatedResponse {
	totalPages := 0
	if totalItems > 0 && limit > 0 {
		totalPages = (totalItems + limit - 1) / limit
	}
	return PaginatedResponse{
		Data: data,
		Pagination: PaginationMetadata{
			TotalItems:  totalItems,
			TotalPages:  totalPages,
			CurrentPage: page,
			Limit:       limit,
		},
	}
}
