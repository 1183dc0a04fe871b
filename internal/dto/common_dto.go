package dto

// UserSummary is the shape user references take everywhere on the API.
// ID is the external identity-provider id, never the internal row id.
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Image    string `json:"image"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalItems  int64 `json:"total_items"`
	PageSize    int   `json:"page_size"`
	IsNext      bool  `json:"is_next"`
}
