package dto

type CreateCommunityRequest struct {
	ID        string `json:"id" binding:"required,max=64"`
	Name      string `json:"name" binding:"required,max=100"`
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Image     string `json:"image" binding:"omitempty,url"`
	Bio       string `json:"bio" binding:"max=1000"`
	IsPrivate bool   `json:"is_private"`
}

type UpdateCommunityRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Image    string `json:"image" binding:"omitempty,url"`
}

type AddAdminRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type CommunityFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=50"`
	SortBy   string `form:"sort_by"` // "asc" or "desc" over creation time
}

type CommunitySummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type CommunityResponse struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Username     string        `json:"username"`
	Image        string        `json:"image"`
	Bio          string        `json:"bio"`
	IsPrivate    bool          `json:"is_private"`
	CreatedBy    *UserSummary  `json:"created_by"`
	Members      []UserSummary `json:"members"`
	Admins       []UserSummary `json:"admins,omitempty"`
	JoinRequests []UserSummary `json:"join_requests,omitempty"`
	CreatedAt    string        `json:"created_at"`
}

type PaginatedCommunityResponse struct {
	Communities []CommunityResponse `json:"communities"`
	IsNext      bool                `json:"is_next"`
}
