package dto

type CreateThreadRequest struct {
	Text        string `json:"text" binding:"required,max=5000"`
	CommunityID string `json:"community_id"` // empty = personal post
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

type ThreadFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=50"`
}

// ChildPreview carries just enough of a reply for feed cards
// (avatar stacks under a post).
type ChildPreview struct {
	Author *UserSummary `json:"author"`
}

type ThreadResponse struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	ParentID  *string           `json:"parent_id"`
	Author    *UserSummary      `json:"author"`
	Community *CommunitySummary `json:"community"`
	Children  []ChildPreview    `json:"children"`
	Likes     []string          `json:"likes"`
	CreatedAt string            `json:"created_at"`
}

// ThreadDetailResponse carries two levels of replies, matching what the
// thread page renders.
type ThreadDetailResponse struct {
	ID        string                 `json:"id"`
	Text      string                 `json:"text"`
	ParentID  *string                `json:"parent_id"`
	Author    *UserSummary           `json:"author"`
	Community *CommunitySummary      `json:"community"`
	Children  []ThreadDetailResponse `json:"children"`
	Likes     []string               `json:"likes"`
	CreatedAt string                 `json:"created_at"`
}

type PaginatedThreadResponse struct {
	Posts  []ThreadResponse `json:"posts"`
	IsNext bool             `json:"is_next"`
}
