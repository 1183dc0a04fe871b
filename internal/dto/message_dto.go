package dto

type SendMessageRequest struct {
	// Neither field is required on its own; the web client refuses to send
	// an empty composer but the API does not re-check.
	Text      string `json:"text"`
	Image     string `json:"image" binding:"omitempty,url"`
	ReplyToID string `json:"reply_to_id" binding:"omitempty,uuid"`
}

type ReplyPreview struct {
	ID     string              `json:"id"`
	Text   string              `json:"text"`
	Author *ReplyPreviewAuthor `json:"author"`
}

type ReplyPreviewAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MessageResponse struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Image     *string       `json:"image"`
	Author    *UserSummary  `json:"author"`
	Community string        `json:"community"`
	ReplyTo   *ReplyPreview `json:"reply_to"`
	Likes     []string      `json:"likes"`
	CreatedAt string        `json:"created_at"`
}

type SendMessageResponse struct {
	Success bool            `json:"success"`
	Message MessageResponse `json:"message"`
}

type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

type MessageFilter struct {
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=200"`
}
